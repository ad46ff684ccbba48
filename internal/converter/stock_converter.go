package converter

import (
	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
)

// StockToResponse converts the per-group summaries, flagging groups below threshold
func StockToResponse(summaries []entity.StockSummary, threshold int) *dto.StockSummaryResponse {
	response := &dto.StockSummaryResponse{
		Groups:            make([]dto.StockGroupResponse, len(summaries)),
		Units:             make(map[string]int64, len(summaries)),
		LowStockThreshold: threshold,
	}

	for i := range summaries {
		summary := &summaries[i]
		group := dto.StockGroupResponse{
			BloodGroup: summary.BloodGroup.String(),
			Units:      summary.Units,
			IsLow:      summary.IsLow(threshold),
		}
		if !summary.LastUpdated.IsZero() {
			lastUpdated := summary.LastUpdated
			group.LastUpdated = &lastUpdated
		}
		response.Groups[i] = group
		response.Units[group.BloodGroup] = summary.Units
		response.TotalUnits += summary.Units
	}
	return response
}
