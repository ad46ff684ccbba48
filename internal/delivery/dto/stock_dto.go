package dto

import "time"

type StockGroupResponse struct {
	BloodGroup  string     `json:"blood_group"`
	Units       int64      `json:"units"`
	IsLow       bool       `json:"is_low"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

type StockSummaryResponse struct {
	Groups            []StockGroupResponse `json:"groups"`
	Units             map[string]int64     `json:"units"`
	TotalUnits        int64                `json:"total_units"`
	LowStockThreshold int                  `json:"low_stock_threshold"`
}
