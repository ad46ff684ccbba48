package entity

import "time"

// DefaultLowStockThreshold is used when no threshold is configured
const DefaultLowStockThreshold = 10

// StockSummary caches the available unit count of one blood group.
// It is recomputed from blood_bags inside every transaction that changes
// availability for the group.
type StockSummary struct {
	BloodGroup  BloodGroup `gorm:"type:varchar(3);primaryKey" json:"blood_group"`
	Units       int64      `gorm:"not null;default:0" json:"units"`
	LastUpdated time.Time  `gorm:"not null" json:"last_updated"`
}

func (StockSummary) TableName() string {
	return "stock_summaries"
}

// IsLow checks if the group is below the low-stock threshold
func (s *StockSummary) IsLow(threshold int) bool {
	return s.Units < int64(threshold)
}
