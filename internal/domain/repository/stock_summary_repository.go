package repository

import (
	"context"

	"bloodbank-inventory/internal/domain/entity"

	"gorm.io/gorm"
)

type StockSummaryRepository interface {
	// LockGroup seeds the group's row if missing and locks it until the
	// surrounding transaction ends.
	LockGroup(ctx context.Context, db *gorm.DB, group entity.BloodGroup) (*entity.StockSummary, error)
	Save(ctx context.Context, db *gorm.DB, summary *entity.StockSummary) error
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.StockSummary, error)
}
