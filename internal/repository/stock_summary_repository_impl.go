package repository

import (
	"context"
	"time"

	"bloodbank-inventory/internal/domain/entity"
	domainRepo "bloodbank-inventory/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type stockSummaryRepository struct{}

func NewStockSummaryRepository() domainRepo.StockSummaryRepository {
	return &stockSummaryRepository{}
}

func (r *stockSummaryRepository) LockGroup(ctx context.Context, db *gorm.DB, group entity.BloodGroup) (*entity.StockSummary, error) {
	seed := &entity.StockSummary{
		BloodGroup:  group,
		LastUpdated: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return nil, err
	}

	var summary entity.StockSummary
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("blood_group = ?", group).
		First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *stockSummaryRepository) Save(ctx context.Context, db *gorm.DB, summary *entity.StockSummary) error {
	return db.WithContext(ctx).Model(summary).
		Select("units", "last_updated").
		Updates(summary).Error
}

func (r *stockSummaryRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.StockSummary, error) {
	var summaries []entity.StockSummary
	err := db.WithContext(ctx).Order("blood_group ASC").Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
