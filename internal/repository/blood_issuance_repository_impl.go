package repository

import (
	"context"
	"errors"

	"bloodbank-inventory/internal/domain/entity"
	domainRepo "bloodbank-inventory/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bloodIssuanceRepository struct{}

func NewBloodIssuanceRepository() domainRepo.BloodIssuanceRepository {
	return &bloodIssuanceRepository{}
}

func (r *bloodIssuanceRepository) Create(ctx context.Context, db *gorm.DB, issuance *entity.BloodIssuance) error {
	return db.WithContext(ctx).Omit("Bag", "Request").Create(issuance).Error
}

func (r *bloodIssuanceRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.BloodIssuance, error) {
	var issuance entity.BloodIssuance
	err := db.WithContext(ctx).Preload("Bag").Preload("Request").Where("id = ?", id).First(&issuance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &issuance, nil
}

func (r *bloodIssuanceRepository) FindByBagID(ctx context.Context, db *gorm.DB, bagID uuid.UUID) (*entity.BloodIssuance, error) {
	var issuance entity.BloodIssuance
	err := db.WithContext(ctx).Where("bag_id = ?", bagID).First(&issuance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &issuance, nil
}

func (r *bloodIssuanceRepository) FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.BloodIssuance, int64, error) {
	var issuances []entity.BloodIssuance
	var total int64

	if err := db.WithContext(ctx).Model(&entity.BloodIssuance{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.WithContext(ctx).Preload("Bag").
		Order("issue_date DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&issuances).Error
	if err != nil {
		return nil, 0, err
	}
	return issuances, total, nil
}
