package repository

import (
	"context"
	"errors"

	"bloodbank-inventory/internal/domain/entity"
	domainRepo "bloodbank-inventory/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type donorProfileRepository struct{}

func NewDonorProfileRepository() domainRepo.DonorProfileRepository {
	return &donorProfileRepository{}
}

func (r *donorProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.DonorProfile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *donorProfileRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.DonorProfile, error) {
	var profile entity.DonorProfile
	err := db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *donorProfileRepository) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.DonorProfile, error) {
	var profile entity.DonorProfile
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *donorProfileRepository) UpdateDonationHistory(ctx context.Context, db *gorm.DB, profile *entity.DonorProfile) error {
	return db.WithContext(ctx).Model(profile).
		Select("last_donation_date", "total_donations").
		Updates(profile).Error
}
