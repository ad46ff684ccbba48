package repository

import (
	"context"

	"bloodbank-inventory/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonorProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.DonorProfile) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.DonorProfile, error)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.DonorProfile, error)
	UpdateDonationHistory(ctx context.Context, db *gorm.DB, profile *entity.DonorProfile) error
}
