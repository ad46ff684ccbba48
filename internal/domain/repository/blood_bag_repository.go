package repository

import (
	"context"
	"time"

	"bloodbank-inventory/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BloodBagRepository interface {
	Create(ctx context.Context, db *gorm.DB, bag *entity.BloodBag) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.BloodBag, error)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.BloodBag, error)
	FindByFilter(ctx context.Context, db *gorm.DB, filter *entity.BagFilter) ([]entity.BloodBag, error)
	FindOverdue(ctx context.Context, db *gorm.DB, today time.Time) ([]entity.BloodBag, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.BagStatus) (int64, error)
	CountAvailable(ctx context.Context, db *gorm.DB, group entity.BloodGroup) (int64, error)
	FindDonorCollectionBetween(ctx context.Context, db *gorm.DB, donorID uuid.UUID, after, before time.Time) (*entity.BloodBag, error)
}
