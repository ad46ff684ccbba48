package repository

import (
	"context"

	"bloodbank-inventory/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BloodRequestRepository interface {
	Create(ctx context.Context, db *gorm.DB, request *entity.BloodRequest) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.BloodRequest, error)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.BloodRequest, error)
	FindOpen(ctx context.Context, db *gorm.DB, group entity.BloodGroup) ([]entity.BloodRequest, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.RequestStatus) (int64, error)
}
