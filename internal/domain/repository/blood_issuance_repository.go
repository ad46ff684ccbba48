package repository

import (
	"context"

	"bloodbank-inventory/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BloodIssuanceRepository interface {
	Create(ctx context.Context, db *gorm.DB, issuance *entity.BloodIssuance) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.BloodIssuance, error)
	FindByBagID(ctx context.Context, db *gorm.DB, bagID uuid.UUID) (*entity.BloodIssuance, error)
	FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.BloodIssuance, int64, error)
}
