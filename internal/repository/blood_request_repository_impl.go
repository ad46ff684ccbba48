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

// urgencyOrder puts emergency first, then urgent, then normal
const urgencyOrder = "CASE urgency WHEN 'emergency' THEN 0 WHEN 'urgent' THEN 1 ELSE 2 END"

type bloodRequestRepository struct{}

func NewBloodRequestRepository() domainRepo.BloodRequestRepository {
	return &bloodRequestRepository{}
}

func (r *bloodRequestRepository) Create(ctx context.Context, db *gorm.DB, request *entity.BloodRequest) error {
	return db.WithContext(ctx).Create(request).Error
}

func (r *bloodRequestRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.BloodRequest, error) {
	var request entity.BloodRequest
	err := db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *bloodRequestRepository) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.BloodRequest, error) {
	var request entity.BloodRequest
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// FindOpen returns pending requests, most critical and longest waiting first.
// An empty group matches every group.
func (r *bloodRequestRepository) FindOpen(ctx context.Context, db *gorm.DB, group entity.BloodGroup) ([]entity.BloodRequest, error) {
	var requests []entity.BloodRequest
	query := db.WithContext(ctx).Where("status = ?", entity.RequestStatusPending)
	if group != "" {
		query = query.Where("blood_group = ?", group)
	}

	err := query.
		Order(urgencyOrder).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateStatus transitions a request ONLY if it is still in the expected
// status. Returns affected rows: 1 = moved, 0 = someone else moved it first.
func (r *bloodRequestRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.RequestStatus) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.BloodRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}
