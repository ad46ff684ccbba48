package repository

import (
	"context"
	"errors"
	"time"

	"bloodbank-inventory/internal/domain/entity"
	domainRepo "bloodbank-inventory/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bloodBagRepository struct{}

func NewBloodBagRepository() domainRepo.BloodBagRepository {
	return &bloodBagRepository{}
}

func (r *bloodBagRepository) Create(ctx context.Context, db *gorm.DB, bag *entity.BloodBag) error {
	return db.WithContext(ctx).Omit("Donor").Create(bag).Error
}

func (r *bloodBagRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.BloodBag, error) {
	var bag entity.BloodBag
	err := db.WithContext(ctx).Where("id = ?", id).First(&bag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bag, nil
}

// FindByIDForUpdate loads the bag and holds its row lock until the
// transaction in db ends.
func (r *bloodBagRepository) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.BloodBag, error) {
	var bag entity.BloodBag
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&bag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bag, nil
}

// FindByFilter returns bags earliest-expiring first
func (r *bloodBagRepository) FindByFilter(ctx context.Context, db *gorm.DB, filter *entity.BagFilter) ([]entity.BloodBag, error) {
	var bags []entity.BloodBag
	query := db.WithContext(ctx).Model(&entity.BloodBag{})

	if filter != nil {
		if filter.BloodGroup != "" {
			query = query.Where("blood_group = ?", filter.BloodGroup)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.ExpiresOnOrAfter != nil {
			query = query.Where("expiry_date >= ?", entity.DateOnly(*filter.ExpiresOnOrAfter))
		}
	}

	err := query.Order("expiry_date ASC, collection_date ASC, bag_code ASC").Find(&bags).Error
	if err != nil {
		return nil, err
	}
	return bags, nil
}

// FindOverdue returns bags still in stock whose shelf life ended before today
func (r *bloodBagRepository) FindOverdue(ctx context.Context, db *gorm.DB, today time.Time) ([]entity.BloodBag, error) {
	var bags []entity.BloodBag
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("status IN ? AND expiry_date < ?",
			[]entity.BagStatus{entity.BagStatusAvailable, entity.BagStatusQuarantined},
			entity.DateOnly(today)).
		Order("expiry_date ASC").
		Find(&bags).Error
	if err != nil {
		return nil, err
	}
	return bags, nil
}

// UpdateStatus moves a bag from one status to another ONLY if it is still in
// the expected status. Returns affected rows: 1 = moved, 0 = status changed
// underneath the caller.
func (r *bloodBagRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.BagStatus) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.BloodBag{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *bloodBagRepository) CountAvailable(ctx context.Context, db *gorm.DB, group entity.BloodGroup) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.BloodBag{}).
		Where("blood_group = ? AND status = ?", group, entity.BagStatusAvailable).
		Count(&count).Error
	return count, err
}

// FindDonorCollectionBetween returns the donor's earliest bag collected
// strictly between after and before, or nil when there is none
func (r *bloodBagRepository) FindDonorCollectionBetween(ctx context.Context, db *gorm.DB, donorID uuid.UUID, after, before time.Time) (*entity.BloodBag, error) {
	var bag entity.BloodBag
	err := db.WithContext(ctx).
		Where("donor_id = ? AND collection_date > ? AND collection_date < ?", donorID, entity.DateOnly(after), entity.DateOnly(before)).
		Order("collection_date ASC").
		First(&bag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bag, nil
}
