package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/domain/repository"
	"bloodbank-inventory/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBagNotFound      = apperror.NotFound("blood bag not found")
	ErrBagAlreadyIssued = apperror.InvalidTransition("blood bag already issued")
	ErrBagExpired       = apperror.InvalidTransition("blood bag has expired")
	ErrBagStatusChanged = apperror.InvalidTransition("blood bag status was changed by another operation, re-check availability")
	ErrUnknownBagStatus = apperror.Validation("unknown blood bag status")
	ErrUnknownGroup     = apperror.Validation("unknown blood group")
)

// TransitionResult describes one committed-to-be bag status change.
// Stock is nil when the change did not touch availability.
type TransitionResult struct {
	Bag   *entity.BloodBag
	From  entity.BagStatus
	Stock *entity.StockSummary
}

// BagLedger is the sole writer of blood bag rows. Every method that mutates
// takes the caller's transaction and recounts stock for the affected group
// on that same transaction whenever availability changes.
type BagLedger interface {
	Add(ctx context.Context, tx *gorm.DB, bag *entity.BloodBag) (*entity.StockSummary, error)
	Transition(ctx context.Context, tx *gorm.DB, bagID uuid.UUID, to entity.BagStatus) (*TransitionResult, error)
	ExpireOverdue(ctx context.Context, tx *gorm.DB, today time.Time) ([]TransitionResult, error)
	Lock(ctx context.Context, tx *gorm.DB, bagID uuid.UUID) (*entity.BloodBag, error)
	Get(ctx context.Context, db *gorm.DB, bagID uuid.UUID) (*entity.BloodBag, error)
	List(ctx context.Context, db *gorm.DB, filter *entity.BagFilter) ([]entity.BloodBag, error)
	DonationNear(ctx context.Context, db *gorm.DB, donorID uuid.UUID, day time.Time) (*entity.BloodBag, error)
}

type bagLedger struct {
	log   *logrus.Logger
	repo  repository.BloodBagRepository
	stock StockAggregator
}

func NewBagLedger(log *logrus.Logger, repo repository.BloodBagRepository, stock StockAggregator) BagLedger {
	return &bagLedger{
		log:   log,
		repo:  repo,
		stock: stock,
	}
}

// Add inserts a freshly collected bag as available. Expiry and bag code are
// always derived here; caller-supplied values are overwritten.
func (l *bagLedger) Add(ctx context.Context, tx *gorm.DB, bag *entity.BloodBag) (*entity.StockSummary, error) {
	if !bag.BloodGroup.IsValid() {
		return nil, ErrUnknownGroup
	}

	bag.CollectionDate = entity.DateOnly(bag.CollectionDate)
	bag.ExpiryDate = entity.ExpiryFor(bag.CollectionDate)
	bag.Status = entity.BagStatusAvailable
	bag.BagCode = generateBagCode(bag.CollectionDate)
	if bag.VolumeML <= 0 {
		bag.VolumeML = entity.DefaultBagVolumeML
	}

	if err := l.repo.Create(ctx, tx, bag); err != nil {
		l.log.Warnf("Failed to insert blood bag: %+v", err)
		return nil, apperror.Storage("insert blood bag", err)
	}

	return l.stock.Recount(ctx, tx, bag.BloodGroup)
}

// Transition moves a bag along the state machine. The row is locked and the
// current status re-read inside tx, so a concurrent transition of the same bag
// either waits for this one or loses with ErrBagStatusChanged.
func (l *bagLedger) Transition(ctx context.Context, tx *gorm.DB, bagID uuid.UUID, to entity.BagStatus) (*TransitionResult, error) {
	if !to.IsValid() {
		return nil, ErrUnknownBagStatus
	}

	bag, err := l.Lock(ctx, tx, bagID)
	if err != nil {
		return nil, err
	}

	from := bag.Status
	if err := CheckTransition(from, to); err != nil {
		return nil, err
	}

	affected, err := l.repo.UpdateStatus(ctx, tx, bag.ID, from, to)
	if err != nil {
		l.log.Warnf("Failed to update blood bag %s status: %+v", bagID, err)
		return nil, apperror.Storage("update blood bag status", err)
	}
	if affected == 0 {
		return nil, ErrBagStatusChanged
	}
	bag.Status = to

	result := &TransitionResult{Bag: bag, From: from}
	if from == entity.BagStatusAvailable || to == entity.BagStatusAvailable {
		summary, err := l.stock.Recount(ctx, tx, bag.BloodGroup)
		if err != nil {
			return nil, err
		}
		result.Stock = summary
	}
	return result, nil
}

// ExpireOverdue moves every in-stock bag past its expiry date to expired.
// Each affected group is recounted once.
func (l *bagLedger) ExpireOverdue(ctx context.Context, tx *gorm.DB, today time.Time) ([]TransitionResult, error) {
	bags, err := l.repo.FindOverdue(ctx, tx, today)
	if err != nil {
		l.log.Warnf("Failed to find overdue blood bags: %+v", err)
		return nil, apperror.Storage("find overdue blood bags", err)
	}

	results := make([]TransitionResult, 0, len(bags))
	touched := make(map[entity.BloodGroup]bool)
	for i := range bags {
		bag := &bags[i]
		from := bag.Status
		affected, err := l.repo.UpdateStatus(ctx, tx, bag.ID, from, entity.BagStatusExpired)
		if err != nil {
			l.log.Warnf("Failed to expire blood bag %s: %+v", bag.ID, err)
			return nil, apperror.Storage("expire blood bag", err)
		}
		if affected == 0 {
			return nil, ErrBagStatusChanged
		}
		bag.Status = entity.BagStatusExpired
		results = append(results, TransitionResult{Bag: bag, From: from})
		if from == entity.BagStatusAvailable {
			touched[bag.BloodGroup] = true
		}
	}

	summaries := make(map[entity.BloodGroup]*entity.StockSummary, len(touched))
	for _, group := range entity.BloodGroups {
		if !touched[group] {
			continue
		}
		summary, err := l.stock.Recount(ctx, tx, group)
		if err != nil {
			return nil, err
		}
		summaries[group] = summary
	}
	for i := range results {
		if results[i].From == entity.BagStatusAvailable {
			results[i].Stock = summaries[results[i].Bag.BloodGroup]
		}
	}
	return results, nil
}

// Lock loads a bag and holds its row lock until tx ends
func (l *bagLedger) Lock(ctx context.Context, tx *gorm.DB, bagID uuid.UUID) (*entity.BloodBag, error) {
	bag, err := l.repo.FindByIDForUpdate(ctx, tx, bagID)
	if err != nil {
		l.log.Warnf("Failed to lock blood bag %s: %+v", bagID, err)
		return nil, apperror.Storage("load blood bag", err)
	}
	if bag == nil {
		return nil, ErrBagNotFound
	}
	return bag, nil
}

func (l *bagLedger) Get(ctx context.Context, db *gorm.DB, bagID uuid.UUID) (*entity.BloodBag, error) {
	bag, err := l.repo.FindByID(ctx, db, bagID)
	if err != nil {
		l.log.Warnf("Failed to find blood bag %s: %+v", bagID, err)
		return nil, apperror.Storage("load blood bag", err)
	}
	if bag == nil {
		return nil, ErrBagNotFound
	}
	return bag, nil
}

// List returns bags ordered by expiry date ascending (first-expire-first-out)
func (l *bagLedger) List(ctx context.Context, db *gorm.DB, filter *entity.BagFilter) ([]entity.BloodBag, error) {
	if filter != nil {
		if filter.BloodGroup != "" && !filter.BloodGroup.IsValid() {
			return nil, ErrUnknownGroup
		}
		if filter.Status != "" && !filter.Status.IsValid() {
			return nil, ErrUnknownBagStatus
		}
	}

	bags, err := l.repo.FindByFilter(ctx, db, filter)
	if err != nil {
		l.log.Warnf("Failed to list blood bags: %+v", err)
		return nil, apperror.Storage("list blood bags", err)
	}
	return bags, nil
}

// DonationNear returns a bag of the donor collected less than the donation
// interval before or after day, or nil when the interval is respected
func (l *bagLedger) DonationNear(ctx context.Context, db *gorm.DB, donorID uuid.UUID, day time.Time) (*entity.BloodBag, error) {
	day = entity.DateOnly(day)
	bag, err := l.repo.FindDonorCollectionBetween(ctx, db, donorID,
		day.AddDate(0, 0, -entity.DonationIntervalDays),
		day.AddDate(0, 0, entity.DonationIntervalDays))
	if err != nil {
		l.log.Warnf("Failed to find collections of donor %s: %+v", donorID, err)
		return nil, apperror.Storage("load donor collections", err)
	}
	return bag, nil
}

// CheckTransition names the exact rule a rejected transition breaks
func CheckTransition(from, to entity.BagStatus) error {
	if from.CanTransitionTo(to) {
		return nil
	}
	switch {
	case from == entity.BagStatusUsed:
		return ErrBagAlreadyIssued
	case from == entity.BagStatusExpired:
		return ErrBagExpired
	case from == to:
		return apperror.InvalidTransition(fmt.Sprintf("blood bag is already %s", to))
	}
	return apperror.InvalidTransition(fmt.Sprintf("blood bag cannot move from %s to %s", from, to))
}

// generateBagCode generates a unique bag code: BAG-YYYYMMDD-XXXXXXXX
func generateBagCode(collectionDate time.Time) string {
	dateStr := collectionDate.Format("20060102")
	randomBytes := make([]byte, 4)
	rand.Read(randomBytes)
	return fmt.Sprintf("BAG-%s-%08X", dateStr, randomBytes)
}
