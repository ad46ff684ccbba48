package service

import (
	"context"
	"testing"
	"time"

	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/repository"
	"bloodbank-inventory/internal/testutil"
	"bloodbank-inventory/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type ledgerFixture struct {
	db     *gorm.DB
	ledger BagLedger
	stock  StockAggregator
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	bagRepo := repository.NewBloodBagRepository()
	stock := NewStockAggregator(log, bagRepo, repository.NewStockSummaryRepository(), 0)
	return &ledgerFixture{
		db:     db,
		ledger: NewBagLedger(log, bagRepo, stock),
		stock:  stock,
	}
}

func (f *ledgerFixture) add(t *testing.T, group entity.BloodGroup, collected time.Time) *entity.BloodBag {
	t.Helper()
	bag := &entity.BloodBag{BloodGroup: group, CollectionDate: collected}
	err := f.db.Transaction(func(tx *gorm.DB) error {
		_, err := f.ledger.Add(context.Background(), tx, bag)
		return err
	})
	require.NoError(t, err)
	return bag
}

func (f *ledgerFixture) units(t *testing.T, group entity.BloodGroup) int64 {
	t.Helper()
	summaries, err := f.stock.Summary(context.Background(), f.db)
	require.NoError(t, err)
	for _, s := range summaries {
		if s.BloodGroup == group {
			return s.Units
		}
	}
	t.Fatalf("no summary row for %s", group)
	return 0
}

func (f *ledgerFixture) transition(bagID uuid.UUID, to entity.BagStatus) (*TransitionResult, error) {
	var result *TransitionResult
	err := f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = f.ledger.Transition(context.Background(), tx, bagID, to)
		return err
	})
	return result, err
}

func TestLedgerAdd(t *testing.T) {
	f := newLedgerFixture(t)
	collected := entity.Today().AddDate(0, 0, -3)

	bag := &entity.BloodBag{
		BloodGroup:     entity.BloodGroupAPositive,
		CollectionDate: collected.Add(15 * time.Hour),
		ExpiryDate:     collected.AddDate(1, 0, 0),
		Status:         entity.BagStatusUsed,
		BagCode:        "CALLER-CODE",
	}
	var summary *entity.StockSummary
	err := f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		summary, err = f.ledger.Add(context.Background(), tx, bag)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, entity.BagStatusAvailable, bag.Status)
	assert.Equal(t, collected, bag.CollectionDate)
	assert.Equal(t, collected.AddDate(0, 0, entity.ShelfLifeDays), bag.ExpiryDate)
	assert.Regexp(t, `^BAG-\d{8}-[0-9A-F]{8}$`, bag.BagCode)
	assert.Equal(t, entity.DefaultBagVolumeML, bag.VolumeML)
	assert.Equal(t, int64(1), summary.Units)
	assert.Equal(t, int64(1), f.units(t, entity.BloodGroupAPositive))
}

func TestLedgerAddRejectsUnknownGroup(t *testing.T) {
	f := newLedgerFixture(t)

	err := f.db.Transaction(func(tx *gorm.DB) error {
		_, err := f.ledger.Add(context.Background(), tx, &entity.BloodBag{BloodGroup: "Z+", CollectionDate: entity.Today()})
		return err
	})
	assert.ErrorIs(t, err, ErrUnknownGroup)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestLedgerTransitionRecountsStock(t *testing.T) {
	f := newLedgerFixture(t)
	today := entity.Today()
	bag := f.add(t, entity.BloodGroupBNegative, today)
	f.add(t, entity.BloodGroupBNegative, today)
	assert.Equal(t, int64(2), f.units(t, entity.BloodGroupBNegative))

	result, err := f.transition(bag.ID, entity.BagStatusQuarantined)
	require.NoError(t, err)
	assert.Equal(t, entity.BagStatusAvailable, result.From)
	require.NotNil(t, result.Stock)
	assert.Equal(t, int64(1), result.Stock.Units)
	assert.Equal(t, int64(1), f.units(t, entity.BloodGroupBNegative))

	result, err = f.transition(bag.ID, entity.BagStatusExpired)
	require.NoError(t, err)
	assert.Nil(t, result.Stock, "quarantined to expired does not touch availability")
	assert.Equal(t, int64(1), f.units(t, entity.BloodGroupBNegative))
}

func TestLedgerTransitionRejectsTerminal(t *testing.T) {
	f := newLedgerFixture(t)
	bag := f.add(t, entity.BloodGroupOPositive, entity.Today())

	_, err := f.transition(bag.ID, entity.BagStatusUsed)
	require.NoError(t, err)

	_, err = f.transition(bag.ID, entity.BagStatusAvailable)
	assert.ErrorIs(t, err, ErrBagAlreadyIssued)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	stored, err := f.ledger.Get(context.Background(), f.db, bag.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BagStatusUsed, stored.Status)
	assert.Equal(t, int64(0), f.units(t, entity.BloodGroupOPositive))
}

func TestLedgerTransitionUnknownBag(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.transition(uuid.New(), entity.BagStatusExpired)
	assert.ErrorIs(t, err, ErrBagNotFound)

	_, err = f.transition(uuid.New(), "lost")
	assert.ErrorIs(t, err, ErrUnknownBagStatus)
}

func TestLedgerExpireOverdue(t *testing.T) {
	f := newLedgerFixture(t)
	today := entity.Today()

	overdue := f.add(t, entity.BloodGroupANegative, today.AddDate(0, 0, -43))
	lastDay := f.add(t, entity.BloodGroupANegative, today.AddDate(0, 0, -42))
	quarantined := f.add(t, entity.BloodGroupABPositive, today.AddDate(0, 0, -50))
	_, err := f.transition(quarantined.ID, entity.BagStatusQuarantined)
	require.NoError(t, err)

	var results []TransitionResult
	err = f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		results, err = f.ledger.ExpireOverdue(context.Background(), tx, today)
		return err
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	expired := map[uuid.UUID]TransitionResult{}
	for _, r := range results {
		expired[r.Bag.ID] = r
		assert.Equal(t, entity.BagStatusExpired, r.Bag.Status)
	}
	require.Contains(t, expired, overdue.ID)
	require.Contains(t, expired, quarantined.ID)
	assert.NotContains(t, expired, lastDay.ID)
	assert.Equal(t, int64(1), expired[overdue.ID].Stock.Units)
	assert.Nil(t, expired[quarantined.ID].Stock)

	assert.Equal(t, int64(1), f.units(t, entity.BloodGroupANegative))
}

func TestLedgerListOrdersByExpiry(t *testing.T) {
	f := newLedgerFixture(t)
	today := entity.Today()

	newer := f.add(t, entity.BloodGroupOPositive, today.AddDate(0, 0, -1))
	older := f.add(t, entity.BloodGroupOPositive, today.AddDate(0, 0, -10))
	f.add(t, entity.BloodGroupONegative, today)

	bags, err := f.ledger.List(context.Background(), f.db, &entity.BagFilter{BloodGroup: entity.BloodGroupOPositive})
	require.NoError(t, err)
	require.Len(t, bags, 2)
	assert.Equal(t, older.ID, bags[0].ID)
	assert.Equal(t, newer.ID, bags[1].ID)

	_, err = f.ledger.List(context.Background(), f.db, &entity.BagFilter{Status: "lost"})
	assert.ErrorIs(t, err, ErrUnknownBagStatus)
}

func TestCheckTransitionMessages(t *testing.T) {
	assert.NoError(t, CheckTransition(entity.BagStatusAvailable, entity.BagStatusUsed))
	assert.ErrorIs(t, CheckTransition(entity.BagStatusUsed, entity.BagStatusUsed), ErrBagAlreadyIssued)
	assert.ErrorIs(t, CheckTransition(entity.BagStatusExpired, entity.BagStatusAvailable), ErrBagExpired)

	err := CheckTransition(entity.BagStatusAvailable, entity.BagStatusAvailable)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
	assert.EqualError(t, err, "blood bag is already available")
}
