package service

import (
	"context"
	"testing"

	"bloodbank-inventory/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSummaryListsEveryGroup(t *testing.T) {
	f := newLedgerFixture(t)
	f.add(t, entity.BloodGroupABNegative, entity.Today())

	summaries, err := f.stock.Summary(context.Background(), f.db)
	require.NoError(t, err)
	require.Len(t, summaries, len(entity.BloodGroups))
	for i, group := range entity.BloodGroups {
		assert.Equal(t, group, summaries[i].BloodGroup)
	}
	assert.Equal(t, int64(1), f.units(t, entity.BloodGroupABNegative))
	assert.Equal(t, int64(0), f.units(t, entity.BloodGroupAPositive))
}

func TestRecountRepairsDrift(t *testing.T) {
	f := newLedgerFixture(t)
	f.add(t, entity.BloodGroupBPositive, entity.Today())
	f.add(t, entity.BloodGroupBPositive, entity.Today())

	require.NoError(t, f.db.Model(&entity.StockSummary{}).
		Where("blood_group = ?", entity.BloodGroupBPositive).
		Update("units", 7).Error)
	assert.Equal(t, int64(7), f.units(t, entity.BloodGroupBPositive))

	err := f.db.Transaction(func(tx *gorm.DB) error {
		_, err := f.stock.Recount(context.Background(), tx, entity.BloodGroupBPositive)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.units(t, entity.BloodGroupBPositive))
}

func TestRecountRollsBackWithCaller(t *testing.T) {
	f := newLedgerFixture(t)

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if _, err := f.ledger.Add(context.Background(), tx, &entity.BloodBag{
			BloodGroup:     entity.BloodGroupAPositive,
			CollectionDate: entity.Today(),
		}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	assert.Equal(t, int64(0), f.units(t, entity.BloodGroupAPositive))
	bags, err := f.ledger.List(context.Background(), f.db, nil)
	require.NoError(t, err)
	assert.Empty(t, bags)
}

func TestLowStockThresholdDefault(t *testing.T) {
	f := newLedgerFixture(t)
	assert.Equal(t, entity.DefaultLowStockThreshold, f.stock.LowStockThreshold())
}
