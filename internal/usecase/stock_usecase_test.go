package usecase

import (
	"context"
	"testing"

	"bloodbank-inventory/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStockSummary(t *testing.T) {
	f := newFixture(t)
	f.addBag(t, entity.BloodGroupAPositive, day(-1))
	f.addBag(t, entity.BloodGroupAPositive, day(-1))
	f.addBag(t, entity.BloodGroupONegative, day(-1))

	summary, err := f.stock.GetStockSummary(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Groups, len(entity.BloodGroups))
	assert.Len(t, summary.Units, len(entity.BloodGroups))
	assert.Equal(t, int64(3), summary.TotalUnits)
	assert.Equal(t, 2, summary.LowStockThreshold)

	for _, group := range summary.Groups {
		switch group.BloodGroup {
		case "A+":
			assert.Equal(t, int64(2), group.Units)
			assert.False(t, group.IsLow)
		case "O-":
			assert.Equal(t, int64(1), group.Units)
			assert.True(t, group.IsLow)
		default:
			assert.Zero(t, group.Units)
			assert.True(t, group.IsLow)
		}
	}
}

func TestReconcileAllRepairsDrift(t *testing.T) {
	f := newFixture(t)
	f.addBag(t, entity.BloodGroupBNegative, day(-1))
	f.addBag(t, entity.BloodGroupBNegative, day(-1))

	require.NoError(t, f.db.Model(&entity.StockSummary{}).
		Where("blood_group = ?", entity.BloodGroupBNegative).
		Update("units", 9).Error)
	assert.Equal(t, int64(9), f.units(t, entity.BloodGroupBNegative))

	summary, err := f.stock.ReconcileAll(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Units["B-"])
	assert.Equal(t, int64(2), summary.TotalUnits)
	assert.Equal(t, int64(2), f.units(t, entity.BloodGroupBNegative))

	var logs []entity.AuditLog
	require.NoError(t, f.db.Where("action = ?", entity.AuditActionStockReconcile).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "B-", logs[0].EntityID)

	// a second pass finds nothing to repair
	_, err = f.stock.ReconcileAll(f.ctx)
	require.NoError(t, err)
	require.NoError(t, f.db.Where("action = ?", entity.AuditActionStockReconcile).Find(&logs).Error)
	assert.Len(t, logs, 1)
}
