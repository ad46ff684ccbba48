package converter

import (
	"testing"
	"time"

	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	day, err := ParseDate("collection_date", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), day)

	for _, bad := range []string{"", "01/01/2024", "2024-02-30", "2024-01-01T10:00:00Z"} {
		_, err := ParseDate("collection_date", bad)
		assert.ErrorIs(t, err, apperror.ErrValidation, bad)
		assert.EqualError(t, err, "collection_date must be a date in YYYY-MM-DD format")
	}
}

func TestParseOptionalDate(t *testing.T) {
	day, err := ParseOptionalDate("last_donation_date", "")
	require.NoError(t, err)
	assert.Nil(t, day)

	day, err = ParseOptionalDate("last_donation_date", "2023-12-31")
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.Equal(t, "2023-12-31", FormatDate(*day))
}

func TestDonorToEligibilityResponse(t *testing.T) {
	last := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	group := entity.BloodGroupOPositive
	donor := &entity.DonorProfile{BloodGroup: &group, LastDonationDate: &last}

	resp := DonorToEligibilityResponse(donor, time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-03-31", resp.NextEligibleDate)
	assert.False(t, resp.IsEligible)
	assert.Equal(t, "2024-01-01", *resp.LastDonationDate)

	resp = DonorToEligibilityResponse(donor, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	assert.True(t, resp.IsEligible)
}

func TestStockToResponse(t *testing.T) {
	resp := StockToResponse([]entity.StockSummary{
		{BloodGroup: entity.BloodGroupAPositive, Units: 12},
		{BloodGroup: entity.BloodGroupONegative, Units: 3},
	}, 10)

	assert.Equal(t, int64(15), resp.TotalUnits)
	assert.Equal(t, int64(12), resp.Units["A+"])
	assert.False(t, resp.Groups[0].IsLow)
	assert.True(t, resp.Groups[1].IsLow)
	assert.Nil(t, resp.Groups[0].LastUpdated)
}
