package usecase

import (
	"context"
	"testing"

	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDonor(t *testing.T) {
	f := newFixture(t)

	donor, err := f.donors.CreateDonor(f.ctx, &dto.CreateDonorRequest{
		FullName:   " Budi Santoso ",
		BloodGroup: "O+",
		City:       "Bandung",
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", donor.FullName)
	assert.Equal(t, "O+", donor.BloodGroup)
	assert.Nil(t, donor.LastDonationDate)
	assert.Zero(t, donor.TotalDonations)

	eligibility, err := f.donors.GetEligibility(context.Background(), donor.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.IsEligible)
	assert.Equal(t, day(0), eligibility.NextEligibleDate)
}

func TestCreateDonorValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.donors.CreateDonor(f.ctx, &dto.CreateDonorRequest{FullName: "  "})
	assert.ErrorIs(t, err, ErrDonorNameRequired)

	_, err = f.donors.CreateDonor(f.ctx, &dto.CreateDonorRequest{FullName: "Budi", BloodGroup: "O"})
	assert.ErrorIs(t, err, service.ErrUnknownGroup)

	_, err = f.donors.CreateDonor(f.ctx, &dto.CreateDonorRequest{FullName: "Budi", LastDonationDate: day(1)})
	assert.ErrorIs(t, err, ErrFutureLastDonation)
}

func TestNextEligibleDate(t *testing.T) {
	f := newFixture(t)
	donor := f.createDonor(t, entity.BloodGroupAPositive, day(-30))

	next, err := f.donors.NextEligibleDate(context.Background(), donor.ID)
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, day(60)), next)

	eligibility, err := f.donors.GetEligibility(context.Background(), donor.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.IsEligible)
	assert.Equal(t, day(-30), *eligibility.LastDonationDate)

	_, err = f.donors.NextEligibleDate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDonorNotFound)
}
