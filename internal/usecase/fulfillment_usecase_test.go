package usecase

import (
	"context"
	"sync"
	"testing"

	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/service"
	"bloodbank-inventory/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueBagFulfillsRequest(t *testing.T) {
	f := newFixture(t)

	bag := f.addBag(t, entity.BloodGroupONegative, "2024-01-01")
	assert.Equal(t, "2024-02-12", bag.ExpiryDate)
	assert.Equal(t, int64(1), f.units(t, entity.BloodGroupONegative))

	request := f.createRequest(t, entity.BloodGroupONegative, entity.UrgencyEmergency)

	issuance, err := f.fulfillment.IssueBag(f.ctx, &dto.IssueBagRequest{
		BagID:     bag.ID,
		RequestID: &request.ID,
		IssueDate: "2024-01-05",
		Patient:   patient(),
	})
	require.NoError(t, err)

	assert.Equal(t, bag.ID, issuance.BagID)
	assert.Equal(t, f.operatorID, issuance.IssuedBy)
	assert.Equal(t, "2024-01-05", issuance.IssueDate)
	require.NotNil(t, issuance.Bag)
	assert.Equal(t, string(entity.BagStatusUsed), issuance.Bag.Status)
	require.NotNil(t, issuance.Request)
	assert.Equal(t, string(entity.RequestStatusFulfilled), issuance.Request.Status)

	storedBag, err := f.bags.GetBag(context.Background(), bag.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.BagStatusUsed), storedBag.Status)

	storedRequest, err := f.requests.GetRequest(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.RequestStatusFulfilled), storedRequest.Status)

	assert.Equal(t, int64(0), f.units(t, entity.BloodGroupONegative))

	fetched, err := f.fulfillment.GetIssuance(context.Background(), issuance.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rina Wijaya", fetched.PatientName)
	assert.Equal(t, request.ID, *fetched.RequestID)

	assert.Equal(t, []string{
		entity.AuditActionBagCollect,
		entity.AuditActionRequestCreate,
		entity.AuditActionRequestFulfill,
		entity.AuditActionBagIssue,
	}, f.auditActions(t))
}

func TestIssueBagTwice(t *testing.T) {
	f := newFixture(t)
	bag := f.addBag(t, entity.BloodGroupAPositive, day(-2))

	req := &dto.IssueBagRequest{BagID: bag.ID, IssueDate: day(0), Patient: patient()}
	_, err := f.fulfillment.IssueBag(f.ctx, req)
	require.NoError(t, err)

	_, err = f.fulfillment.IssueBag(f.ctx, req)
	assert.ErrorIs(t, err, service.ErrBagAlreadyIssued)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	issuances, total, err := f.fulfillment.ListIssuances(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, issuances, 1)
}

func TestIssueBagConcurrently(t *testing.T) {
	f := newFixture(t)
	bag := f.addBag(t, entity.BloodGroupBPositive, day(-1))

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.fulfillment.IssueBag(f.ctx, &dto.IssueBagRequest{
				BagID:     bag.ID,
				IssueDate: day(0),
				Patient:   patient(),
			})
		}()
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
	}
	assert.Equal(t, 1, succeeded)

	_, total, err := f.fulfillment.ListIssuances(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(0), f.units(t, entity.BloodGroupBPositive))
}

func TestIssueBagRejections(t *testing.T) {
	f := newFixture(t)
	bag := f.addBag(t, entity.BloodGroupAPositive, day(-5))

	tests := []struct {
		name string
		ctx  context.Context
		req  dto.IssueBagRequest
		want error
	}{
		{
			name: "no operator",
			ctx:  context.Background(),
			req:  dto.IssueBagRequest{BagID: bag.ID, IssueDate: day(0), Patient: patient()},
			want: ErrOperatorRequired,
		},
		{
			name: "missing patient name",
			ctx:  f.ctx,
			req:  dto.IssueBagRequest{BagID: bag.ID, IssueDate: day(0), Patient: dto.PatientRequest{Hospital: "RS Harapan"}},
			want: ErrPatientNameRequired,
		},
		{
			name: "bad gender",
			ctx:  f.ctx,
			req:  dto.IssueBagRequest{BagID: bag.ID, IssueDate: day(0), Patient: dto.PatientRequest{Name: "Rina", Hospital: "RS Harapan", Gender: "X"}},
			want: ErrInvalidPatientGender,
		},
		{
			name: "future issue date",
			ctx:  f.ctx,
			req:  dto.IssueBagRequest{BagID: bag.ID, IssueDate: day(1), Patient: patient()},
			want: ErrFutureIssueDate,
		},
		{
			name: "issue before collection",
			ctx:  f.ctx,
			req:  dto.IssueBagRequest{BagID: bag.ID, IssueDate: day(-6), Patient: patient()},
			want: ErrIssueBeforeCollection,
		},
		{
			name: "unknown bag",
			ctx:  f.ctx,
			req:  dto.IssueBagRequest{BagID: uuid.New(), IssueDate: day(0), Patient: patient()},
			want: service.ErrBagNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.fulfillment.IssueBag(tt.ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	stored, err := f.bags.GetBag(context.Background(), bag.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.BagStatusAvailable), stored.Status)
}

func TestIssueBagExpiredOnIssueDate(t *testing.T) {
	f := newFixture(t)
	bag := f.addBag(t, entity.BloodGroupABPositive, day(-43))

	_, err := f.fulfillment.IssueBag(f.ctx, &dto.IssueBagRequest{BagID: bag.ID, IssueDate: day(0), Patient: patient()})
	assert.ErrorIs(t, err, service.ErrBagExpired)

	// still inside shelf life on that day
	_, err = f.fulfillment.IssueBag(f.ctx, &dto.IssueBagRequest{BagID: bag.ID, IssueDate: day(-1), Patient: patient()})
	assert.NoError(t, err)
}

func TestIssueBagQuarantined(t *testing.T) {
	f := newFixture(t)
	bag := f.addBag(t, entity.BloodGroupOPositive, day(-1))

	_, err := f.bags.SetStatus(f.ctx, bag.ID, &dto.UpdateBagStatusRequest{Status: string(entity.BagStatusQuarantined)})
	require.NoError(t, err)

	_, err = f.fulfillment.IssueBag(f.ctx, &dto.IssueBagRequest{BagID: bag.ID, IssueDate: day(0), Patient: patient()})
	assert.ErrorIs(t, err, ErrBagQuarantined)
}

func TestIssueBagRequestChecks(t *testing.T) {
	f := newFixture(t)
	bag := f.addBag(t, entity.BloodGroupANegative, day(-1))

	mismatched := f.createRequest(t, entity.BloodGroupAPositive, entity.UrgencyNormal)
	_, err := f.fulfillment.IssueBag(f.ctx, &dto.IssueBagRequest{BagID: bag.ID, RequestID: &mismatched.ID, IssueDate: day(0), Patient: patient()})
	assert.ErrorIs(t, err, ErrBloodGroupMismatch)

	closed := f.createRequest(t, entity.BloodGroupANegative, entity.UrgencyNormal)
	_, err = f.requests.CloseRequest(f.ctx, closed.ID)
	require.NoError(t, err)
	_, err = f.fulfillment.IssueBag(f.ctx, &dto.IssueBagRequest{BagID: bag.ID, RequestID: &closed.ID, IssueDate: day(0), Patient: patient()})
	assert.ErrorIs(t, err, ErrRequestNotPending)

	missing := uuid.New()
	_, err = f.fulfillment.IssueBag(f.ctx, &dto.IssueBagRequest{BagID: bag.ID, RequestID: &missing, IssueDate: day(0), Patient: patient()})
	assert.ErrorIs(t, err, ErrRequestNotFound)

	// every rejection rolled back
	assert.Equal(t, int64(1), f.units(t, entity.BloodGroupANegative))
	_, total, err := f.fulfillment.ListIssuances(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRecordCollection(t *testing.T) {
	f := newFixture(t)
	donor := f.createDonor(t, entity.BloodGroupBNegative, "")

	result, err := f.fulfillment.RecordCollection(f.ctx, &dto.RecordCollectionRequest{
		DonorID:        donor.ID,
		CollectionDate: day(-100),
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.BloodGroupBNegative), result.Bag.BloodGroup)
	assert.Equal(t, donor.ID, *result.Bag.DonorID)
	assert.Equal(t, 1, result.Donor.TotalDonations)
	require.NotNil(t, result.Donor.LastDonationDate)
	assert.Equal(t, day(-100), *result.Donor.LastDonationDate)

	// 90 days have not passed since the first collection
	_, err = f.fulfillment.RecordCollection(f.ctx, &dto.RecordCollectionRequest{
		DonorID:        donor.ID,
		CollectionDate: day(-20),
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, err.Error(), "not eligible to donate until "+day(-10))

	result, err = f.fulfillment.RecordCollection(f.ctx, &dto.RecordCollectionRequest{
		DonorID:        donor.ID,
		CollectionDate: day(-10),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Donor.TotalDonations)
	assert.Equal(t, day(-10), *result.Donor.LastDonationDate)

	eligibility, err := f.donors.GetEligibility(context.Background(), donor.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.IsEligible)
	assert.Equal(t, day(80), eligibility.NextEligibleDate)

	assert.Equal(t, int64(2), f.units(t, entity.BloodGroupBNegative))
}

func TestRecordCollectionRejections(t *testing.T) {
	f := newFixture(t)
	untyped := f.createDonor(t, "", "")

	_, err := f.fulfillment.RecordCollection(f.ctx, &dto.RecordCollectionRequest{DonorID: uuid.New(), CollectionDate: day(0)})
	assert.ErrorIs(t, err, ErrDonorNotFound)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.fulfillment.RecordCollection(f.ctx, &dto.RecordCollectionRequest{DonorID: untyped.ID, CollectionDate: day(0)})
	assert.ErrorIs(t, err, ErrDonorUntyped)

	_, err = f.fulfillment.RecordCollection(f.ctx, &dto.RecordCollectionRequest{DonorID: untyped.ID, CollectionDate: "05/01/2024"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	stored, err := f.donors.GetDonor(context.Background(), untyped.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.TotalDonations)
}

func TestValidatePatientTrims(t *testing.T) {
	p := entity.PatientDetails{Name: "  Rina ", Hospital: " RS Harapan ", Age: 40}
	require.NoError(t, validatePatient(&p))
	assert.Equal(t, "Rina", p.Name)
	assert.Equal(t, "RS Harapan", p.Hospital)

	p = entity.PatientDetails{Name: "Rina", Hospital: "RS", Age: 131}
	assert.ErrorIs(t, validatePatient(&p), ErrInvalidPatientAge)
}

func TestNormalizePage(t *testing.T) {
	page, limit := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = normalizePage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)
}
