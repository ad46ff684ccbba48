package usecase

import (
	"context"
	"fmt"
	"time"

	"bloodbank-inventory/internal/converter"
	"bloodbank-inventory/internal/delivery/http/middleware"
	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/domain/repository"
	"bloodbank-inventory/internal/service"
	"bloodbank-inventory/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrFutureCollectionDate = apperror.Validation("collection date cannot be in the future")
	ErrBloodGroupRequired   = apperror.Validation("blood group is required for a bag without a donor")
	ErrDonorUntyped         = apperror.Validation("donor has no verified blood group")
	ErrDonorGroupMismatch   = apperror.Validation("blood group does not match the donor's verified typing")
	ErrHemoglobinTooLow     = apperror.Validation(fmt.Sprintf("hemoglobin must be at least %s g/dL", entity.MinDonorHemoglobin))
)

// collection is one physical donation about to become a bag
type collection struct {
	DonorID        *uuid.UUID
	BloodGroup     entity.BloodGroup
	CollectionDate time.Time
	VolumeML       int
	Hemoglobin     *decimal.Decimal
	Notes          string
}

type collectionResult struct {
	Bag   *entity.BloodBag
	Donor *entity.DonorProfile
	Stock *entity.StockSummary
}

// collectionRecorder adds a bag and, when a donor is named, updates the
// donor's history on the same transaction. It backs both addBag and
// recordCollection so a donor-linked bag never exists without the history
// update.
type collectionRecorder struct {
	log          *logrus.Logger
	ledger       service.BagLedger
	donorRepo    repository.DonorProfileRepository
	auditService service.AuditService
}

// validate checks everything that needs no storage access
func (c *collectionRecorder) validate(in *collection) error {
	in.CollectionDate = entity.DateOnly(in.CollectionDate)
	if in.CollectionDate.After(entity.Today()) {
		return ErrFutureCollectionDate
	}
	if in.BloodGroup != "" && !in.BloodGroup.IsValid() {
		return service.ErrUnknownGroup
	}
	if in.DonorID == nil && in.BloodGroup == "" {
		return ErrBloodGroupRequired
	}
	if in.Hemoglobin != nil && in.Hemoglobin.LessThan(entity.MinDonorHemoglobin) {
		return ErrHemoglobinTooLow
	}
	return nil
}

// record runs inside tx. donorMissing is returned when DonorID does not resolve.
func (c *collectionRecorder) record(ctx context.Context, tx *gorm.DB, operatorID *uuid.UUID, in *collection, donorMissing error) (*collectionResult, error) {
	if err := c.validate(in); err != nil {
		return nil, err
	}

	result := &collectionResult{}
	group := in.BloodGroup

	if in.DonorID != nil {
		donor, err := c.donorRepo.FindByIDForUpdate(ctx, tx, *in.DonorID)
		if err != nil {
			c.log.Warnf("Failed to lock donor %s: %+v", *in.DonorID, err)
			return nil, apperror.Storage("load donor profile", err)
		}
		if donor == nil {
			return nil, donorMissing
		}
		if !donor.HasKnownBloodGroup() {
			return nil, ErrDonorUntyped
		}
		if group != "" && group != *donor.BloodGroup {
			return nil, ErrDonorGroupMismatch
		}
		group = *donor.BloodGroup

		if err := c.checkInterval(ctx, tx, donor, in.CollectionDate); err != nil {
			return nil, err
		}
		result.Donor = donor
	}

	bag := &entity.BloodBag{
		BloodGroup:     group,
		DonorID:        in.DonorID,
		CollectionDate: in.CollectionDate,
		VolumeML:       in.VolumeML,
		Hemoglobin:     in.Hemoglobin,
		Notes:          in.Notes,
	}
	stock, err := c.ledger.Add(ctx, tx, bag)
	if err != nil {
		return nil, err
	}
	result.Bag = bag
	result.Stock = stock

	if result.Donor != nil {
		result.Donor.RecordDonation(in.CollectionDate)
		if err := c.donorRepo.UpdateDonationHistory(ctx, tx, result.Donor); err != nil {
			c.log.Warnf("Failed to update donation history of donor %s: %+v", result.Donor.ID, err)
			return nil, apperror.Storage("update donation history", err)
		}
	}

	if err := c.auditService.LogCreate(ctx, tx, operatorID, entity.AuditActionBagCollect, entity.AuditEntityBag, bag.ID.String(), converter.BagToResponse(bag)); err != nil {
		return nil, err
	}

	return result, nil
}

// checkInterval enforces the donation interval on both sides of day. A
// backdated entry must also keep its distance from the later donations.
func (c *collectionRecorder) checkInterval(ctx context.Context, tx *gorm.DB, donor *entity.DonorProfile, day time.Time) error {
	if last := donor.LastDonationDate; last != nil {
		lastDay := entity.DateOnly(*last)
		if !day.Before(lastDay) {
			next := entity.NextEligibleDate(last, day)
			if day.Before(next) {
				return apperror.Validation(fmt.Sprintf("donor is not eligible to donate until %s", converter.FormatDate(next)))
			}
		} else if lastDay.Before(day.AddDate(0, 0, entity.DonationIntervalDays)) {
			return donationTooClose(lastDay)
		}
	}

	near, err := c.ledger.DonationNear(ctx, tx, donor.ID, day)
	if err != nil {
		return err
	}
	if near != nil {
		return donationTooClose(entity.DateOnly(near.CollectionDate))
	}
	return nil
}

func donationTooClose(other time.Time) error {
	return apperror.Validation(fmt.Sprintf("donor already gave blood on %s, donations must be at least %d days apart",
		converter.FormatDate(other), entity.DonationIntervalDays))
}

func isAdmin(ctx context.Context) bool {
	roleID, ok := middleware.GetRoleIDFromContext(ctx)
	return ok && roleID == entity.RoleIDAdmin
}

// operatorFromContext returns the acting operator, or nil when the call is anonymous
func operatorFromContext(ctx context.Context) *uuid.UUID {
	operatorID, ok := middleware.GetOperatorIDFromContext(ctx)
	if !ok || operatorID == uuid.Nil {
		return nil
	}
	return &operatorID
}
