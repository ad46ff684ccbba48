package usecase

import (
	"context"
	"strings"
	"time"

	"bloodbank-inventory/internal/converter"
	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/domain/repository"
	"bloodbank-inventory/internal/service"
	"bloodbank-inventory/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDonorNameRequired  = apperror.Validation("donor full name is required")
	ErrFutureLastDonation = apperror.Validation("last donation date cannot be in the future")
)

type DonorUsecase interface {
	CreateDonor(ctx context.Context, req *dto.CreateDonorRequest) (*dto.DonorResponse, error)
	GetDonor(ctx context.Context, id uuid.UUID) (*dto.DonorResponse, error)
	GetEligibility(ctx context.Context, id uuid.UUID) (*dto.EligibilityResponse, error)
	NextEligibleDate(ctx context.Context, id uuid.UUID) (time.Time, error)
}

type donorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	donorRepo    repository.DonorProfileRepository
	auditService service.AuditService
}

func NewDonorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	donorRepo repository.DonorProfileRepository,
	auditService service.AuditService,
) DonorUsecase {
	return &donorUsecase{
		db:           db,
		log:          log,
		donorRepo:    donorRepo,
		auditService: auditService,
	}
}

// CreateDonor registers a donor. A donor registered with prior donations
// carries the last donation date so eligibility is right from the start.
func (u *donorUsecase) CreateDonor(ctx context.Context, req *dto.CreateDonorRequest) (*dto.DonorResponse, error) {
	donor := &entity.DonorProfile{
		FullName:    strings.TrimSpace(req.FullName),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		City:        strings.TrimSpace(req.City),
	}
	if donor.FullName == "" {
		return nil, ErrDonorNameRequired
	}

	if req.BloodGroup != "" {
		group := entity.BloodGroup(req.BloodGroup)
		if !group.IsValid() {
			return nil, service.ErrUnknownGroup
		}
		donor.BloodGroup = &group
	}

	lastDonation, err := converter.ParseOptionalDate("last_donation_date", req.LastDonationDate)
	if err != nil {
		return nil, err
	}
	if lastDonation != nil {
		if lastDonation.After(entity.Today()) {
			return nil, ErrFutureLastDonation
		}
		donor.LastDonationDate = lastDonation
		donor.TotalDonations = 1
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperror.Storage("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	if err := u.donorRepo.Create(ctx, tx, donor); err != nil {
		u.log.Warnf("Failed to create donor profile: %+v", err)
		return nil, apperror.Storage("create donor profile", err)
	}

	if err := u.auditService.LogCreate(ctx, tx, operatorFromContext(ctx), entity.AuditActionDonorCreate, entity.AuditEntityDonor, donor.ID.String(), converter.DonorToResponse(donor)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit donor profile: %+v", err)
		return nil, apperror.Storage("commit donor profile", err)
	}

	u.log.Infof("Donor registered: id=%s", donor.ID)
	return converter.DonorToResponse(donor), nil
}

func (u *donorUsecase) GetDonor(ctx context.Context, id uuid.UUID) (*dto.DonorResponse, error) {
	donor, err := u.findDonor(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.DonorToResponse(donor), nil
}

func (u *donorUsecase) GetEligibility(ctx context.Context, id uuid.UUID) (*dto.EligibilityResponse, error) {
	donor, err := u.findDonor(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.DonorToEligibilityResponse(donor, entity.Today()), nil
}

// NextEligibleDate is the first day the donor may give blood again
func (u *donorUsecase) NextEligibleDate(ctx context.Context, id uuid.UUID) (time.Time, error) {
	donor, err := u.findDonor(ctx, id)
	if err != nil {
		return time.Time{}, err
	}
	return entity.NextEligibleDate(donor.LastDonationDate, entity.Today()), nil
}

func (u *donorUsecase) findDonor(ctx context.Context, id uuid.UUID) (*entity.DonorProfile, error) {
	donor, err := u.donorRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find donor %s: %+v", id, err)
		return nil, apperror.Storage("load donor profile", err)
	}
	if donor == nil {
		return nil, ErrDonorNotFound
	}
	return donor, nil
}
