package usecase

import (
	"context"
	"strings"

	"bloodbank-inventory/internal/converter"
	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/domain/repository"
	"bloodbank-inventory/internal/infrastructure/metrics"
	"bloodbank-inventory/internal/service"
	"bloodbank-inventory/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUseIssuanceWorkflow  = apperror.Validation("a bag is marked used only by issuing it")
	ErrDonorDoesNotResolve  = apperror.Validation("donor reference does not resolve to a donor profile")
	ErrReleaseRequiresAdmin = apperror.Forbidden("only an administrator can release a quarantined blood bag")
)

type BagUsecase interface {
	AddBag(ctx context.Context, req *dto.AddBagRequest) (*dto.BagResponse, error)
	SetStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateBagStatusRequest) (*dto.BagResponse, error)
	GetBag(ctx context.Context, id uuid.UUID) (*dto.BagResponse, error)
	ListBags(ctx context.Context, filter *dto.BagFilterRequest) (*dto.BagListResponse, error)
	ExpireOverdue(ctx context.Context) (*dto.ExpireBagsResponse, error)
}

type bagUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	ledger       service.BagLedger
	auditService service.AuditService
	metrics      *metrics.Metrics
	collector    *collectionRecorder
}

func NewBagUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ledger service.BagLedger,
	donorRepo repository.DonorProfileRepository,
	auditService service.AuditService,
	metrics *metrics.Metrics,
) BagUsecase {
	return &bagUsecase{
		db:           db,
		log:          log,
		ledger:       ledger,
		auditService: auditService,
		metrics:      metrics,
		collector: &collectionRecorder{
			log:          log,
			ledger:       ledger,
			donorRepo:    donorRepo,
			auditService: auditService,
		},
	}
}

// AddBag records a collected bag. With a donor the group is taken from the
// donor's verified typing and the donor's history is updated in the same
// transaction; without one the caller must name the group.
func (u *bagUsecase) AddBag(ctx context.Context, req *dto.AddBagRequest) (*dto.BagResponse, error) {
	resp, err := u.addBag(ctx, req)
	u.metrics.ObserveCollection(err)
	return resp, err
}

func (u *bagUsecase) addBag(ctx context.Context, req *dto.AddBagRequest) (*dto.BagResponse, error) {
	collectionDate, err := converter.ParseDate("collection_date", req.CollectionDate)
	if err != nil {
		return nil, err
	}

	in := &collection{
		DonorID:        req.DonorID,
		BloodGroup:     entity.BloodGroup(req.BloodGroup),
		CollectionDate: collectionDate,
		VolumeML:       req.VolumeML,
		Hemoglobin:     req.Hemoglobin,
		Notes:          strings.TrimSpace(req.Notes),
	}
	if err := u.collector.validate(in); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperror.Storage("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	result, err := u.collector.record(ctx, tx, operatorFromContext(ctx), in, ErrDonorDoesNotResolve)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit blood bag: %+v", err)
		return nil, apperror.Storage("commit blood bag", err)
	}

	u.metrics.ObserveStock(result.Stock)

	u.log.Infof("Blood bag added: id=%s, code=%s, group=%s, expiry=%s", result.Bag.ID, result.Bag.BagCode, result.Bag.BloodGroup, converter.FormatDate(result.Bag.ExpiryDate))
	return converter.BagToResponse(result.Bag), nil
}

// SetStatus moves a bag along the state machine. Marking a bag used is
// reserved for IssueBag, which also writes the issuance receipt. Releasing a
// quarantined bag back to stock needs an administrator.
func (u *bagUsecase) SetStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateBagStatusRequest) (*dto.BagResponse, error) {
	to := entity.BagStatus(req.Status)
	if !to.IsValid() {
		return nil, service.ErrUnknownBagStatus
	}
	if to == entity.BagStatusUsed {
		return nil, ErrUseIssuanceWorkflow
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperror.Storage("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	if to == entity.BagStatusAvailable && !isAdmin(ctx) {
		bag, err := u.ledger.Lock(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if bag.Status == entity.BagStatusQuarantined {
			return nil, ErrReleaseRequiresAdmin
		}
	}

	result, err := u.ledger.Transition(ctx, tx, id, to)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, operatorFromContext(ctx), entity.AuditActionBagStatus, entity.AuditEntityBag, id.String(),
		map[string]interface{}{"status": result.From},
		map[string]interface{}{"status": to},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit status of blood bag %s: %+v", id, err)
		return nil, apperror.Storage("commit blood bag status", err)
	}

	u.metrics.ObserveTransition(result.From, to)
	u.metrics.ObserveStock(result.Stock)

	u.log.Infof("Blood bag status changed: id=%s, from=%s, to=%s", id, result.From, to)
	return converter.BagToResponse(result.Bag), nil
}

func (u *bagUsecase) GetBag(ctx context.Context, id uuid.UUID) (*dto.BagResponse, error) {
	bag, err := u.ledger.Get(ctx, u.db, id)
	if err != nil {
		return nil, err
	}
	return converter.BagToResponse(bag), nil
}

func (u *bagUsecase) ListBags(ctx context.Context, filter *dto.BagFilterRequest) (*dto.BagListResponse, error) {
	bags, err := u.ledger.List(ctx, u.db, &entity.BagFilter{
		BloodGroup: entity.BloodGroup(filter.BloodGroup),
		Status:     entity.BagStatus(filter.Status),
	})
	if err != nil {
		return nil, err
	}

	return &dto.BagListResponse{
		Bags:  converter.BagsToResponses(bags),
		Total: len(bags),
	}, nil
}

// ExpireOverdue expires every in-stock bag whose shelf life ended before today
func (u *bagUsecase) ExpireOverdue(ctx context.Context) (*dto.ExpireBagsResponse, error) {
	operatorID := operatorFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperror.Storage("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	results, err := u.ledger.ExpireOverdue(ctx, tx, entity.Today())
	if err != nil {
		return nil, err
	}

	bags := make([]entity.BloodBag, len(results))
	for i, result := range results {
		if err := u.auditService.LogUpdate(ctx, tx, operatorID, entity.AuditActionBagExpire, entity.AuditEntityBag, result.Bag.ID.String(),
			map[string]interface{}{"status": result.From},
			map[string]interface{}{"status": entity.BagStatusExpired, "expiry_date": converter.FormatDate(result.Bag.ExpiryDate)},
		); err != nil {
			return nil, err
		}
		bags[i] = *result.Bag
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit expiry sweep: %+v", err)
		return nil, apperror.Storage("commit expiry sweep", err)
	}

	for _, result := range results {
		u.metrics.ObserveTransition(result.From, entity.BagStatusExpired)
		u.metrics.ObserveStock(result.Stock)
	}

	if len(results) > 0 {
		u.log.Infof("Expired %d overdue blood bags", len(results))
	}
	return &dto.ExpireBagsResponse{
		Expired: converter.BagsToResponses(bags),
		Total:   len(bags),
	}, nil
}
