package usecase

import (
	"context"
	"strings"

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
	ErrRequestNotFound        = apperror.NotFound("blood request not found")
	ErrRequestNotPending      = apperror.InvalidTransition("blood request is no longer pending")
	ErrRequestStatusChanged   = apperror.InvalidTransition("blood request status was changed by another operation")
	ErrUnknownRequestStatus   = apperror.Validation("unknown blood request status")
	ErrUnknownUrgency         = apperror.Validation("unknown urgency, use normal, urgent or emergency")
	ErrInvalidUnitsRequired   = apperror.Validation("units required must be between 1 and 20")
	ErrOverrideReasonRequired = apperror.Validation("a reason is required to override a request status")
	ErrOverrideToPending      = apperror.Validation("a request cannot be reopened to pending")
)

type RequestUsecase interface {
	CreateRequest(ctx context.Context, req *dto.CreateBloodRequestRequest) (*dto.RequestResponse, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*dto.RequestResponse, error)
	FindOpenRequests(ctx context.Context, bloodGroup string) (*dto.RequestListResponse, error)
	FindCompatibleBags(ctx context.Context, bloodGroup string) (*dto.BagListResponse, error)
	CloseRequest(ctx context.Context, id uuid.UUID) (*dto.RequestResponse, error)
	OverrideRequestStatus(ctx context.Context, id uuid.UUID, req *dto.OverrideRequestStatusRequest) (*dto.RequestResponse, error)
}

type requestUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	requestRepo  repository.BloodRequestRepository
	ledger       service.BagLedger
	auditService service.AuditService
}

func NewRequestUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	requestRepo repository.BloodRequestRepository,
	ledger service.BagLedger,
	auditService service.AuditService,
) RequestUsecase {
	return &requestUsecase{
		db:           db,
		log:          log,
		requestRepo:  requestRepo,
		ledger:       ledger,
		auditService: auditService,
	}
}

func (u *requestUsecase) CreateRequest(ctx context.Context, req *dto.CreateBloodRequestRequest) (*dto.RequestResponse, error) {
	request := &entity.BloodRequest{
		PatientName:   strings.TrimSpace(req.PatientName),
		BloodGroup:    entity.BloodGroup(req.BloodGroup),
		City:          strings.TrimSpace(req.City),
		Hospital:      strings.TrimSpace(req.Hospital),
		UnitsRequired: req.UnitsRequired,
		Urgency:       entity.Urgency(req.Urgency),
		ContactName:   strings.TrimSpace(req.ContactName),
		ContactPhone:  strings.TrimSpace(req.ContactPhone),
		Status:        entity.RequestStatusPending,
		CreatedBy:     operatorFromContext(ctx),
	}
	if request.UnitsRequired == 0 {
		request.UnitsRequired = 1
	}
	if request.Urgency == "" {
		request.Urgency = entity.UrgencyNormal
	}

	switch {
	case request.PatientName == "":
		return nil, ErrPatientNameRequired
	case request.Hospital == "":
		return nil, ErrHospitalRequired
	case !request.BloodGroup.IsValid():
		return nil, service.ErrUnknownGroup
	case !request.Urgency.IsValid():
		return nil, ErrUnknownUrgency
	case request.UnitsRequired < 1 || request.UnitsRequired > 20:
		return nil, ErrInvalidUnitsRequired
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperror.Storage("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	if err := u.requestRepo.Create(ctx, tx, request); err != nil {
		u.log.Warnf("Failed to create blood request: %+v", err)
		return nil, apperror.Storage("create blood request", err)
	}

	if err := u.auditService.LogCreate(ctx, tx, request.CreatedBy, entity.AuditActionRequestCreate, entity.AuditEntityRequest, request.ID.String(), converter.RequestToResponse(request)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit blood request: %+v", err)
		return nil, apperror.Storage("commit blood request", err)
	}

	u.log.Infof("Blood request created: id=%s, group=%s, urgency=%s", request.ID, request.BloodGroup, request.Urgency)
	return converter.RequestToResponse(request), nil
}

func (u *requestUsecase) GetRequest(ctx context.Context, id uuid.UUID) (*dto.RequestResponse, error) {
	request, err := u.requestRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find blood request %s: %+v", id, err)
		return nil, apperror.Storage("load blood request", err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	return converter.RequestToResponse(request), nil
}

// FindOpenRequests lists pending requests, emergency first then oldest first.
// An empty bloodGroup lists every group.
func (u *requestUsecase) FindOpenRequests(ctx context.Context, bloodGroup string) (*dto.RequestListResponse, error) {
	group := entity.BloodGroup(bloodGroup)
	if group != "" && !group.IsValid() {
		return nil, service.ErrUnknownGroup
	}

	requests, err := u.requestRepo.FindOpen(ctx, u.db, group)
	if err != nil {
		u.log.Warnf("Failed to find open blood requests: %+v", err)
		return nil, apperror.Storage("list open blood requests", err)
	}

	return &dto.RequestListResponse{
		Requests: converter.RequestsToResponses(requests),
		Total:    len(requests),
	}, nil
}

// FindCompatibleBags lists available, unexpired bags of the group, soonest
// expiry first
func (u *requestUsecase) FindCompatibleBags(ctx context.Context, bloodGroup string) (*dto.BagListResponse, error) {
	group := entity.BloodGroup(bloodGroup)
	if !group.IsValid() {
		return nil, service.ErrUnknownGroup
	}

	today := entity.Today()
	bags, err := u.ledger.List(ctx, u.db, &entity.BagFilter{
		BloodGroup:       group,
		Status:           entity.BagStatusAvailable,
		ExpiresOnOrAfter: &today,
	})
	if err != nil {
		return nil, err
	}

	return &dto.BagListResponse{
		Bags:  converter.BagsToResponses(bags),
		Total: len(bags),
	}, nil
}

// CloseRequest withdraws a pending request without issuing blood
func (u *requestUsecase) CloseRequest(ctx context.Context, id uuid.UUID) (*dto.RequestResponse, error) {
	operatorID := operatorFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperror.Storage("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	request, err := u.lockRequest(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, ErrRequestNotPending
	}

	if err := u.moveRequest(ctx, tx, request, entity.RequestStatusClosed); err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, operatorID, entity.AuditActionRequestClose, entity.AuditEntityRequest, id.String(),
		map[string]interface{}{"status": entity.RequestStatusPending},
		map[string]interface{}{"status": entity.RequestStatusClosed},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit closing of blood request %s: %+v", id, err)
		return nil, apperror.Storage("commit blood request", err)
	}

	u.log.Infof("Blood request closed: id=%s", id)
	return converter.RequestToResponse(request), nil
}

// OverrideRequestStatus is the administrative escape hatch that sets a
// request's status without going through issuance. A request marked
// fulfilled this way has no linked issuance; the audit entry records the
// reason and is flagged as an override.
func (u *requestUsecase) OverrideRequestStatus(ctx context.Context, id uuid.UUID, req *dto.OverrideRequestStatusRequest) (*dto.RequestResponse, error) {
	target := entity.RequestStatus(req.Status)
	reason := strings.TrimSpace(req.Reason)
	switch {
	case !target.IsValid():
		return nil, ErrUnknownRequestStatus
	case target == entity.RequestStatusPending:
		return nil, ErrOverrideToPending
	case reason == "":
		return nil, ErrOverrideReasonRequired
	}
	operatorID := operatorFromContext(ctx)
	if operatorID == nil {
		return nil, ErrOperatorRequired
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperror.Storage("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	request, err := u.lockRequest(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	from := request.Status
	if from == target {
		return nil, apperror.InvalidTransition("blood request is already " + string(target))
	}

	if err := u.moveRequest(ctx, tx, request, target); err != nil {
		return nil, err
	}

	if err := u.auditService.LogOverride(ctx, tx, operatorID, entity.AuditActionRequestOverride, entity.AuditEntityRequest, id.String(),
		map[string]interface{}{"status": from},
		map[string]interface{}{"status": target},
		reason,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit override of blood request %s: %+v", id, err)
		return nil, apperror.Storage("commit blood request", err)
	}

	u.log.Warnf("Blood request status overridden: id=%s, from=%s, to=%s, operator=%s", id, from, target, *operatorID)
	return converter.RequestToResponse(request), nil
}

func (u *requestUsecase) lockRequest(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*entity.BloodRequest, error) {
	request, err := u.requestRepo.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to lock blood request %s: %+v", id, err)
		return nil, apperror.Storage("load blood request", err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	return request, nil
}

func (u *requestUsecase) moveRequest(ctx context.Context, tx *gorm.DB, request *entity.BloodRequest, to entity.RequestStatus) error {
	affected, err := u.requestRepo.UpdateStatus(ctx, tx, request.ID, request.Status, to)
	if err != nil {
		u.log.Warnf("Failed to update blood request %s status: %+v", request.ID, err)
		return apperror.Storage("update blood request status", err)
	}
	if affected == 0 {
		return ErrRequestStatusChanged
	}
	request.Status = to
	return nil
}
