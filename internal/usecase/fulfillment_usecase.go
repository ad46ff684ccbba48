package usecase

import (
	"context"
	"errors"
	"strings"

	"bloodbank-inventory/internal/converter"
	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/delivery/http/middleware"
	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/domain/repository"
	"bloodbank-inventory/internal/infrastructure/metrics"
	"bloodbank-inventory/internal/service"
	"bloodbank-inventory/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrOperatorRequired      = apperror.Validation("operator identity is required to issue blood")
	ErrPatientNameRequired   = apperror.Validation("patient name is required")
	ErrHospitalRequired      = apperror.Validation("hospital is required")
	ErrInvalidPatientAge     = apperror.Validation("patient age must be between 0 and 130")
	ErrInvalidPatientGender  = apperror.Validation("patient gender must be M or F")
	ErrFutureIssueDate       = apperror.Validation("issue date cannot be in the future")
	ErrIssueBeforeCollection = apperror.Validation("issue date is before the bag's collection date")
	ErrBloodGroupMismatch    = apperror.Validation("blood group of the request does not match the bag")
	ErrBagQuarantined        = apperror.InvalidTransition("blood bag is quarantined, release it before issuing")
	ErrIssuanceNotFound      = apperror.NotFound("blood issuance not found")
	ErrDonorNotFound         = apperror.NotFound("donor profile not found")
)

type FulfillmentUsecase interface {
	IssueBag(ctx context.Context, req *dto.IssueBagRequest) (*dto.IssuanceResponse, error)
	RecordCollection(ctx context.Context, req *dto.RecordCollectionRequest) (*dto.CollectionResponse, error)
	GetIssuance(ctx context.Context, id uuid.UUID) (*dto.IssuanceResponse, error)
	ListIssuances(ctx context.Context, page, limit int) ([]dto.IssuanceResponse, int64, error)
}

type fulfillmentUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	ledger       service.BagLedger
	issuanceRepo repository.BloodIssuanceRepository
	requestRepo  repository.BloodRequestRepository
	auditService service.AuditService
	metrics      *metrics.Metrics
	collector    *collectionRecorder
}

func NewFulfillmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ledger service.BagLedger,
	issuanceRepo repository.BloodIssuanceRepository,
	requestRepo repository.BloodRequestRepository,
	donorRepo repository.DonorProfileRepository,
	auditService service.AuditService,
	metrics *metrics.Metrics,
) FulfillmentUsecase {
	return &fulfillmentUsecase{
		db:           db,
		log:          log,
		ledger:       ledger,
		issuanceRepo: issuanceRepo,
		requestRepo:  requestRepo,
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

// IssueBag gives one available bag to a patient.
//
// Flow, all inside one transaction:
// 1. Lock the bag row and re-check it is available and usable at issueDate
// 2. Lock the request (if any); it must be pending and of the bag's group
// 3. Move the bag to used (conditional update) and recount its group
// 4. Insert the issuance receipt (unique per bag)
// 5. Move the request to fulfilled
// 6. Write the audit trail
func (u *fulfillmentUsecase) IssueBag(ctx context.Context, req *dto.IssueBagRequest) (*dto.IssuanceResponse, error) {
	resp, err := u.issueBag(ctx, req)
	u.metrics.ObserveIssuance(err)
	return resp, err
}

func (u *fulfillmentUsecase) issueBag(ctx context.Context, req *dto.IssueBagRequest) (*dto.IssuanceResponse, error) {
	operatorID, ok := middleware.GetOperatorIDFromContext(ctx)
	if !ok || operatorID == uuid.Nil {
		return nil, ErrOperatorRequired
	}

	patient := converter.PatientRequestToDetails(&req.Patient)
	if err := validatePatient(&patient); err != nil {
		return nil, err
	}

	issueDate, err := converter.ParseDate("issue_date", req.IssueDate)
	if err != nil {
		return nil, err
	}
	if issueDate.After(entity.Today()) {
		return nil, ErrFutureIssueDate
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperror.Storage("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	bag, err := u.ledger.Lock(ctx, tx, req.BagID)
	if err != nil {
		return nil, err
	}
	switch bag.Status {
	case entity.BagStatusAvailable:
	case entity.BagStatusQuarantined:
		return nil, ErrBagQuarantined
	default:
		return nil, service.CheckTransition(bag.Status, entity.BagStatusUsed)
	}
	if issueDate.Before(entity.DateOnly(bag.CollectionDate)) {
		return nil, ErrIssueBeforeCollection
	}
	if bag.IsExpiredOn(issueDate) {
		return nil, service.ErrBagExpired
	}

	var request *entity.BloodRequest
	if req.RequestID != nil {
		request, err = u.requestRepo.FindByIDForUpdate(ctx, tx, *req.RequestID)
		if err != nil {
			u.log.Warnf("Failed to lock blood request %s: %+v", *req.RequestID, err)
			return nil, apperror.Storage("load blood request", err)
		}
		if request == nil {
			return nil, ErrRequestNotFound
		}
		if !request.IsPending() {
			return nil, ErrRequestNotPending
		}
		if request.BloodGroup != bag.BloodGroup {
			return nil, ErrBloodGroupMismatch
		}
	}

	transition, err := u.ledger.Transition(ctx, tx, bag.ID, entity.BagStatusUsed)
	if err != nil {
		return nil, err
	}

	issuance := &entity.BloodIssuance{
		BagID:           bag.ID,
		RequestID:       req.RequestID,
		PatientName:     patient.Name,
		PatientAge:      patient.Age,
		PatientGender:   patient.Gender,
		Hospital:        patient.Hospital,
		Ward:            patient.Ward,
		ReferringDoctor: patient.ReferringDoctor,
		IssueDate:       issueDate,
		IssuedBy:        operatorID,
	}
	if err := u.issuanceRepo.Create(ctx, tx, issuance); err != nil {
		if isDuplicateKeyError(err) {
			return nil, service.ErrBagAlreadyIssued
		}
		u.log.Warnf("Failed to create issuance for bag %s: %+v", bag.ID, err)
		return nil, apperror.Storage("create blood issuance", err)
	}

	if request != nil {
		affected, err := u.requestRepo.UpdateStatus(ctx, tx, request.ID, entity.RequestStatusPending, entity.RequestStatusFulfilled)
		if err != nil {
			u.log.Warnf("Failed to fulfill blood request %s: %+v", request.ID, err)
			return nil, apperror.Storage("fulfill blood request", err)
		}
		if affected == 0 {
			return nil, ErrRequestStatusChanged
		}
		request.Status = entity.RequestStatusFulfilled

		if err := u.auditService.LogUpdate(ctx, tx, &operatorID, entity.AuditActionRequestFulfill, entity.AuditEntityRequest, request.ID.String(),
			map[string]interface{}{"status": entity.RequestStatusPending},
			map[string]interface{}{"status": entity.RequestStatusFulfilled, "issuance_id": issuance.ID},
		); err != nil {
			return nil, err
		}
	}

	issuance.Bag = transition.Bag
	issuance.Request = request
	if err := u.auditService.LogCreate(ctx, tx, &operatorID, entity.AuditActionBagIssue, entity.AuditEntityIssuance, issuance.ID.String(), converter.IssuanceToResponse(issuance)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit issuance of bag %s: %+v", bag.ID, err)
		return nil, apperror.Storage("commit issuance", err)
	}

	u.metrics.ObserveTransition(transition.From, entity.BagStatusUsed)
	u.metrics.ObserveStock(transition.Stock)

	u.log.Infof("Blood bag issued: bag=%s, code=%s, group=%s, issuance=%s, operator=%s", bag.ID, bag.BagCode, bag.BloodGroup, issuance.ID, operatorID)
	return converter.IssuanceToResponse(issuance), nil
}

// RecordCollection adds a bag collected from a registered donor and updates
// the donor's history atomically
func (u *fulfillmentUsecase) RecordCollection(ctx context.Context, req *dto.RecordCollectionRequest) (*dto.CollectionResponse, error) {
	resp, err := u.recordCollection(ctx, req)
	u.metrics.ObserveCollection(err)
	return resp, err
}

func (u *fulfillmentUsecase) recordCollection(ctx context.Context, req *dto.RecordCollectionRequest) (*dto.CollectionResponse, error) {
	collectionDate, err := converter.ParseDate("collection_date", req.CollectionDate)
	if err != nil {
		return nil, err
	}

	donorID := req.DonorID
	in := &collection{
		DonorID:        &donorID,
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

	result, err := u.collector.record(ctx, tx, operatorFromContext(ctx), in, ErrDonorNotFound)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit collection for donor %s: %+v", donorID, err)
		return nil, apperror.Storage("commit collection", err)
	}

	u.metrics.ObserveStock(result.Stock)

	u.log.Infof("Collection recorded: bag=%s, group=%s, donor=%s, total_donations=%d", result.Bag.ID, result.Bag.BloodGroup, donorID, result.Donor.TotalDonations)
	return &dto.CollectionResponse{
		Bag:   *converter.BagToResponse(result.Bag),
		Donor: *converter.DonorToResponse(result.Donor),
	}, nil
}

func (u *fulfillmentUsecase) GetIssuance(ctx context.Context, id uuid.UUID) (*dto.IssuanceResponse, error) {
	issuance, err := u.issuanceRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find issuance %s: %+v", id, err)
		return nil, apperror.Storage("load blood issuance", err)
	}
	if issuance == nil {
		return nil, ErrIssuanceNotFound
	}
	return converter.IssuanceToResponse(issuance), nil
}

func (u *fulfillmentUsecase) ListIssuances(ctx context.Context, page, limit int) ([]dto.IssuanceResponse, int64, error) {
	page, limit = normalizePage(page, limit)

	issuances, total, err := u.issuanceRepo.FindAll(ctx, u.db, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to list issuances: %+v", err)
		return nil, 0, apperror.Storage("list blood issuances", err)
	}
	return converter.IssuancesToResponses(issuances), total, nil
}

func validatePatient(patient *entity.PatientDetails) error {
	patient.Name = strings.TrimSpace(patient.Name)
	patient.Hospital = strings.TrimSpace(patient.Hospital)
	patient.Ward = strings.TrimSpace(patient.Ward)
	patient.ReferringDoctor = strings.TrimSpace(patient.ReferringDoctor)

	if patient.Name == "" {
		return ErrPatientNameRequired
	}
	if patient.Hospital == "" {
		return ErrHospitalRequired
	}
	if patient.Age < 0 || patient.Age > 130 {
		return ErrInvalidPatientAge
	}
	if patient.Gender != "" && patient.Gender != entity.GenderMale && patient.Gender != entity.GenderFemale {
		return ErrInvalidPatientGender
	}
	return nil
}

// isDuplicateKeyError checks if the error is a unique constraint violation
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// normalizePage applies listing defaults
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
