package usecase

import (
	"context"

	"bloodbank-inventory/internal/converter"
	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/domain/repository"
	"bloodbank-inventory/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAuditLogNotFound   = apperror.NotFound("audit log not found")
	ErrUnknownAuditEntity = apperror.Validation("unknown audited entity")
	ErrAuditEntityIDAlone = apperror.Validation("entity_id requires entity")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, filter *entity.AuditLogFilter, page, limit int) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// GetAllAuditLogs returns a page of the trail, newest first. Filtering by
// entity and entity ID yields the full history of one bag, request or donor.
func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, filter *entity.AuditLogFilter, page, limit int) (*dto.AuditLogListResponse, error) {
	if filter != nil {
		if filter.EntityName != "" && !entity.IsAuditEntity(filter.EntityName) {
			return nil, ErrUnknownAuditEntity
		}
		if filter.EntityID != "" && filter.EntityName == "" {
			return nil, ErrAuditEntityIDAlone
		}
	}
	page, limit = normalizePage(page, limit)

	logs, total, err := u.auditLogRepo.FindAll(ctx, u.db, filter, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, apperror.Storage("list audit logs", err)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log %d: %+v", id, err)
		return nil, apperror.Storage("load audit log", err)
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
