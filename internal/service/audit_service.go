package service

import (
	"context"

	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/domain/repository"
	"bloodbank-inventory/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService writes audit entries on the caller's transaction so an entry
// exists exactly when the change it describes was committed.
type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, operatorID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, operatorID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogOverride(ctx context.Context, tx *gorm.DB, operatorID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}, reason string) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, operatorID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, tx, operatorID, action, entityName, entityID, entity.JSON{
		"old_value": nil,
		"new_value": newValue,
	})
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, operatorID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, operatorID, action, entityName, entityID, entity.JSON{
		"old_value": oldValue,
		"new_value": newValue,
	})
}

// LogOverride logs an administrative change that bypassed the normal workflow
func (s *auditService) LogOverride(ctx context.Context, tx *gorm.DB, operatorID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}, reason string) error {
	return s.write(ctx, tx, operatorID, action, entityName, entityID, entity.JSON{
		"old_value": oldValue,
		"new_value": newValue,
		"override":  true,
		"reason":    reason,
	})
}

func (s *auditService) write(ctx context.Context, tx *gorm.DB, operatorID *uuid.UUID, action, entityName, entityID string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		OperatorID: operatorID,
		Action:     action,
		EntityName: entityName,
		EntityID:   entityID,
		Metadata:   metadata,
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return apperror.Storage("write audit log", err)
	}

	return nil
}
