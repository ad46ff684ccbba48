package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only trail of inventory mutations and
// administrative overrides
type AuditLog struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	OperatorID *uuid.UUID `gorm:"type:uuid;index" json:"operator_id,omitempty"`
	Action     string     `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityName string     `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity" json:"entity_name"`
	EntityID   string     `gorm:"type:varchar(64);not null;index:idx_audit_logs_entity" json:"entity_id"`
	Metadata   JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Audit actions
const (
	AuditActionBagCollect      = "bag.collect"
	AuditActionBagStatus       = "bag.status"
	AuditActionBagExpire       = "bag.expire"
	AuditActionBagIssue        = "bag.issue"
	AuditActionRequestCreate   = "request.create"
	AuditActionRequestClose    = "request.close"
	AuditActionRequestFulfill  = "request.fulfill"
	AuditActionRequestOverride = "request.override"
	AuditActionDonorCreate     = "donor.create"
	AuditActionStockReconcile  = "stock.reconcile"
)

// Audited entity names
const (
	AuditEntityBag      = "blood_bag"
	AuditEntityRequest  = "blood_request"
	AuditEntityDonor    = "donor_profile"
	AuditEntityIssuance = "blood_issuance"
	AuditEntityStock    = "stock_summary"
)

// IsAuditEntity reports whether name is one of the audited entity kinds
func IsAuditEntity(name string) bool {
	switch name {
	case AuditEntityBag, AuditEntityRequest, AuditEntityDonor, AuditEntityIssuance, AuditEntityStock:
		return true
	}
	return false
}
