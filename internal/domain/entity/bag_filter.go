package entity

import (
	"time"

	"github.com/google/uuid"
)

// BagFilter is a domain-level filter for listing bags.
// Zero values mean "any".
type BagFilter struct {
	BloodGroup       BloodGroup
	Status           BagStatus
	ExpiresOnOrAfter *time.Time // excludes bags whose shelf life ended before this day
}

// RequestFilter is a domain-level filter for listing requests
type RequestFilter struct {
	BloodGroup BloodGroup
	Status     RequestStatus
}

// AuditLogFilter narrows the trail to one subject, action or operator
type AuditLogFilter struct {
	EntityName string
	EntityID   string
	Action     string
	OperatorID *uuid.UUID
}
