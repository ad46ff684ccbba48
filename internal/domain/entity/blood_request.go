package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus represents the status of a patient request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusFulfilled RequestStatus = "fulfilled"
	RequestStatusClosed    RequestStatus = "closed"
)

// IsValid checks if the status is a known request status
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusFulfilled, RequestStatusClosed:
		return true
	}
	return false
}

// Urgency ranks how soon a request must be served
type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// IsValid checks if the urgency is a known level
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyEmergency:
		return true
	}
	return false
}

// Rank orders urgencies with the most critical first
func (u Urgency) Rank() int {
	switch u {
	case UrgencyEmergency:
		return 0
	case UrgencyUrgent:
		return 1
	default:
		return 2
	}
}

// BloodRequest is a patient's open need for blood
type BloodRequest struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	PatientName   string        `gorm:"type:varchar(255);not null" json:"patient_name"`
	BloodGroup    BloodGroup    `gorm:"type:varchar(3);not null;index:idx_blood_requests_group_status" json:"blood_group"`
	City          string        `gorm:"type:varchar(100)" json:"city,omitempty"`
	Hospital      string        `gorm:"type:varchar(255);not null" json:"hospital"`
	UnitsRequired int           `gorm:"not null;default:1" json:"units_required"`
	Urgency       Urgency       `gorm:"type:varchar(20);not null;default:'normal'" json:"urgency"`
	ContactName   string        `gorm:"type:varchar(255)" json:"contact_name,omitempty"`
	ContactPhone  string        `gorm:"type:varchar(20)" json:"contact_phone,omitempty"`
	Status        RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_blood_requests_group_status" json:"status"`
	CreatedBy     *uuid.UUID    `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BloodRequest) TableName() string {
	return "blood_requests"
}

func (r *BloodRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsPending checks if request is still open
func (r *BloodRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}
