package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBloodRequestRequest struct {
	PatientName   string `json:"patient_name" validate:"required,max=255"`
	BloodGroup    string `json:"blood_group" validate:"required,bloodgroup"`
	City          string `json:"city" validate:"max=100"`
	Hospital      string `json:"hospital" validate:"required,max=255"`
	UnitsRequired int    `json:"units_required" validate:"omitempty,gte=1,lte=20"`
	Urgency       string `json:"urgency" validate:"omitempty,urgency"`
	ContactName   string `json:"contact_name" validate:"max=255"`
	ContactPhone  string `json:"contact_phone" validate:"max=20"`
}

type OverrideRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=fulfilled closed"`
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

// Response DTOs

type RequestResponse struct {
	ID            uuid.UUID  `json:"id"`
	PatientName   string     `json:"patient_name"`
	BloodGroup    string     `json:"blood_group"`
	City          string     `json:"city,omitempty"`
	Hospital      string     `json:"hospital"`
	UnitsRequired int        `json:"units_required"`
	Urgency       string     `json:"urgency"`
	ContactName   string     `json:"contact_name,omitempty"`
	ContactPhone  string     `json:"contact_phone,omitempty"`
	Status        string     `json:"status"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
	Total    int               `json:"total"`
}
