package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type PatientRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	Age             int    `json:"age" validate:"gte=0,lte=130"`
	Gender          string `json:"gender" validate:"omitempty,oneof=M F"`
	Hospital        string `json:"hospital" validate:"required,max=255"`
	Ward            string `json:"ward" validate:"max=100"`
	ReferringDoctor string `json:"referring_doctor" validate:"max=255"`
}

type IssueBagRequest struct {
	BagID     uuid.UUID      `json:"bag_id" validate:"required"`
	RequestID *uuid.UUID     `json:"request_id"`
	IssueDate string         `json:"issue_date" validate:"required"`
	Patient   PatientRequest `json:"patient"`
}

// Response DTOs

type IssuanceResponse struct {
	ID              uuid.UUID        `json:"id"`
	BagID           uuid.UUID        `json:"bag_id"`
	RequestID       *uuid.UUID       `json:"request_id,omitempty"`
	PatientName     string           `json:"patient_name"`
	PatientAge      int              `json:"patient_age"`
	PatientGender   string           `json:"patient_gender,omitempty"`
	Hospital        string           `json:"hospital"`
	Ward            string           `json:"ward,omitempty"`
	ReferringDoctor string           `json:"referring_doctor,omitempty"`
	IssueDate       string           `json:"issue_date"`
	IssuedBy        uuid.UUID        `json:"issued_by"`
	Bag             *BagResponse     `json:"bag,omitempty"`
	Request         *RequestResponse `json:"request,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

type IssuanceListResponse struct {
	Issuances []IssuanceResponse `json:"issuances"`
	Total     int64              `json:"total"`
}
