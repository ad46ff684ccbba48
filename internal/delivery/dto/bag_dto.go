package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateFormat is the wire format of calendar dates
const DateFormat = "2006-01-02"

// Request DTOs

type AddBagRequest struct {
	DonorID        *uuid.UUID       `json:"donor_id"`
	BloodGroup     string           `json:"blood_group" validate:"omitempty,bloodgroup"`
	CollectionDate string           `json:"collection_date" validate:"required"`
	VolumeML       int              `json:"volume_ml" validate:"omitempty,gte=100,lte=600"`
	Hemoglobin     *decimal.Decimal `json:"hemoglobin"`
	Notes          string           `json:"notes" validate:"max=1000"`
}

type UpdateBagStatusRequest struct {
	Status string `json:"status" validate:"required,bagstatus"`
}

type BagFilterRequest struct {
	BloodGroup string
	Status     string
}

// Response DTOs

type BagResponse struct {
	ID             uuid.UUID        `json:"id"`
	BagCode        string           `json:"bag_code"`
	BloodGroup     string           `json:"blood_group"`
	DonorID        *uuid.UUID       `json:"donor_id,omitempty"`
	CollectionDate string           `json:"collection_date"`
	ExpiryDate     string           `json:"expiry_date"`
	Status         string           `json:"status"`
	VolumeML       int              `json:"volume_ml"`
	Hemoglobin     *decimal.Decimal `json:"hemoglobin,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type BagListResponse struct {
	Bags  []BagResponse `json:"bags"`
	Total int           `json:"total"`
}

type ExpireBagsResponse struct {
	Expired []BagResponse `json:"expired"`
	Total   int           `json:"total"`
}
