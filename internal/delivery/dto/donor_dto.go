package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDonorRequest struct {
	FullName         string `json:"full_name" validate:"required,min=2,max=255"`
	BloodGroup       string `json:"blood_group" validate:"omitempty,bloodgroup"`
	PhoneNumber      string `json:"phone_number" validate:"max=20"`
	City             string `json:"city" validate:"max=100"`
	LastDonationDate string `json:"last_donation_date"`
}

// Response DTOs

type DonorResponse struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"full_name"`
	BloodGroup       string    `json:"blood_group,omitempty"`
	PhoneNumber      string    `json:"phone_number,omitempty"`
	City             string    `json:"city,omitempty"`
	LastDonationDate *string   `json:"last_donation_date,omitempty"`
	TotalDonations   int       `json:"total_donations"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type EligibilityResponse struct {
	DonorID          uuid.UUID `json:"donor_id"`
	LastDonationDate *string   `json:"last_donation_date,omitempty"`
	NextEligibleDate string    `json:"next_eligible_date"`
	IsEligible       bool      `json:"is_eligible"`
}
