package converter

import (
	"time"

	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
)

// DonorToResponse converts a DonorProfile entity to DonorResponse DTO
func DonorToResponse(donor *entity.DonorProfile) *dto.DonorResponse {
	if donor == nil {
		return nil
	}

	response := &dto.DonorResponse{
		ID:               donor.ID,
		FullName:         donor.FullName,
		PhoneNumber:      donor.PhoneNumber,
		City:             donor.City,
		LastDonationDate: formatOptionalDate(donor.LastDonationDate),
		TotalDonations:   donor.TotalDonations,
		CreatedAt:        donor.CreatedAt,
		UpdatedAt:        donor.UpdatedAt,
	}
	if donor.BloodGroup != nil {
		response.BloodGroup = donor.BloodGroup.String()
	}
	return response
}

// DonorToEligibilityResponse reports eligibility as of today
func DonorToEligibilityResponse(donor *entity.DonorProfile, today time.Time) *dto.EligibilityResponse {
	return &dto.EligibilityResponse{
		DonorID:          donor.ID,
		LastDonationDate: formatOptionalDate(donor.LastDonationDate),
		NextEligibleDate: FormatDate(entity.NextEligibleDate(donor.LastDonationDate, today)),
		IsEligible:       entity.IsEligible(donor.LastDonationDate, today),
	}
}
