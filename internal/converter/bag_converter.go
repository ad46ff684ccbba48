package converter

import (
	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
)

// BagToResponse converts a BloodBag entity to BagResponse DTO
func BagToResponse(bag *entity.BloodBag) *dto.BagResponse {
	if bag == nil {
		return nil
	}

	return &dto.BagResponse{
		ID:             bag.ID,
		BagCode:        bag.BagCode,
		BloodGroup:     bag.BloodGroup.String(),
		DonorID:        bag.DonorID,
		CollectionDate: FormatDate(bag.CollectionDate),
		ExpiryDate:     FormatDate(bag.ExpiryDate),
		Status:         string(bag.Status),
		VolumeML:       bag.VolumeML,
		Hemoglobin:     bag.Hemoglobin,
		Notes:          bag.Notes,
		CreatedAt:      bag.CreatedAt,
		UpdatedAt:      bag.UpdatedAt,
	}
}

// BagsToResponses converts a slice of BloodBag entities to slice of BagResponse DTOs
func BagsToResponses(bags []entity.BloodBag) []dto.BagResponse {
	responses := make([]dto.BagResponse, len(bags))
	for i := range bags {
		responses[i] = *BagToResponse(&bags[i])
	}
	return responses
}
