package converter

import (
	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
)

// RequestToResponse converts a BloodRequest entity to RequestResponse DTO
func RequestToResponse(request *entity.BloodRequest) *dto.RequestResponse {
	if request == nil {
		return nil
	}

	return &dto.RequestResponse{
		ID:            request.ID,
		PatientName:   request.PatientName,
		BloodGroup:    request.BloodGroup.String(),
		City:          request.City,
		Hospital:      request.Hospital,
		UnitsRequired: request.UnitsRequired,
		Urgency:       string(request.Urgency),
		ContactName:   request.ContactName,
		ContactPhone:  request.ContactPhone,
		Status:        string(request.Status),
		CreatedBy:     request.CreatedBy,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
}

func RequestsToResponses(requests []entity.BloodRequest) []dto.RequestResponse {
	responses := make([]dto.RequestResponse, len(requests))
	for i := range requests {
		responses[i] = *RequestToResponse(&requests[i])
	}
	return responses
}
