package converter

import (
	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/domain/entity"
)

// IssuanceToResponse converts a BloodIssuance entity to IssuanceResponse DTO
func IssuanceToResponse(issuance *entity.BloodIssuance) *dto.IssuanceResponse {
	if issuance == nil {
		return nil
	}

	return &dto.IssuanceResponse{
		ID:              issuance.ID,
		BagID:           issuance.BagID,
		RequestID:       issuance.RequestID,
		PatientName:     issuance.PatientName,
		PatientAge:      issuance.PatientAge,
		PatientGender:   issuance.PatientGender,
		Hospital:        issuance.Hospital,
		Ward:            issuance.Ward,
		ReferringDoctor: issuance.ReferringDoctor,
		IssueDate:       FormatDate(issuance.IssueDate),
		IssuedBy:        issuance.IssuedBy,
		Bag:             BagToResponse(issuance.Bag),
		Request:         RequestToResponse(issuance.Request),
		CreatedAt:       issuance.CreatedAt,
	}
}

func IssuancesToResponses(issuances []entity.BloodIssuance) []dto.IssuanceResponse {
	responses := make([]dto.IssuanceResponse, len(issuances))
	for i := range issuances {
		responses[i] = *IssuanceToResponse(&issuances[i])
	}
	return responses
}

// PatientRequestToDetails converts the patient block of an issue request
func PatientRequestToDetails(req *dto.PatientRequest) entity.PatientDetails {
	return entity.PatientDetails{
		Name:            req.Name,
		Age:             req.Age,
		Gender:          req.Gender,
		Hospital:        req.Hospital,
		Ward:            req.Ward,
		ReferringDoctor: req.ReferringDoctor,
	}
}
