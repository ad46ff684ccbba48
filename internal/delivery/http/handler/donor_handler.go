package handler

import (
	"encoding/json"
	"net/http"

	"bloodbank-inventory/internal/delivery/dto"
	"bloodbank-inventory/internal/usecase"
	"bloodbank-inventory/pkg/response"
	"bloodbank-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DonorHandler struct {
	donorUsecase usecase.DonorUsecase
	validator    *validator.CustomValidator
}

func NewDonorHandler(donorUsecase usecase.DonorUsecase, validator *validator.CustomValidator) *DonorHandler {
	return &DonorHandler{
		donorUsecase: donorUsecase,
		validator:    validator,
	}
}

func (h *DonorHandler) CreateDonor(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDonorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	donor, err := h.donorUsecase.CreateDonor(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create donor")
		return
	}

	response.Success(w, http.StatusCreated, "Donor created successfully", donor)
}

func (h *DonorHandler) GetDonor(w http.ResponseWriter, r *http.Request) {
	donorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid donor ID")
		return
	}

	donor, err := h.donorUsecase.GetDonor(r.Context(), donorID)
	if err != nil {
		writeError(w, err, "Failed to get donor")
		return
	}

	response.Success(w, http.StatusOK, "Donor retrieved successfully", donor)
}

func (h *DonorHandler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	donorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid donor ID")
		return
	}

	eligibility, err := h.donorUsecase.GetEligibility(r.Context(), donorID)
	if err != nil {
		writeError(w, err, "Failed to get donor eligibility")
		return
	}

	response.Success(w, http.StatusOK, "Donor eligibility retrieved successfully", eligibility)
}
