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

type IssuanceHandler struct {
	fulfillmentUsecase usecase.FulfillmentUsecase
	validator          *validator.CustomValidator
}

func NewIssuanceHandler(fulfillmentUsecase usecase.FulfillmentUsecase, validator *validator.CustomValidator) *IssuanceHandler {
	return &IssuanceHandler{
		fulfillmentUsecase: fulfillmentUsecase,
		validator:          validator,
	}
}

// IssueBag handles issuing a blood bag to a patient
// @Summary Issue a blood bag
// @Description Marks an available bag used, records the issuance and fulfills the linked request in one transaction
// @Tags Issuances
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.IssueBagRequest true "Issue Bag Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/issuances [post]
func (h *IssuanceHandler) IssueBag(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueBagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	issuance, err := h.fulfillmentUsecase.IssueBag(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to issue blood bag")
		return
	}

	response.Success(w, http.StatusCreated, "Blood bag issued successfully", issuance)
}

// RecordCollection handles a donation from a registered donor
// @Summary Record a donor collection
// @Description Adds a blood bag and updates the donor's donation history in one transaction
// @Tags Collections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RecordCollectionRequest true "Record Collection Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/collections [post]
func (h *IssuanceHandler) RecordCollection(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	collection, err := h.fulfillmentUsecase.RecordCollection(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to record collection")
		return
	}

	response.Success(w, http.StatusCreated, "Collection recorded successfully", collection)
}

func (h *IssuanceHandler) GetIssuance(w http.ResponseWriter, r *http.Request) {
	issuanceID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid issuance ID")
		return
	}

	issuance, err := h.fulfillmentUsecase.GetIssuance(r.Context(), issuanceID)
	if err != nil {
		writeError(w, err, "Failed to get issuance")
		return
	}

	response.Success(w, http.StatusOK, "Issuance retrieved successfully", issuance)
}

func (h *IssuanceHandler) ListIssuances(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	issuances, total, err := h.fulfillmentUsecase.ListIssuances(r.Context(), page, limit)
	if err != nil {
		writeError(w, err, "Failed to get issuances")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Issuances retrieved successfully", issuances, response.NewMeta(page, limit, total))
}
