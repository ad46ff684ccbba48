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

type BagHandler struct {
	bagUsecase     usecase.BagUsecase
	requestUsecase usecase.RequestUsecase
	validator      *validator.CustomValidator
}

func NewBagHandler(bagUsecase usecase.BagUsecase, requestUsecase usecase.RequestUsecase, validator *validator.CustomValidator) *BagHandler {
	return &BagHandler{
		bagUsecase:     bagUsecase,
		requestUsecase: requestUsecase,
		validator:      validator,
	}
}

func (h *BagHandler) AddBag(w http.ResponseWriter, r *http.Request) {
	var req dto.AddBagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	bag, err := h.bagUsecase.AddBag(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to add blood bag")
		return
	}

	response.Success(w, http.StatusCreated, "Blood bag added successfully", bag)
}

func (h *BagHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	bagID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid blood bag ID")
		return
	}

	var req dto.UpdateBagStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	bag, err := h.bagUsecase.SetStatus(r.Context(), bagID, &req)
	if err != nil {
		writeError(w, err, "Failed to update blood bag status")
		return
	}

	response.Success(w, http.StatusOK, "Blood bag status updated successfully", bag)
}

func (h *BagHandler) GetBag(w http.ResponseWriter, r *http.Request) {
	bagID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid blood bag ID")
		return
	}

	bag, err := h.bagUsecase.GetBag(r.Context(), bagID)
	if err != nil {
		writeError(w, err, "Failed to get blood bag")
		return
	}

	response.Success(w, http.StatusOK, "Blood bag retrieved successfully", bag)
}

// ListBags handles GET /admin/bags?blood_group=&status=
func (h *BagHandler) ListBags(w http.ResponseWriter, r *http.Request) {
	filter := &dto.BagFilterRequest{
		BloodGroup: r.URL.Query().Get("blood_group"),
		Status:     r.URL.Query().Get("status"),
	}

	bags, err := h.bagUsecase.ListBags(r.Context(), filter)
	if err != nil {
		writeError(w, err, "Failed to get blood bags")
		return
	}

	response.Success(w, http.StatusOK, "Blood bags retrieved successfully", bags)
}

func (h *BagHandler) FindCompatibleBags(w http.ResponseWriter, r *http.Request) {
	bags, err := h.requestUsecase.FindCompatibleBags(r.Context(), r.URL.Query().Get("blood_group"))
	if err != nil {
		writeError(w, err, "Failed to get compatible blood bags")
		return
	}

	response.Success(w, http.StatusOK, "Compatible blood bags retrieved successfully", bags)
}

func (h *BagHandler) ExpireOverdue(w http.ResponseWriter, r *http.Request) {
	expired, err := h.bagUsecase.ExpireOverdue(r.Context())
	if err != nil {
		writeError(w, err, "Failed to expire overdue blood bags")
		return
	}

	response.Success(w, http.StatusOK, "Overdue blood bags expired successfully", expired)
}
