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

type RequestHandler struct {
	requestUsecase usecase.RequestUsecase
	validator      *validator.CustomValidator
}

func NewRequestHandler(requestUsecase usecase.RequestUsecase, validator *validator.CustomValidator) *RequestHandler {
	return &RequestHandler{
		requestUsecase: requestUsecase,
		validator:      validator,
	}
}

func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBloodRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	request, err := h.requestUsecase.CreateRequest(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create blood request")
		return
	}

	response.Success(w, http.StatusCreated, "Blood request created successfully", request)
}

func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid blood request ID")
		return
	}

	request, err := h.requestUsecase.GetRequest(r.Context(), requestID)
	if err != nil {
		writeError(w, err, "Failed to get blood request")
		return
	}

	response.Success(w, http.StatusOK, "Blood request retrieved successfully", request)
}

// FindOpenRequests handles GET /requests?blood_group=
func (h *RequestHandler) FindOpenRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requestUsecase.FindOpenRequests(r.Context(), r.URL.Query().Get("blood_group"))
	if err != nil {
		writeError(w, err, "Failed to get open blood requests")
		return
	}

	response.Success(w, http.StatusOK, "Open blood requests retrieved successfully", requests)
}

func (h *RequestHandler) CloseRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid blood request ID")
		return
	}

	request, err := h.requestUsecase.CloseRequest(r.Context(), requestID)
	if err != nil {
		writeError(w, err, "Failed to close blood request")
		return
	}

	response.Success(w, http.StatusOK, "Blood request closed successfully", request)
}

func (h *RequestHandler) OverrideStatus(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid blood request ID")
		return
	}

	var req dto.OverrideRequestStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	request, err := h.requestUsecase.OverrideRequestStatus(r.Context(), requestID, &req)
	if err != nil {
		writeError(w, err, "Failed to override blood request status")
		return
	}

	response.Success(w, http.StatusOK, "Blood request status overridden", request)
}
