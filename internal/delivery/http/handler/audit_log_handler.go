package handler

import (
	"net/http"
	"strconv"

	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/usecase"
	"bloodbank-inventory/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	auditLogID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid audit log ID")
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		writeError(w, err, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// GetAllAuditLogs accepts entity, entity_id, action and operator_id filters
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	query := r.URL.Query()
	filter := &entity.AuditLogFilter{
		EntityName: query.Get("entity"),
		EntityID:   query.Get("entity_id"),
		Action:     query.Get("action"),
	}
	if raw := query.Get("operator_id"); raw != "" {
		operatorID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid operator ID")
			return
		}
		filter.OperatorID = &operatorID
	}

	auditLogs, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, err, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs.Logs, response.NewMeta(page, limit, auditLogs.Total))
}
