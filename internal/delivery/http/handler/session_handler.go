package handler

import (
	"net/http"

	"bloodbank-inventory/internal/usecase"
	"bloodbank-inventory/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type SessionHandler struct {
	sessionUsecase usecase.SessionUsecase
}

func NewSessionHandler(sessionUsecase usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{
		sessionUsecase: sessionUsecase,
	}
}

// RevokeSessions signs an operator out everywhere
func (h *SessionHandler) RevokeSessions(w http.ResponseWriter, r *http.Request) {
	operatorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid operator ID")
		return
	}

	removed, err := h.sessionUsecase.RevokeSessions(r.Context(), operatorID)
	if err != nil {
		writeError(w, err, "Failed to revoke sessions")
		return
	}

	response.Success(w, http.StatusOK, "Sessions revoked successfully", map[string]int64{"revoked": removed})
}
