package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bloodbank-inventory/pkg/apperror"
	"bloodbank-inventory/pkg/response"
)

// writeError renders an engine error with the status of its kind. Storage
// failures hide their cause behind fallback.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		response.BadRequest(w, apperror.Message(err, fallback))
	case errors.Is(err, apperror.ErrNotFound):
		response.NotFound(w, apperror.Message(err, fallback))
	case errors.Is(err, apperror.ErrInvalidTransition):
		response.Conflict(w, apperror.Message(err, fallback))
	case errors.Is(err, apperror.ErrForbidden):
		response.Forbidden(w, apperror.Message(err, fallback))
	default:
		response.InternalServerError(w, fallback)
	}
}

// pagination reads page and limit query params with defaults
func pagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
