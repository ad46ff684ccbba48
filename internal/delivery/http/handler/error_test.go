package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bloodbank-inventory/pkg/apperror"
	"bloodbank-inventory/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", apperror.Validation("collection date cannot be in the future"), http.StatusBadRequest, response.CodeBadRequest, "collection date cannot be in the future"},
		{"not found", apperror.NotFound("blood bag not found"), http.StatusNotFound, response.CodeNotFound, "blood bag not found"},
		{"transition", apperror.InvalidTransition("blood bag already issued"), http.StatusConflict, response.CodeInvalidTransition, "blood bag already issued"},
		{"forbidden", apperror.Forbidden("only an administrator can release a quarantined blood bag"), http.StatusForbidden, response.CodeForbidden, "only an administrator can release a quarantined blood bag"},
		{"storage", apperror.Storage("list blood bags", errors.New("dial tcp: refused")), http.StatusInternalServerError, response.CodeInternal, "Failed"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, response.CodeInternal, "Failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "Failed")

			assert.Equal(t, tt.status, rec.Code)
			var body response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestPagination(t *testing.T) {
	page, limit := pagination(httptest.NewRequest(http.MethodGet, "/audit-logs", nil))
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = pagination(httptest.NewRequest(http.MethodGet, "/audit-logs?page=3&limit=1000", nil))
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)

	page, limit = pagination(httptest.NewRequest(http.MethodGet, "/audit-logs?page=abc&limit=-5", nil))
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
}
