package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "eaglebank/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", dErrors.New(dErrors.CodeValidation, "bad input"), http.StatusBadRequest, "validation"},
		{"bad request", dErrors.New(dErrors.CodeBadRequest, "unreadable"), http.StatusBadRequest, "bad_request"},
		{"unauthorized", dErrors.New(dErrors.CodeUnauthorized, "invalid token"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", dErrors.New(dErrors.CodeForbidden, "not yours"), http.StatusForbidden, "forbidden"},
		{"not found", dErrors.New(dErrors.CodeNotFound, "missing"), http.StatusNotFound, "not_found"},
		{"conflict", dErrors.New(dErrors.CodeConflict, "stale write"), http.StatusConflict, "conflict"},
		{"invalid state", dErrors.New(dErrors.CodeInvalidState, "account suspended"), http.StatusUnprocessableEntity, "invalid_state"},
		{"insufficient funds", dErrors.New(dErrors.CodeInsufficientFunds, "short"), http.StatusUnprocessableEntity, "insufficient_funds"},
		{"timeout", dErrors.New(dErrors.CodeTimeout, "too slow"), http.StatusGatewayTimeout, "timeout"},
		{"internal", dErrors.New(dErrors.CodeInternal, "db exploded"), http.StatusInternalServerError, "internal"},
		{"plain error", errors.New("db exploded"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error)
		})
	}
}

func TestWriteErrorMasksInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("password for admin is hunter2"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Message)
	assert.NotContains(t, rr.Body.String(), "hunter2")
}
