package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-records/internal/platform/apperror"
	"pet-records/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperror.Invalid("name", "This field is required."), http.StatusBadRequest, "validation_error"},
		{"not found", apperror.NotFound("pet"), http.StatusNotFound, "not_found"},
		{"unauthenticated", apperror.Unauthenticated("login required"), http.StatusUnauthorized, "authentication_required"},
		{"conflict", apperror.Conflict("username taken"), http.StatusConflict, "conflict"},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, logger.NewNop(), tc.err)

			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Error)
		})
	}
}

func TestWriteError_IncludesFields_HidesInternalMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, nil, apperror.Invalid("weight_kg", "A valid number is required."))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, []string{"A valid number is required."}, body.Fields["weight_kg"])

	rr = httptest.NewRecorder()
	WriteError(rr, nil, errors.New("pq: connection refused"))
	assert.NotContains(t, rr.Body.String(), "connection refused")
}
