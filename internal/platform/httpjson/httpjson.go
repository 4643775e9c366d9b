// Package httpjson concentra la escritura de respuestas JSON y el mapeo de
// errores de aplicación a status HTTP.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"pet-records/internal/platform/apperror"
	"pet-records/internal/platform/logger"
)

type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError traduce el error a status + cuerpo. Los errores sin clase
// conocida se loguean y se devuelven como 500 opaco.
func WriteError(w http.ResponseWriter, log logger.Logger, err error) {
	var ae *apperror.Error
	if !errors.As(err, &ae) {
		if log != nil {
			log.Error("unhandled error", map[string]any{"err": err})
		}
		Write(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "internal error",
		})
		return
	}

	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(ae.Kind, apperror.ErrValidation):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(ae.Kind, apperror.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(ae.Kind, apperror.ErrUnauthenticated):
		status, code = http.StatusUnauthorized, "authentication_required"
	case errors.Is(ae.Kind, apperror.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	}

	Write(w, status, ErrorResponse{
		Error:   code,
		Message: ae.Message,
		Fields:  ae.Fields,
	})
}
