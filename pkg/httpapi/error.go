package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harborcredit/loanscreen/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// StatusForCode maps the workflow error taxonomy to HTTP statuses. Unknown
// codes fall through to 500 so nothing is silently reported as a client error.
func StatusForCode(code string) int {
	switch code {
	case "LOAN_VALIDATION_FAILED":
		return http.StatusBadRequest
	case "LOAN_FORBIDDEN":
		return http.StatusForbidden
	case "LOAN_NOT_FOUND", "OFFICER_NOT_FOUND":
		return http.StatusNotFound
	case "LOAN_INVALID_TRANSITION", "LOAN_VERSION_CONFLICT", "LOAN_NO_CAPACITY":
		return http.StatusConflict
	case "LOAN_EXTERNAL_FAILURE":
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteDomainError renders a coded domain error, or a generic 500 envelope
// when the error carries no code.
func WriteDomainError(w http.ResponseWriter, err error) error {
	var base *serrors.Base
	if errors.As(err, &base) {
		message := base.Message
		if base.Details != "" {
			message = base.Details
		}
		return WriteError(w, StatusForCode(base.Code), base.Code, message, nil)
	}
	return WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}
