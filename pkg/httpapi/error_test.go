package httpapi_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborcredit/loanscreen/pkg/httpapi"
	"github.com/harborcredit/loanscreen/pkg/serrors"
)

func TestStatusForCode(t *testing.T) {
	cases := map[string]int{
		"LOAN_VALIDATION_FAILED":  http.StatusBadRequest,
		"LOAN_FORBIDDEN":          http.StatusForbidden,
		"LOAN_NOT_FOUND":          http.StatusNotFound,
		"OFFICER_NOT_FOUND":       http.StatusNotFound,
		"LOAN_INVALID_TRANSITION": http.StatusConflict,
		"LOAN_VERSION_CONFLICT":   http.StatusConflict,
		"LOAN_NO_CAPACITY":        http.StatusConflict,
		"LOAN_EXTERNAL_FAILURE":   http.StatusInternalServerError,
		"SOMETHING_ELSE":          http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, httpapi.StatusForCode(code), code)
	}
}

func TestWriteDomainError_CodedError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := serrors.NewError("LOAN_VERSION_CONFLICT", "application was modified concurrently", "").
		WithDetails("expected version 2, have 4")

	require.NoError(t, httpapi.WriteDomainError(rec, err))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "LOAN_VERSION_CONFLICT", envelope.Code)
	assert.Equal(t, "expected version 2, have 4", envelope.Message)
}

func TestWriteDomainError_UncodedError(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, httpapi.WriteDomainError(rec, errors.New("pq: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "INTERNAL", envelope.Code)
	assert.NotContains(t, envelope.Message, "connection refused", "internal details must not leak")
}
