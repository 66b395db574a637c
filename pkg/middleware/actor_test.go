package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/pkg/composables"
	"github.com/harborcredit/loanscreen/pkg/middleware"
)

func TestProvideActor_AttachesCapabilityTaggedActor(t *testing.T) {
	var got officer.Actor
	handler := middleware.ProvideActor()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := composables.UseActor(r.Context())
		require.NoError(t, err)
		got = actor
		w.WriteHeader(http.StatusOK)
	}))

	actorID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/loans/api/applications", nil)
	req.Header.Set("X-Actor-ID", actorID.String())
	req.Header.Set("X-Actor-Role", string(officer.RoleLoanOfficer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, actorID, got.ID)
	assert.Equal(t, officer.RoleLoanOfficer, got.Role)
	assert.True(t, got.Can(officer.CanVerifyDocuments))
}

func TestProvideActor_RejectsMissingOrInvalidIdentity(t *testing.T) {
	handler := middleware.ProvideActor()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without an actor")
	}))

	cases := map[string]func(r *http.Request){
		"no headers":  func(r *http.Request) {},
		"bad id":      func(r *http.Request) { r.Header.Set("X-Actor-ID", "nope"); r.Header.Set("X-Actor-Role", "LOAN_OFFICER") },
		"bad role":    func(r *http.Request) { r.Header.Set("X-Actor-ID", uuid.NewString()); r.Header.Set("X-Actor-Role", "WIZARD") },
		"role only":   func(r *http.Request) { r.Header.Set("X-Actor-Role", "LOAN_OFFICER") },
		"id only":     func(r *http.Request) { r.Header.Set("X-Actor-ID", uuid.NewString()) },
		"empty value": func(r *http.Request) { r.Header.Set("X-Actor-ID", " "); r.Header.Set("X-Actor-Role", "LOAN_OFFICER") },
	}
	for name, setup := range cases {
		req := httptest.NewRequest(http.MethodPost, "/loans/api/applications", nil)
		setup(req)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, name)
	}
}
