package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/pkg/composables"
	"github.com/harborcredit/loanscreen/pkg/configuration"
	"github.com/harborcredit/loanscreen/pkg/httpapi"
)

// ProvideActor reads the actor identity set by the upstream auth gateway and
// attaches a capability-tagged Actor to the context. Session validation and
// credential issuance happen outside this service.
func ProvideActor() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conf := configuration.Use()

			rawID := strings.TrimSpace(r.Header.Get(conf.ActorIDHeader))
			rawRole := officer.Role(strings.TrimSpace(r.Header.Get(conf.ActorRoleHeader)))
			if rawID == "" || !rawRole.Valid() {
				_ = httpapi.WriteError(w, http.StatusForbidden, "LOAN_FORBIDDEN", "missing or invalid actor identity", nil)
				return
			}
			actorID, err := uuid.Parse(rawID)
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusForbidden, "LOAN_FORBIDDEN", "invalid actor id", nil)
				return
			}

			ctx := composables.WithActor(r.Context(), officer.NewActor(actorID, rawRole))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
