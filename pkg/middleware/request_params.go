package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/timesheet/pkg/composables"
	"github.com/iota-uz/timesheet/pkg/configuration"
)

// WithRequestParams resolves per-request metadata once and stores it in the
// context for downstream consumers such as the audit recorder.
func WithRequestParams() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := composables.WithParams(r.Context(), &composables.Params{
				IP:        getRealIP(r, conf),
				UserAgent: r.UserAgent(),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
