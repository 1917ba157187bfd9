package middleware

import (
	"net/http"

	"github.com/templui/folio/internal/config"
	"github.com/templui/folio/internal/ctxkeys"
)

// Config puts the sanitized configuration on the request context. The JWT
// secret and admin credentials are blanked.
func Config(cfg *config.Config) Middleware {
	sanitized := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithConfig(r.Context(), sanitized)))
		})
	}
}
