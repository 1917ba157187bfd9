package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/templui/folio/internal/ctxkeys"
	"github.com/templui/folio/internal/service"
)

// AdminMiddleware marks the request as admin when it carries a valid token,
// either in the admin cookie (browser editor) or as a Bearer header (CLI).
func AdminMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := adminToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			_, err := authService.VerifyJWT(token)
			if err != nil {
				// Invalid token, clear cookie and continue as guest
				if fromCookie {
					authService.ClearJWTCookie(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithAdmin(r.Context(), true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests without an admin session
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ctxkeys.IsAdmin(r.Context()) {
			writeJSONError(w, http.StatusUnauthorized, "admin login required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func adminToken(r *http.Request) (string, bool) {
	if token := bearerToken(r); token != "" {
		return token, false
	}
	cookie, err := r.Cookie(service.AdminCookieName)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
