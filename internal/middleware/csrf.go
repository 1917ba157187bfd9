package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strings"

	"github.com/templui/folio/internal/ctxkeys"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenLen   = 32
	csrfMaxAge     = 7 * 24 * 60 * 60
)

// Login has no session to ride on yet.
var csrfExemptPaths = []string{
	"/api/admin/login",
}

// CSRFProtection is a double-submit check for cookie sessions. Safe requests
// get the token in a cookie and in the X-CSRF-Token response header; unsafe
// requests must echo it in that header or in the csrf_token form field.
// Bearer requests carry no ambient credentials and are not checked.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isSafeMethod(r.Method) {
			token := csrfCookieToken(w, r)
			w.Header().Set(csrfHeader, token)
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithCSRFToken(r.Context(), token)))
			return
		}

		if bearerToken(r) != "" || slices.Contains(csrfExemptPaths, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := csrfCookieToken(w, r)
		// Multipart bodies are left for the handler, which parses them under
		// its own size limit, so uploads must send the header.
		submitted := r.Header.Get(csrfHeader)
		if submitted == "" && !isMultipart(r) {
			submitted = r.PostFormValue(csrfFormField)
		}

		if submitted == "" || subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
			slog.Warn("csrf validation failed",
				"path", r.URL.Path,
				"method", r.Method,
				"ip", clientIP(r, false),
			)
			writeJSONError(w, http.StatusForbidden, "invalid CSRF token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxkeys.WithCSRFToken(r.Context(), token)))
	})
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mediaType, "multipart/")
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// csrfCookieToken returns the token from the request cookie, issuing a new
// cookie when it is missing or malformed.
func csrfCookieToken(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err == nil && len(cookie.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenLen) {
		return cookie.Value
	}

	b := make([]byte, csrfTokenLen)
	_, _ = rand.Read(b)
	token := base64.RawURLEncoding.EncodeToString(b)

	cfg := ctxkeys.Config(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   csrfMaxAge,
	})
	return token
}
