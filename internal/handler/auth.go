package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/folio/internal/ctxkeys"
	"github.com/templui/folio/internal/service"
	"github.com/templui/folio/internal/ui"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login exchanges the admin password for a session. Browsers get a cookie,
// API clients use the returned token as a Bearer header.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		ui.Error(w, http.StatusBadRequest, "invalid form")
		return
	}

	token, expiry, err := h.authService.Login(r.FormValue("password"))
	if errors.Is(err, service.ErrInvalidCredentials) {
		slog.Warn("admin login failed", "remote_addr", r.RemoteAddr)
		ui.Error(w, http.StatusUnauthorized, "invalid password")
		return
	}
	if err != nil {
		fail(w, "log in", err)
		return
	}

	h.authService.SetJWTCookie(w, token, expiry)
	slog.Info("admin logged in", "remote_addr", r.RemoteAddr)

	ui.JSON(w, http.StatusOK, map[string]any{
		"token":     token,
		"expiresAt": expiry.UTC().Format(time.RFC3339),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	ui.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Session reports whether the caller is logged in as admin.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	ui.JSON(w, http.StatusOK, map[string]bool{"admin": ctxkeys.IsAdmin(r.Context())})
}
