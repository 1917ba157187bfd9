package ctxkeys

import (
	"context"

	"github.com/templui/folio/internal/config"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	AdminKey     contextKey = "admin"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
)

// IsAdmin reports whether the request carries a valid admin session.
func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(AdminKey).(bool)
	return admin
}

func WithAdmin(ctx context.Context, admin bool) context.Context {
	return context.WithValue(ctx, AdminKey, admin)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}
