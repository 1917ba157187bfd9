package routes

import (
	"net/http"

	"github.com/templui/folio/internal/app"
	"github.com/templui/folio/internal/handler"
	"github.com/templui/folio/internal/middleware"
	"github.com/templui/folio/internal/ui"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	artwork := handler.NewArtworkHandler(app.ArtworkService, app.Cfg.MaxUploadSize)
	gallery := handler.NewGalleryHandler(app.GalleryService)
	auth := handler.NewAuthHandler(app.AuthService)
	assets := handler.NewAssetHandler(app.Storage)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", handler.Health)

	// Uploaded files
	mux.HandleFunc("GET /artwork/", assets.Serve)
	mux.HandleFunc("GET /descriptions/", assets.Serve)

	// Artwork file API (read operations)
	mux.HandleFunc("GET /api/artwork", artwork.Get)

	// Gallery viewer
	mux.HandleFunc("GET /api/gallery", gallery.Index)
	mux.HandleFunc("GET /api/gallery/view", gallery.View)
	mux.HandleFunc("GET /api/styles/{variant}", gallery.Style)

	// Admin session (rate limited)
	rateLimiter := middleware.RateLimitAuth(app.Cfg.TrustProxy)

	mux.HandleFunc("POST /api/admin/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/admin/logout", auth.Logout)
	mux.HandleFunc("GET /api/admin/session", auth.Session)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Artwork file API (write operations)
	mux.HandleFunc("POST /api/artwork", middleware.RequireAdmin(artwork.Post))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", func(w http.ResponseWriter, r *http.Request) {
		ui.Error(w, http.StatusNotFound, "not found")
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection, // CSRF protection for cookie sessions
		middleware.AdminMiddleware(app.AuthService),
	)

	return handler
}
