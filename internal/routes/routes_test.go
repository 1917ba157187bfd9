package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/folio/internal/app"
	"github.com/templui/folio/internal/config"
	"github.com/templui/folio/internal/markdown"
	"github.com/templui/folio/internal/repository"
	"github.com/templui/folio/internal/service"
	"github.com/templui/folio/internal/storage"
)

const adminPassword = "correct horse battery staple"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		AppName:       "Folio",
		AppEnv:        "development",
		RecordsPath:   filepath.Join(dir, "artworks.json"),
		PublicPath:    filepath.Join(dir, "public"),
		MaxUploadSize: 1 << 20,
		AdminPassword: adminPassword,
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
	}

	store, err := storage.NewLocalStorage(cfg.PublicPath)
	require.NoError(t, err)
	artworks := service.NewArtworkService(repository.NewArtworkRepository(cfg.RecordsPath), store, cfg.MaxUploadSize)

	a := &app.App{
		Cfg:            cfg,
		Storage:        store,
		ArtworkService: artworks,
		GalleryService: service.NewGalleryService(artworks, markdown.NewParser()),
		AuthService:    service.NewAuthService("", cfg.AdminPassword, cfg.JWTSecret, cfg.JWTExpiry, false),
	}

	srv := httptest.NewServer(SetupRoutes(a))
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server, password string) *http.Response {
	t.Helper()
	resp, err := http.PostForm(srv.URL+"/api/admin/login", url.Values{"password": {password}})
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func writeRecords(t *testing.T, srv *httptest.Server, token string, extra func(*http.Request)) *http.Response {
	t.Helper()
	form := url.Values{"artworks": {"[]"}}
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/artwork?operation=write", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if extra != nil {
		extra(req)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/api/artwork?operation=read", "/api/gallery", "/api/styles/2", "/api/admin/session"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"), path)
	}

	resp, err := http.Get(srv.URL + "/nothing/here")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/artwork/3/missing.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWritesRequireAdmin(t *testing.T) {
	srv := newTestServer(t)

	resp := writeRecords(t, srv, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = login(t, srv, "wrong password")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = login(t, srv, adminPassword)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)

	resp = writeRecords(t, srv, body.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-Records-Revision"))
}

func TestCookieSessionNeedsCSRFToken(t *testing.T) {
	srv := newTestServer(t)

	resp := login(t, srv, adminPassword)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == service.AdminCookieName {
			session = c
		}
	}
	require.NotNil(t, session)

	withCookie := func(r *http.Request) { r.AddCookie(session) }
	resp = writeRecords(t, srv, "", withCookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	get, err := http.Get(srv.URL + "/api/artwork?operation=read")
	require.NoError(t, err)
	get.Body.Close()
	csrf := get.Header.Get("X-CSRF-Token")
	require.NotEmpty(t, csrf)

	resp = writeRecords(t, srv, "", func(r *http.Request) {
		r.AddCookie(session)
		r.AddCookie(&http.Cookie{Name: "csrf_token", Value: csrf})
		r.Header.Set("X-CSRF-Token", csrf)
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
