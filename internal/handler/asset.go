package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/templui/folio/internal/storage"
	"github.com/templui/folio/internal/ui"
)

// AssetHandler streams uploaded images and descriptions from storage.
type AssetHandler struct {
	storage storage.Storage
}

func NewAssetHandler(storage storage.Storage) *AssetHandler {
	return &AssetHandler{
		storage: storage,
	}
}

func (h *AssetHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rc, err := h.storage.Open(r.Context(), r.URL.Path)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidPath) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to open asset", "error", err, "path", r.URL.Path)
		ui.Error(w, http.StatusInternalServerError, "failed to open file")
		return
	}
	defer rc.Close()

	name := path.Base(r.URL.Path)
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=300")

	// Local files support range requests
	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, name, time.Time{}, rs)
		return
	}

	_, err = io.Copy(w, rc)
	if err != nil {
		slog.Debug("asset copy interrupted", "error", err, "path", r.URL.Path)
	}
}

func Health(w http.ResponseWriter, r *http.Request) {
	ui.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
