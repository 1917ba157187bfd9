package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/repository"
	"github.com/templui/folio/internal/service"
	"github.com/templui/folio/internal/ui"
	"github.com/templui/folio/internal/validation"
)

const (
	RevisionHeader = "X-Records-Revision"

	maxFormMemory = 32 << 20
	maxImageFiles = 16
)

// ArtworkHandler serves the operation-discriminated file API at /api/artwork.
type ArtworkHandler struct {
	artworkService *service.ArtworkService
	maxUploadSize  int64
}

func NewArtworkHandler(artworkService *service.ArtworkService, maxUploadSize int64) *ArtworkHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = validation.ImageConstraints.MaxSize
	}
	return &ArtworkHandler{
		artworkService: artworkService,
		maxUploadSize:  maxUploadSize,
	}
}

// Get dispatches the public read operations.
func (h *ArtworkHandler) Get(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("operation") {
	case "read":
		h.read(w, r)
	case "read-description":
		h.readDescription(w, r)
	default:
		ui.Error(w, http.StatusBadRequest, "invalid operation")
	}
}

// Post dispatches the admin write operations.
func (h *ArtworkHandler) Post(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("operation") {
	case "write":
		h.write(w, r)
	case "upload-image":
		h.uploadImage(w, r)
	case "save-description":
		h.saveDescription(w, r)
	case "delete-files":
		h.deleteFiles(w, r)
	default:
		ui.Error(w, http.StatusBadRequest, "invalid operation")
	}
}

func (h *ArtworkHandler) read(w http.ResponseWriter, r *http.Request) {
	artworks, revision, err := h.artworkService.List(r.Context())
	if errors.Is(err, repository.ErrMalformedRecords) {
		slog.Error("records file is malformed, serving empty list", "error", err)
		artworks, revision = []model.Artwork{}, 0
	} else if err != nil {
		fail(w, "read artwork data", err)
		return
	}

	w.Header().Set(RevisionHeader, strconv.FormatInt(revision, 10))
	ui.JSON(w, http.StatusOK, artworks)
}

func (h *ArtworkHandler) readDescription(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		ui.Error(w, http.StatusBadRequest, "missing path parameter")
		return
	}

	content, err := h.artworkService.ReadDescription(r.Context(), path)
	if err != nil {
		fail(w, "read description file", err)
		return
	}

	ui.JSON(w, http.StatusOK, map[string]string{"content": content})
}

func (h *ArtworkHandler) write(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		ui.Error(w, http.StatusBadRequest, "invalid form")
		return
	}

	var artworks []model.Artwork
	err = json.Unmarshal([]byte(r.FormValue("artworks")), &artworks)
	if err != nil {
		ui.Error(w, http.StatusBadRequest, "artworks must be a JSON array of records")
		return
	}

	expected := repository.AnyRevision
	if v := strings.TrimSpace(r.FormValue("revision")); v != "" {
		expected, err = strconv.ParseInt(v, 10, 64)
		if err != nil || expected < 0 {
			ui.Error(w, http.StatusBadRequest, "invalid revision")
			return
		}
	}

	revision, err := h.artworkService.Replace(r.Context(), artworks, expected)
	if err != nil {
		fail(w, "write artwork data", err)
		return
	}

	w.Header().Set(RevisionHeader, strconv.FormatInt(revision, 10))
	ui.JSON(w, http.StatusOK, map[string]any{"success": true, "revision": revision})
}

func (h *ArtworkHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize*maxImageFiles+(1<<20))
	err := r.ParseMultipartForm(maxFormMemory)
	if err != nil {
		ui.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	category, err := model.ParseCategory(r.FormValue("category"))
	if err != nil {
		ui.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	headers := uploadedFiles(r.MultipartForm)
	if len(headers) == 0 {
		ui.Error(w, http.StatusBadRequest, "no file provided")
		return
	}
	if len(headers) > maxImageFiles {
		ui.Error(w, http.StatusBadRequest, fmt.Sprintf("too many files (max %d)", maxImageFiles))
		return
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			fail(w, "open uploaded file", err)
			return
		}
		defer file.Close()

		uploads = append(uploads, service.Upload{
			Filename: header.Filename,
			Size:     header.Size,
			Body:     file,
		})
	}

	// An explicit filename only makes sense for a single file
	if name := strings.TrimSpace(r.FormValue("filename")); name != "" && len(uploads) == 1 {
		uploads[0].Filename = name
	}

	paths, err := h.artworkService.UploadImages(r.Context(), category, r.FormValue("title"), uploads)
	if err != nil {
		fail(w, "save image file", err)
		return
	}

	ui.JSON(w, http.StatusOK, map[string]any{"path": paths[0], "paths": paths})
}

func (h *ArtworkHandler) saveDescription(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		ui.Error(w, http.StatusBadRequest, "invalid form")
		return
	}

	path, err := h.artworkService.SaveDescription(r.Context(), r.FormValue("title"), r.FormValue("content"))
	if err != nil {
		fail(w, "save description file", err)
		return
	}

	ui.JSON(w, http.StatusOK, map[string]string{"path": path})
}

func (h *ArtworkHandler) deleteFiles(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		ui.Error(w, http.StatusBadRequest, "invalid form")
		return
	}

	images := imageURLValues(r.Form["imageUrl"])
	deleted, err := h.artworkService.DeleteFiles(r.Context(), images, r.FormValue("descriptionPath"))
	if err != nil {
		fail(w, "delete files", err)
		return
	}

	ui.JSON(w, http.StatusOK, map[string]any{"success": true, "deleted": deleted})
}

// parseForm accepts both urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	return err
}

// uploadedFiles collects the repeatable "file" field, then file0..fileN.
func uploadedFiles(form *multipart.Form) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	headers := append([]*multipart.FileHeader{}, form.File["file"]...)
	for i := 0; ; i++ {
		indexed := form.File["file"+strconv.Itoa(i)]
		if len(indexed) == 0 {
			break
		}
		headers = append(headers, indexed...)
	}
	return headers
}

// imageURLValues accepts repeated values and a JSON encoded array or string.
func imageURLValues(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "[") || strings.HasPrefix(v, `"`) {
			var urls model.ImageURLs
			if json.Unmarshal([]byte(v), &urls) == nil {
				out = append(out, urls...)
				continue
			}
		}
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// fail maps service errors to status codes. Server errors are logged, client
// errors are echoed back.
func fail(w http.ResponseWriter, action string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidRecords),
		errors.Is(err, service.ErrPathOutsideRoot):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrFileNotFound),
		errors.Is(err, service.ErrArtworkNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrRevisionConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status >= http.StatusInternalServerError {
		slog.Error("failed to "+action, "error", err)
		ui.Error(w, status, "failed to "+action)
		return
	}

	slog.Warn("request rejected", "action", action, "status", status, "error", err)
	ui.Error(w, status, err.Error())
}
