package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/service"
	"github.com/templui/folio/internal/style"
	"github.com/templui/folio/internal/ui"
)

// GalleryHandler serves the viewer: filtered lists, resolved slides and variant styles.
type GalleryHandler struct {
	galleryService *service.GalleryService
}

func NewGalleryHandler(galleryService *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
	}
}

func (h *GalleryHandler) Index(w http.ResponseWriter, r *http.Request) {
	category, ok := categoryParam(w, r)
	if !ok {
		return
	}

	page, err := h.galleryService.Page(r.Context(), category)
	if err != nil {
		fail(w, "load gallery", err)
		return
	}

	ui.JSON(w, http.StatusOK, page)
}

func (h *GalleryHandler) View(w http.ResponseWriter, r *http.Request) {
	category, ok := categoryParam(w, r)
	if !ok {
		return
	}

	index := 0
	if v := r.URL.Query().Get("index"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			ui.Error(w, http.StatusBadRequest, "invalid index")
			return
		}
		index = n
	}

	view, err := h.galleryService.View(r.Context(), category, index)
	if err != nil {
		fail(w, "load artwork", err)
		return
	}

	ui.JSON(w, http.StatusOK, view)
}

// Style returns the default effective style and classes of a display variant.
func (h *GalleryHandler) Style(w http.ResponseWriter, r *http.Request) {
	variant, err := model.ParseDisplayType(r.PathValue("variant"))
	if err != nil {
		ui.Error(w, http.StatusNotFound, err.Error())
		return
	}

	eff := style.Default(variant)
	ui.JSON(w, http.StatusOK, map[string]any{
		"variant": variant.String(),
		"style":   eff,
		"classes": style.ClassesFor(eff),
	})
}

// categoryParam reads ?category=; empty or "all" means no facet.
func categoryParam(w http.ResponseWriter, r *http.Request) (model.Category, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("category"))
	if v == "" || strings.EqualFold(v, "all") {
		return 0, true
	}

	category, err := model.ParseCategory(v)
	if err != nil {
		ui.Error(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return category, true
}
