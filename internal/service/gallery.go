package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/folio/internal/markdown"
	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/repository"
	"github.com/templui/folio/internal/style"
)

var ErrArtworkNotFound = errors.New("artwork not found")

// CategoryCount is one entry of the facet menu.
type CategoryCount struct {
	ID    model.Category `json:"id"`
	Name  string         `json:"name"`
	Count int            `json:"count"`
}

// GalleryPage is the filtered list the viewer navigates through.
type GalleryPage struct {
	Category   model.Category  `json:"category,omitempty"`
	Categories []CategoryCount `json:"categories"`
	Artworks   []model.Artwork `json:"artworks"`
}

// ArtworkView is everything the presentation layer needs to render one slide.
type ArtworkView struct {
	Artwork         model.Artwork   `json:"artwork"`
	Index           int             `json:"index"`
	Total           int             `json:"total"`
	HasPrev         bool            `json:"hasPrev"`
	HasNext         bool            `json:"hasNext"`
	Prev            int             `json:"prev"`
	Next            int             `json:"next"`
	Variant         string          `json:"variant"`
	Style           style.Effective `json:"style"`
	Classes         style.Classes   `json:"classes"`
	TextWidth       int             `json:"textWidth,omitempty"`
	ImageWidth      int             `json:"imageWidth,omitempty"`
	DescriptionHTML string          `json:"descriptionHtml,omitempty"`
	DescriptionMeta map[string]any  `json:"descriptionMeta,omitempty"`
}

type GalleryService struct {
	artworkService *ArtworkService
	parser         *markdown.Parser
}

func NewGalleryService(artworkService *ArtworkService, parser *markdown.Parser) *GalleryService {
	return &GalleryService{
		artworkService: artworkService,
		parser:         parser,
	}
}

// Filter keeps the records of one category. Category 0 means no facet.
func Filter(artworks []model.Artwork, category model.Category) []model.Artwork {
	if category == 0 {
		return artworks
	}
	filtered := []model.Artwork{}
	for _, a := range artworks {
		if a.Category == category {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// Categories counts records per category, in facet order.
func Categories(artworks []model.Artwork) []CategoryCount {
	counts := make([]CategoryCount, 0, len(model.Categories))
	for _, c := range model.Categories {
		counts = append(counts, CategoryCount{
			ID:    c,
			Name:  c.String(),
			Count: len(Filter(artworks, c)),
		})
	}
	return counts
}

// Page loads the list once and applies the facet. Malformed data reads as empty.
func (s *GalleryService) Page(ctx context.Context, category model.Category) (*GalleryPage, error) {
	artworks, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	return &GalleryPage{
		Category:   category,
		Categories: Categories(artworks),
		Artworks:   Filter(artworks, category),
	}, nil
}

// View resolves the artwork at index within the filtered list. Prev and Next
// wrap around; HasPrev and HasNext report the unwrapped bounds.
func (s *GalleryService) View(ctx context.Context, category model.Category, index int) (*ArtworkView, error) {
	artworks, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	filtered := Filter(artworks, category)
	total := len(filtered)
	if index < 0 || index >= total {
		return nil, fmt.Errorf("%w: index %d of %d", ErrArtworkNotFound, index, total)
	}

	a := filtered[index]
	eff := style.Resolve(a.Type, a.Style)
	view := &ArtworkView{
		Artwork: a,
		Index:   index,
		Total:   total,
		HasPrev: index > 0,
		HasNext: index < total-1,
		Prev:    (index - 1 + total) % total,
		Next:    (index + 1) % total,
		Variant: a.Type.String(),
		Style:   eff,
		Classes: style.ClassesFor(eff),
	}

	if a.Type.UsesTextWidth() {
		view.TextWidth = a.TextWidth()
		view.ImageWidth = 100 - view.TextWidth
	}

	if a.Type.RendersDescription() && a.DescriptionPath != "" {
		if d := s.renderDescription(ctx, a.DescriptionPath); d != nil {
			view.DescriptionHTML, view.DescriptionMeta = d.HTML, d.Meta
		}
	}

	return view, nil
}

// renderDescription fails soft: a missing or unreadable file renders nothing.
func (s *GalleryService) renderDescription(ctx context.Context, path string) *markdown.Description {
	source, err := s.artworkService.ReadDescription(ctx, path)
	if err != nil {
		slog.Warn("failed to read description", "error", err, "path", path)
		return nil
	}

	d, err := s.parser.Render([]byte(source))
	if err != nil {
		slog.Error("failed to render description", "error", err, "path", path)
		return nil
	}
	return d
}

func (s *GalleryService) list(ctx context.Context) ([]model.Artwork, error) {
	artworks, _, err := s.artworkService.List(ctx)
	if errors.Is(err, repository.ErrMalformedRecords) {
		slog.Warn("records file is malformed, showing an empty gallery", "error", err)
		return []model.Artwork{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}
	return artworks, nil
}
