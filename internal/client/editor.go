package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/slug"
	"github.com/templui/folio/internal/style"
	"github.com/templui/folio/internal/validation"
)

const MaxImages = 3

var (
	ErrInvalidDraft = errors.New("invalid artwork")
	ErrNotFound     = errors.New("artwork not found")
	ErrSaveFailed   = errors.New("failed to save artwork")
)

// Draft is the editor form. An empty ID creates a record, otherwise the
// record with that ID is updated.
type Draft struct {
	ID         string
	Title      string
	TitleLine2 string
	Category   model.Category
	Type       model.DisplayType

	// Images replace the record's images when set. A new record needs at least one.
	Images []Image

	// Description is written when non-nil. An empty string removes it; nil
	// keeps the existing description on edit.
	Description *string

	TextWidthPercentage *int
	Style               *model.Style
}

type Editor struct {
	manager *Manager
}

func NewEditor(manager *Manager) *Editor {
	return &Editor{manager: manager}
}

func (d *Draft) validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidDraft)
	}
	if !d.Category.Valid() {
		return fmt.Errorf("%w: category is required", ErrInvalidDraft)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: display type is required", ErrInvalidDraft)
	}
	if d.ID == "" && len(d.Images) == 0 {
		return fmt.Errorf("%w: an image is required", ErrInvalidDraft)
	}
	if len(d.Images) > MaxImages {
		return fmt.Errorf("%w: at most %d images", ErrInvalidDraft, MaxImages)
	}
	for _, image := range d.Images {
		if image.Body == nil || strings.TrimSpace(image.Filename) == "" {
			return fmt.Errorf("%w: image file is missing", ErrInvalidDraft)
		}
	}
	err := validation.ValidateTextWidth(d.TextWidthPercentage)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}
	err = style.Validate(d.Style)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}
	return nil
}

// Save creates or updates a record. Images and description are uploaded
// first, then the list is rewritten. Files the edit replaced are removed
// afterwards unless another record still points at them.
func (e *Editor) Save(ctx context.Context, draft Draft) (model.Artwork, error) {
	err := draft.validate()
	if err != nil {
		return model.Artwork{}, err
	}

	artworks, err := e.load(ctx)
	if err != nil {
		return model.Artwork{}, err
	}

	var artwork, previous model.Artwork
	idx := -1
	if draft.ID != "" {
		idx = model.FindArtwork(artworks, draft.ID)
		if idx < 0 {
			return model.Artwork{}, fmt.Errorf("%w: %s", ErrNotFound, draft.ID)
		}
		previous = artworks[idx]
		artwork = previous
	}

	artwork.Title = strings.TrimSpace(draft.Title)
	artwork.TitleLine2 = strings.TrimSpace(draft.TitleLine2)
	artwork.Category = draft.Category
	artwork.Type = draft.Type
	artwork.TextWidthPercentage = draft.TextWidthPercentage
	artwork.Style = draft.Style

	g, gctx := errgroup.WithContext(ctx)

	if len(draft.Images) > 0 {
		g.Go(func() error {
			var paths []string
			if len(draft.Images) == 1 {
				if p := e.manager.SaveImage(gctx, draft.Images[0], draft.Category); p != "" {
					paths = []string{p}
				}
			} else {
				paths = e.manager.SaveImages(gctx, draft.Images, draft.Category, artwork.Title)
			}
			if len(paths) != len(draft.Images) {
				return fmt.Errorf("%w: image upload failed", ErrSaveFailed)
			}
			artwork.ImageURL = paths
			return nil
		})
	}

	if draft.Description != nil {
		markdown := *draft.Description
		if strings.TrimSpace(markdown) == "" || !draft.Type.RendersDescription() {
			artwork.DescriptionPath = ""
		} else {
			g.Go(func() error {
				p := e.manager.SaveDescription(gctx, artwork.Title, markdown)
				if p == "" {
					return fmt.Errorf("%w: description upload failed", ErrSaveFailed)
				}
				artwork.DescriptionPath = p
				return nil
			})
		}
	}

	err = g.Wait()
	if err != nil {
		return model.Artwork{}, err
	}

	if idx < 0 {
		artwork.ID = uniqueID(artworks, newID(draft.Images[0].Filename))
	}
	artwork.Normalize()

	err = validation.ValidateArtwork(&artwork)
	if err != nil {
		return model.Artwork{}, fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}

	next := slices.Clone(artworks)
	if idx < 0 {
		next = append(next, artwork)
	} else {
		next[idx] = artwork
	}

	if !e.manager.ReplaceAll(ctx, next) {
		return model.Artwork{}, ErrSaveFailed
	}

	if idx >= 0 {
		e.removeUnreferenced(ctx, previous, next)
	}

	slog.Info("artwork saved", "id", artwork.ID, "created", idx < 0)
	return artwork, nil
}

// Delete removes the record from the list, then deletes its files that no
// other record references.
func (e *Editor) Delete(ctx context.Context, id string) error {
	artworks, err := e.load(ctx)
	if err != nil {
		return err
	}
	idx := model.FindArtwork(artworks, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	removed := artworks[idx]
	next := slices.Delete(slices.Clone(artworks), idx, idx+1)

	if !e.manager.ReplaceAll(ctx, next) {
		return ErrSaveFailed
	}

	e.removeUnreferenced(ctx, removed, next)
	slog.Info("artwork deleted", "id", id)
	return nil
}

// load reads the current list. An empty result from a failed read must never
// be written back, so it is reported as ErrSaveFailed.
func (e *Editor) load(ctx context.Context) ([]model.Artwork, error) {
	artworks := e.manager.List(ctx)
	if _, ok := e.manager.Revision(); !ok {
		return nil, fmt.Errorf("%w: could not load the current artworks", ErrSaveFailed)
	}
	return artworks, nil
}

// removeUnreferenced deletes the files of old that nothing in artworks uses.
// Failures are logged by the manager and otherwise ignored.
func (e *Editor) removeUnreferenced(ctx context.Context, old model.Artwork, artworks []model.Artwork) {
	referenced := make(map[string]bool)
	for i := range artworks {
		for _, p := range artworks[i].Paths() {
			referenced[p] = true
		}
	}

	orphan := model.Artwork{ID: old.ID}
	for _, p := range old.ImageURL {
		if !referenced[p] {
			orphan.ImageURL = append(orphan.ImageURL, p)
		}
	}
	if old.DescriptionPath != "" && !referenced[old.DescriptionPath] {
		orphan.DescriptionPath = old.DescriptionPath
	}

	skipped := len(old.Paths()) - len(orphan.Paths())
	if skipped > 0 {
		slog.Debug("keeping files shared with other artworks", "id", old.ID, "count", skipped)
	}
	e.manager.DeleteArtworkFiles(ctx, orphan)
}

// newID derives a record ID from the first image filename, falling back to a
// generated token.
func newID(filename string) string {
	id := slug.ID(filename)
	if id == "" {
		return slug.NewToken()
	}
	return id
}

// uniqueID appends -2, -3, ... until id is unused.
func uniqueID(artworks []model.Artwork, id string) string {
	candidate := id
	for n := 2; model.FindArtwork(artworks, candidate) >= 0; n++ {
		candidate = id + "-" + strconv.Itoa(n)
	}
	return candidate
}
