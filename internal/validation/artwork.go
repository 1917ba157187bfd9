package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/style"
)

const (
	ImagePrefix       = "/artwork/"
	DescriptionPrefix = "/descriptions/"
	MaxTitleLength    = 200
)

var ErrDuplicateID = errors.New("duplicate artwork id")

// ValidateArtwork checks a single record before it is persisted.
func ValidateArtwork(a *model.Artwork) error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("id is required")
	}

	title := strings.TrimSpace(a.Title)
	if title == "" {
		return errors.New("title is required")
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("title is too long (max %d characters)", MaxTitleLength)
	}

	if !a.Category.Valid() {
		return fmt.Errorf("invalid category %d", a.Category)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("invalid display type %d", a.Type)
	}

	if len(a.ImageURL) == 0 {
		return errors.New("at least one image is required")
	}
	for _, p := range a.ImageURL {
		if !strings.HasPrefix(p, ImagePrefix) {
			return fmt.Errorf("image path %q must start with %s", p, ImagePrefix)
		}
	}

	if a.DescriptionPath != "" && !strings.HasPrefix(a.DescriptionPath, DescriptionPrefix) {
		return fmt.Errorf("description path %q must start with %s", a.DescriptionPath, DescriptionPrefix)
	}

	err := ValidateTextWidth(a.TextWidthPercentage)
	if err != nil {
		return err
	}

	err = style.Validate(a.Style)
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}

	return nil
}

// ValidateTextWidth accepts nil or 20..70 in steps of 5.
func ValidateTextWidth(width *int) error {
	if width == nil {
		return nil
	}
	w := *width
	if w < model.MinTextWidth || w > model.MaxTextWidth || w%model.TextWidthStep != 0 {
		return fmt.Errorf("text width must be between %d and %d in steps of %d", model.MinTextWidth, model.MaxTextWidth, model.TextWidthStep)
	}
	return nil
}

// ValidateArtworks checks every record and the uniqueness of IDs across the list.
func ValidateArtworks(artworks []model.Artwork) error {
	seen := make(map[string]bool, len(artworks))
	for i := range artworks {
		a := &artworks[i]
		err := ValidateArtwork(a)
		if err != nil {
			return fmt.Errorf("artwork %d (%q): %w", i, a.ID, err)
		}
		if seen[a.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}
