package style

import (
	"fmt"
	"slices"

	"github.com/templui/folio/internal/model"
)

var (
	Placements = []model.Placement{
		model.PlacementTopLeft,
		model.PlacementTopCenter,
		model.PlacementTopRight,
		model.PlacementCenter,
		model.PlacementBottomLeft,
		model.PlacementBottomCenter,
		model.PlacementBottomRight,
	}
	Sizes         = []string{"xs", "sm", "base", "lg", "xl", "2xl", "3xl", "4xl", "5xl"}
	Weights       = []string{"thin", "extralight", "light", "normal", "medium", "semibold", "bold", "extrabold", "black"}
	LineHeights   = []string{"none", "tight", "snug", "normal", "relaxed", "loose"}
	SpacingScale  = []int{0, 1, 2, 3, 4, 5, 6, 8, 10, 12, 16}
	MarginBottoms = []int{0, 1, 2, 3, 4, 5, 6}
)

func ValidPlacement(p model.Placement) bool {
	return slices.Contains(Placements, p)
}

// Validate checks an override against the supported vocabularies.
func Validate(s *model.Style) error {
	if s == nil {
		return nil
	}
	if s.TextPlacement != nil && !ValidPlacement(*s.TextPlacement) {
		return fmt.Errorf("invalid text placement %q", *s.TextPlacement)
	}
	if s.DescriptionPlacement != nil && !ValidPlacement(*s.DescriptionPlacement) {
		return fmt.Errorf("invalid description placement %q", *s.DescriptionPlacement)
	}
	if s.TextColor != nil && *s.TextColor != "" && !ValidColor(*s.TextColor) {
		return fmt.Errorf("invalid text color %q", *s.TextColor)
	}
	if s.BgOpacity != nil && (*s.BgOpacity < 0 || *s.BgOpacity > 1) {
		return fmt.Errorf("background opacity %v out of range 0..1", *s.BgOpacity)
	}
	if t := s.Typography; t != nil {
		for role, ts := range map[string]*model.TextStyle{"title": t.Title, "subtitle": t.Subtitle, "description": t.Description} {
			err := validateText(ts)
			if err != nil {
				return fmt.Errorf("typography.%s: %w", role, err)
			}
		}
	}
	if sp := s.Spacing; sp != nil {
		err := validateBox(sp.Padding)
		if err != nil {
			return fmt.Errorf("spacing.padding: %w", err)
		}
		err = validateBox(sp.Margin)
		if err != nil {
			return fmt.Errorf("spacing.margin: %w", err)
		}
	}
	return nil
}

func validateText(t *model.TextStyle) error {
	if t == nil {
		return nil
	}
	if t.Size != nil && *t.Size != "" && !slices.Contains(Sizes, *t.Size) {
		return fmt.Errorf("invalid size %q", *t.Size)
	}
	if t.Weight != nil && *t.Weight != "" && !slices.Contains(Weights, *t.Weight) {
		return fmt.Errorf("invalid weight %q", *t.Weight)
	}
	if t.LineHeight != nil && *t.LineHeight != "" && !slices.Contains(LineHeights, *t.LineHeight) {
		return fmt.Errorf("invalid line height %q", *t.LineHeight)
	}
	if t.MarginBottom != nil && !slices.Contains(MarginBottoms, *t.MarginBottom) {
		return fmt.Errorf("invalid margin bottom %d", *t.MarginBottom)
	}
	return nil
}

func validateBox(b *model.Box) error {
	if b == nil {
		return nil
	}
	if b.X != nil && !slices.Contains(SpacingScale, *b.X) {
		return fmt.Errorf("invalid x %d", *b.X)
	}
	if b.Y != nil && !slices.Contains(SpacingScale, *b.Y) {
		return fmt.Errorf("invalid y %d", *b.Y)
	}
	return nil
}
