package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// DisplayType selects how an artwork's image and text are laid out.
type DisplayType int

const (
	DisplayFullScreen            DisplayType = 1 // image + title
	DisplayFullScreenWithOverlay DisplayType = 2 // image + title + description overlay
	DisplaySplitScreenTextLeft   DisplayType = 3 // description left, image right
)

var DisplayTypes = []DisplayType{
	DisplayFullScreen,
	DisplayFullScreenWithOverlay,
	DisplaySplitScreenTextLeft,
}

func (t DisplayType) Valid() bool {
	return slices.Contains(DisplayTypes, t)
}

// RendersDescription reports whether the variant shows the Markdown description.
func (t DisplayType) RendersDescription() bool {
	return t == DisplayFullScreenWithOverlay || t == DisplaySplitScreenTextLeft
}

// UsesTextWidth reports whether the variant reads TextWidthPercentage.
func (t DisplayType) UsesTextWidth() bool {
	return t == DisplaySplitScreenTextLeft
}

func (t DisplayType) String() string {
	switch t {
	case DisplayFullScreen:
		return "full-screen"
	case DisplayFullScreenWithOverlay:
		return "full-screen-overlay"
	case DisplaySplitScreenTextLeft:
		return "split-screen-text-left"
	default:
		return "unknown"
	}
}

// ParseDisplayType accepts the numeric value or the String() name.
func ParseDisplayType(s string) (DisplayType, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	n, err := strconv.Atoi(s)
	if err == nil {
		t := DisplayType(n)
		if t.Valid() {
			return t, nil
		}
		return 0, fmt.Errorf("unknown display type %d", n)
	}
	for _, t := range DisplayTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown display type %q", s)
}

// Category is the gallery facet. Uploaded images are namespaced by its numeric value.
type Category int

const (
	CategoryDrawings      Category = 1
	CategoryInstallations Category = 2
	CategoryPaintings     Category = 3
	CategoryVideo         Category = 4
)

var Categories = []Category{
	CategoryDrawings,
	CategoryInstallations,
	CategoryPaintings,
	CategoryVideo,
}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

func (c Category) String() string {
	switch c {
	case CategoryDrawings:
		return "drawings"
	case CategoryInstallations:
		return "installations"
	case CategoryPaintings:
		return "paintings"
	case CategoryVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Dir is the directory segment used for the category's uploads.
func (c Category) Dir() string {
	return strconv.Itoa(int(c))
}

// ParseCategory accepts the numeric value or the category name.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	n, err := strconv.Atoi(s)
	if err == nil {
		c := Category(n)
		if c.Valid() {
			return c, nil
		}
		return 0, fmt.Errorf("unknown category %d", n)
	}
	for _, c := range Categories {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// ImageURLs holds one or more public-relative image paths.
// It encodes as a JSON string for a single image and as an array otherwise.
type ImageURLs []string

func (u ImageURLs) MarshalJSON() ([]byte, error) {
	switch len(u) {
	case 0:
		return []byte(`""`), nil
	case 1:
		return json.Marshal(u[0])
	default:
		return json.Marshal([]string(u))
	}
}

func (u *ImageURLs) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*u = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		err := json.Unmarshal(data, &list)
		if err != nil {
			return err
		}
		*u = nil
		for _, p := range list {
			if p != "" {
				*u = append(*u, p)
			}
		}
		return nil
	}

	var single string
	err := json.Unmarshal(data, &single)
	if err != nil {
		return fmt.Errorf("imageUrl must be a string or an array of strings: %w", err)
	}
	if single == "" {
		*u = nil
		return nil
	}
	*u = ImageURLs{single}
	return nil
}

// Primary returns the first image path or "".
func (u ImageURLs) Primary() string {
	if len(u) == 0 {
		return ""
	}
	return u[0]
}

func (u ImageURLs) IsMulti() bool {
	return len(u) > 1
}

// Artwork is one persisted record of the gallery.
type Artwork struct {
	ID                  string      `json:"id"`
	Category            Category    `json:"category"`
	Title               string      `json:"title"`
	TitleLine2          string      `json:"titleLine2,omitempty"`
	ImageURL            ImageURLs   `json:"imageUrl"`
	Type                DisplayType `json:"type"`
	DescriptionPath     string      `json:"descriptionPath,omitempty"`
	TextWidthPercentage *int        `json:"textWidthPercentage,omitempty"`
	Style               *Style      `json:"style,omitempty"`
}

const (
	DefaultTextWidth = 50
	MinTextWidth     = 20
	MaxTextWidth     = 70
	TextWidthStep    = 5
)

// TextWidth returns the split ratio for the text column, defaulting to 50.
func (a *Artwork) TextWidth() int {
	if a.TextWidthPercentage == nil {
		return DefaultTextWidth
	}
	return *a.TextWidthPercentage
}

// Paths lists every stored file the record references.
func (a *Artwork) Paths() []string {
	paths := slices.Clone([]string(a.ImageURL))
	if a.DescriptionPath != "" {
		paths = append(paths, a.DescriptionPath)
	}
	return paths
}

// Normalize applies the variant rules: the text width only exists on the split
// variant (defaulted to 50) and the description path only on variants that render it.
func (a *Artwork) Normalize() {
	if a.Type.UsesTextWidth() {
		if a.TextWidthPercentage == nil {
			width := DefaultTextWidth
			a.TextWidthPercentage = &width
		}
	} else {
		a.TextWidthPercentage = nil
	}

	if !a.Type.RendersDescription() {
		a.DescriptionPath = ""
	}
}

// FindArtwork returns the index of the record with the given ID or -1.
func FindArtwork(artworks []Artwork, id string) int {
	return slices.IndexFunc(artworks, func(a Artwork) bool { return a.ID == id })
}
