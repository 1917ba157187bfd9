package validation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/folio/internal/model"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func validArtwork() model.Artwork {
	return model.Artwork{
		ID:       "a",
		Category: model.CategoryPaintings,
		Title:    "Test",
		ImageURL: model.ImageURLs{"/artwork/3/a.png"},
		Type:     model.DisplayFullScreen,
	}
}

func TestValidateArtwork(t *testing.T) {
	width := func(w int) *int { return &w }

	tests := []struct {
		name    string
		mutate  func(a *model.Artwork)
		wantErr string
	}{
		{"valid", func(a *model.Artwork) {}, ""},
		{"missing id", func(a *model.Artwork) { a.ID = " " }, "id is required"},
		{"missing title", func(a *model.Artwork) { a.Title = "" }, "title is required"},
		{"bad category", func(a *model.Artwork) { a.Category = 9 }, "invalid category"},
		{"bad type", func(a *model.Artwork) { a.Type = 0 }, "invalid display type"},
		{"no image", func(a *model.Artwork) { a.ImageURL = nil }, "at least one image"},
		{"image outside root", func(a *model.Artwork) { a.ImageURL = model.ImageURLs{"/etc/passwd"} }, "must start with /artwork/"},
		{"description outside root", func(a *model.Artwork) { a.DescriptionPath = "/artwork/x.md" }, "must start with /descriptions/"},
		{"text width off step", func(a *model.Artwork) { a.TextWidthPercentage = width(52) }, "text width"},
		{"text width too wide", func(a *model.Artwork) { a.TextWidthPercentage = width(75) }, "text width"},
		{"text width ok", func(a *model.Artwork) { a.TextWidthPercentage = width(70) }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validArtwork()
			tt.mutate(&a)
			err := ValidateArtwork(&a)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateArtworksRejectsDuplicateIDs(t *testing.T) {
	a, b := validArtwork(), validArtwork()
	err := ValidateArtworks([]model.Artwork{a, b})
	assert.ErrorIs(t, err, ErrDuplicateID)

	b.ID = "b"
	assert.NoError(t, ValidateArtworks([]model.Artwork{a, b}))
}

func TestValidateReader(t *testing.T) {
	r := bytes.NewReader(pngHeader)
	require.NoError(t, ValidateReader("a.png", int64(len(pngHeader)), r, ImageConstraints))

	// rewound for the caller
	pos, err := r.Seek(0, 1)
	require.NoError(t, err)
	assert.Zero(t, pos)

	err = ValidateReader("a.txt", 10, strings.NewReader("hello"), ImageConstraints)
	assert.ErrorContains(t, err, "invalid file extension")

	err = ValidateReader("a.png", 10, strings.NewReader("not an image"), ImageConstraints)
	assert.ErrorContains(t, err, "invalid file type")

	err = ValidateReader("a.png", 30<<20, bytes.NewReader(pngHeader), ImageConstraints)
	assert.ErrorContains(t, err, "file too large")

	small := ImageConstraints.WithMaxSize(8)
	err = ValidateReader("a.png", int64(len(pngHeader)), bytes.NewReader(pngHeader), small)
	assert.ErrorContains(t, err, "file too large")
}

func TestValidateAdminPassword(t *testing.T) {
	assert.Error(t, ValidateAdminPassword("short"))
	assert.Error(t, ValidateAdminPassword("my-gallery-is-great"))
	assert.NoError(t, ValidateAdminPassword("correct horse battery staple"))
}
