package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/folio/internal/model"
)

func sampleArtworks() []model.Artwork {
	width := 40
	color := "red-500"
	return []model.Artwork{
		{
			ID:       "harbour",
			Category: model.CategoryPaintings,
			Title:    "Harbour",
			ImageURL: model.ImageURLs{"/artwork/3/harbour.png"},
			Type:     model.DisplayFullScreen,
		},
		{
			ID:                  "triptych",
			Category:            model.CategoryDrawings,
			Title:               "Triptych",
			TitleLine2:          "Second study",
			ImageURL:            model.ImageURLs{"/artwork/1/triptych/a.png", "/artwork/1/triptych/b.png"},
			Type:                model.DisplaySplitScreenTextLeft,
			DescriptionPath:     "/descriptions/triptych.md",
			TextWidthPercentage: &width,
			Style:               &model.Style{TextColor: &color},
		},
	}
}

func TestArtworkRepositoryMissingFile(t *testing.T) {
	repo := NewArtworkRepository(filepath.Join(t.TempDir(), "artworks.json"))

	artworks, revision, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, artworks)
	assert.NotNil(t, artworks)
	assert.Equal(t, int64(0), revision)
}

func TestArtworkRepositoryRoundTrip(t *testing.T) {
	for _, name := range []string{"artworks.json", "artworks.yaml"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "data", name)
			repo := NewArtworkRepository(path)

			revision, err := repo.Replace(ctx, sampleArtworks(), AnyRevision)
			require.NoError(t, err)
			assert.Equal(t, int64(1), revision)

			// A fresh repository reads from disk, not from the cache.
			got, revision, err := NewArtworkRepository(path).All(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), revision)
			assert.Equal(t, sampleArtworks(), got)
		})
	}
}

func TestArtworkRepositoryRevisionConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewArtworkRepository(filepath.Join(t.TempDir(), "artworks.json"))

	revision, err := repo.Replace(ctx, sampleArtworks(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), revision)

	_, err = repo.Replace(ctx, nil, 0)
	assert.ErrorIs(t, err, ErrRevisionConflict)

	revision, err = repo.Replace(ctx, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), revision)

	got, _, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestArtworkRepositoryLegacyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artworks.json")
	legacy := `[
  {"id": "a", "category": 3, "title": "A", "imageUrl": "/artwork/3/a.png", "type": 1},
  {"id": "b", "category": 1, "title": "B", "imageUrl": ["/artwork/1/b/1.png", "/artwork/1/b/2.png"], "type": 3, "descriptionPath": "/descriptions/b.md"}
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	artworks, revision, err := NewArtworkRepository(path).All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), revision)
	require.Len(t, artworks, 2)
	assert.Equal(t, model.ImageURLs{"/artwork/3/a.png"}, artworks[0].ImageURL)
	assert.True(t, artworks[1].ImageURL.IsMulti())
	assert.Equal(t, "/descriptions/b.md", artworks[1].DescriptionPath)
}

func TestArtworkRepositoryMalformed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "artworks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	repo := NewArtworkRepository(path)
	_, _, err := repo.All(ctx)
	assert.ErrorIs(t, err, ErrMalformedRecords)

	// A write replaces the broken file.
	revision, err := repo.Replace(ctx, sampleArtworks()[:1], AnyRevision)
	require.NoError(t, err)
	assert.Equal(t, int64(1), revision)

	got, _, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestArtworkRepositoryCallersDoNotShareState(t *testing.T) {
	ctx := context.Background()
	repo := NewArtworkRepository(filepath.Join(t.TempDir(), "artworks.json"))
	_, err := repo.Replace(ctx, sampleArtworks(), AnyRevision)
	require.NoError(t, err)

	first, _, err := repo.All(ctx)
	require.NoError(t, err)
	first[0].Title = "changed"

	second, _, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Harbour", second[0].Title)
}

func TestArtworkRepositoryWatchPicksUpExternalEdits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "artworks.json")
	repo := NewArtworkRepository(path)
	_, err := repo.Replace(ctx, sampleArtworks(), AnyRevision)
	require.NoError(t, err)

	require.NoError(t, repo.Watch(ctx))
	defer repo.Close()

	require.NoError(t, os.WriteFile(path, []byte(`{"revision": 7, "artworks": []}`), 0o644))

	assert.Eventually(t, func() bool {
		_, revision, err := repo.All(ctx)
		return err == nil && revision == 7
	}, 2*time.Second, 20*time.Millisecond)
}
