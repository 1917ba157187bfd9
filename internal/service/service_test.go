package service

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/folio/internal/markdown"
	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/repository"
	"github.com/templui/folio/internal/storage"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func png(name string) Upload {
	return Upload{Filename: name, Size: int64(len(pngBytes)), Body: bytes.NewReader(pngBytes)}
}

func newTestServices(t *testing.T) (*ArtworkService, *GalleryService, *storage.LocalStorage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(filepath.Join(dir, "public"))
	require.NoError(t, err)
	repo := repository.NewArtworkRepository(filepath.Join(dir, "data", "artworks.json"))
	artworks := NewArtworkService(repo, store, 0)
	return artworks, NewGalleryService(artworks, markdown.NewParser()), store
}

func exists(t *testing.T, s storage.Storage, p string) bool {
	t.Helper()
	rc, err := s.Open(context.Background(), p)
	if err != nil {
		require.ErrorIs(t, err, storage.ErrNotFound)
		return false
	}
	rc.Close()
	return true
}

func TestUploadSingleImage(t *testing.T) {
	svc, _, store := newTestServices(t)

	paths, err := svc.UploadImages(context.Background(), model.CategoryPaintings, "", []Upload{png("a.png")})
	require.NoError(t, err)
	assert.Equal(t, []string{"/artwork/3/a.png"}, paths)
	assert.True(t, exists(t, store, "/artwork/3/a.png"))
}

func TestUploadGroupedImages(t *testing.T) {
	svc, _, _ := newTestServices(t)

	paths, err := svc.UploadImages(context.Background(), model.CategoryDrawings, "Blue Period", []Upload{
		png("one.png"), png("two.png"), png("three.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/artwork/1/blue-period/one.png",
		"/artwork/1/blue-period/two.png",
		"/artwork/1/blue-period/three.png",
	}, paths)
}

func TestUploadRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.UploadImages(ctx, model.Category(9), "", []Upload{png("a.png")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UploadImages(ctx, model.CategoryVideo, "", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	text := Upload{Filename: "a.png", Size: 5, Body: strings.NewReader("hello")}
	_, err = svc.UploadImages(ctx, model.CategoryVideo, "", []Upload{text})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUploadAcceptsNonSeekableBody(t *testing.T) {
	svc, _, store := newTestServices(t)

	body := io.MultiReader(bytes.NewReader(pngBytes))
	paths, err := svc.UploadImages(context.Background(), model.CategoryVideo, "", []Upload{
		{Filename: "clip.png", Size: -1, Body: body},
	})
	require.NoError(t, err)

	rc, err := store.Open(context.Background(), paths[0])
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestSaveDescriptionIsIdempotent(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()

	first, err := svc.SaveDescription(ctx, "Blue Period", "# Blue")
	require.NoError(t, err)
	second, err := svc.SaveDescription(ctx, "Blue Period", "# Blue")
	require.NoError(t, err)
	assert.Equal(t, "/descriptions/blue-period.md", first)
	assert.Equal(t, first, second)

	content, err := svc.ReadDescription(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "# Blue", content)
}

func TestReadDescriptionContainment(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.ReadDescription(ctx, "/descriptions/../../etc/passwd")
	assert.ErrorIs(t, err, ErrPathOutsideRoot)

	_, err = svc.ReadDescription(ctx, "/artwork/3/a.png")
	assert.ErrorIs(t, err, ErrPathOutsideRoot)

	_, err = svc.ReadDescription(ctx, "/descriptions/missing.md")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDeleteFiles(t *testing.T) {
	svc, _, store := newTestServices(t)
	ctx := context.Background()

	images, err := svc.UploadImages(ctx, model.CategoryDrawings, "Set", []Upload{png("1.png"), png("2.png")})
	require.NoError(t, err)
	desc, err := svc.SaveDescription(ctx, "Set", "text")
	require.NoError(t, err)

	deleted, err := svc.DeleteFiles(ctx, images, desc)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	for _, p := range append(images, desc) {
		assert.False(t, exists(t, store, p), p)
	}
	_, err = store.Open(ctx, "/artwork/1/set")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Repeating the delete is safe.
	deleted, err = svc.DeleteFiles(ctx, images, desc)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func TestDeleteFilesRejectsEscapes(t *testing.T) {
	svc, _, _ := newTestServices(t)

	_, err := svc.DeleteFiles(context.Background(), []string{"/artwork/../data/artworks.json"}, "")
	assert.ErrorIs(t, err, ErrPathOutsideRoot)

	_, err = svc.DeleteFiles(context.Background(), nil, "/other/file.md")
	assert.ErrorIs(t, err, ErrPathOutsideRoot)
}

func TestReplaceValidatesAndRoundTrips(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()

	records := []model.Artwork{{
		ID:       "a",
		Category: model.CategoryPaintings,
		Title:    "Test",
		ImageURL: model.ImageURLs{"/artwork/3/a.png"},
		Type:     model.DisplayFullScreen,
	}}

	revision, err := svc.Replace(ctx, records, repository.AnyRevision)
	require.NoError(t, err)

	got, gotRevision, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, got)
	assert.Equal(t, revision, gotRevision)

	_, err = svc.Replace(ctx, append(records, records[0]), repository.AnyRevision)
	assert.ErrorIs(t, err, ErrInvalidRecords)

	_, err = svc.Replace(ctx, records, revision+5)
	assert.ErrorIs(t, err, repository.ErrRevisionConflict)
}

func galleryFixture() []model.Artwork {
	width := 30
	return []model.Artwork{
		{ID: "p1", Category: model.CategoryPaintings, Title: "P1", ImageURL: model.ImageURLs{"/artwork/3/p1.png"}, Type: model.DisplayFullScreen},
		{ID: "d1", Category: model.CategoryDrawings, Title: "D1", ImageURL: model.ImageURLs{"/artwork/1/d1.png"}, Type: model.DisplayFullScreen},
		{ID: "p2", Category: model.CategoryPaintings, Title: "P2", ImageURL: model.ImageURLs{"/artwork/3/p2.png"},
			Type: model.DisplaySplitScreenTextLeft, TextWidthPercentage: &width, DescriptionPath: "/descriptions/p2.md"},
	}
}

func TestFilter(t *testing.T) {
	artworks := galleryFixture()

	assert.Equal(t, artworks, Filter(artworks, 0))
	for _, c := range model.Categories {
		for _, a := range Filter(artworks, c) {
			assert.Equal(t, c, a.Category)
		}
	}
	assert.Len(t, Filter(artworks, model.CategoryPaintings), 2)
	assert.Empty(t, Filter(artworks, model.CategoryVideo))

	counts := Categories(artworks)
	require.Len(t, counts, 4)
	assert.Equal(t, CategoryCount{ID: model.CategoryPaintings, Name: "paintings", Count: 2}, counts[2])
}

func TestGalleryView(t *testing.T) {
	svc, gallery, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Replace(ctx, galleryFixture(), repository.AnyRevision)
	require.NoError(t, err)
	_, err = svc.SaveDescription(ctx, "p2", "Oil on **linen**.")
	require.NoError(t, err)

	view, err := gallery.View(ctx, model.CategoryPaintings, 1)
	require.NoError(t, err)
	assert.Equal(t, "p2", view.Artwork.ID)
	assert.Equal(t, 2, view.Total)
	assert.True(t, view.HasPrev)
	assert.False(t, view.HasNext)
	assert.Equal(t, 0, view.Prev)
	assert.Equal(t, 0, view.Next)
	assert.Equal(t, 30, view.TextWidth)
	assert.Equal(t, 70, view.ImageWidth)
	assert.Contains(t, view.DescriptionHTML, "<strong>linen</strong>")
	assert.Equal(t, model.PlacementTopLeft, view.Style.TextPlacement)

	first, err := gallery.View(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Prev)
	assert.Empty(t, first.DescriptionHTML)

	_, err = gallery.View(ctx, model.CategoryVideo, 0)
	assert.ErrorIs(t, err, ErrArtworkNotFound)
}

func TestGalleryViewMissingDescriptionFailsSoft(t *testing.T) {
	svc, gallery, _ := newTestServices(t)
	ctx := context.Background()
	_, err := svc.Replace(ctx, galleryFixture(), repository.AnyRevision)
	require.NoError(t, err)

	view, err := gallery.View(ctx, model.CategoryPaintings, 1)
	require.NoError(t, err)
	assert.Empty(t, view.DescriptionHTML)
}

func TestAuthServicePlainSecret(t *testing.T) {
	auth := NewAuthService("", "correct horse battery", "secret", time.Hour, false)

	_, _, err := auth.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, expiry, err := auth.Login("correct horse battery")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)

	_, err = auth.VerifyJWT(token)
	assert.NoError(t, err)

	other := NewAuthService("", "x", "another-secret", time.Hour, false)
	_, err = other.VerifyJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthServiceHash(t *testing.T) {
	hash, err := HashPassword("a long admin secret")
	require.NoError(t, err)
	auth := NewAuthService(hash, "", "secret", time.Hour, true)

	assert.NoError(t, auth.ComparePassword("a long admin secret"))
	assert.Error(t, auth.ComparePassword("a long admin secreT"))
	assert.Error(t, auth.ComparePassword(""))
}

func TestAuthServiceExpiredToken(t *testing.T) {
	auth := NewAuthService("", "pw", "secret", time.Hour, false)
	token, err := auth.GenerateJWT(time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = auth.VerifyJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
