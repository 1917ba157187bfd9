package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/repository"
	"github.com/templui/folio/internal/slug"
	"github.com/templui/folio/internal/storage"
	"github.com/templui/folio/internal/validation"
)

const (
	artworkRoot     = "artwork"
	descriptionRoot = "descriptions"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidRecords  = errors.New("invalid artwork records")
	ErrPathOutsideRoot = errors.New("path is outside the artwork and description folders")
	ErrFileNotFound    = errors.New("file not found")
)

// Upload is one image blob received from the editor.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type ArtworkService struct {
	artworkRepository repository.ArtworkRepository
	storage           storage.Storage
	constraints       validation.FileConstraints
}

func NewArtworkService(artworkRepository repository.ArtworkRepository, storage storage.Storage, maxUploadSize int64) *ArtworkService {
	return &ArtworkService{
		artworkRepository: artworkRepository,
		storage:           storage,
		constraints:       validation.ImageConstraints.WithMaxSize(maxUploadSize),
	}
}

// List returns every record and the current list revision.
func (s *ArtworkService) List(ctx context.Context) ([]model.Artwork, int64, error) {
	return s.artworkRepository.All(ctx)
}

// Replace validates and persists the full record list. expectedRevision may be
// repository.AnyRevision to skip the concurrency check.
func (s *ArtworkService) Replace(ctx context.Context, artworks []model.Artwork, expectedRevision int64) (int64, error) {
	err := validation.ValidateArtworks(artworks)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRecords, err)
	}

	revision, err := s.artworkRepository.Replace(ctx, artworks, expectedRevision)
	if err != nil {
		return 0, fmt.Errorf("failed to write records: %w", err)
	}

	slog.Info("artwork records replaced", "count", len(artworks), "revision", revision)
	return revision, nil
}

// UploadImages stores the uploads under the category folder, or under a folder
// named after groupTitle when one is given, and returns their public paths in order.
// Existing files with the same name are overwritten.
func (s *ArtworkService) UploadImages(ctx context.Context, category model.Category, groupTitle string, uploads []Upload) ([]string, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %d", ErrInvalidInput, category)
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no file provided", ErrInvalidInput)
	}

	dir := path.Join(artworkRoot, category.Dir())
	if strings.TrimSpace(groupTitle) != "" {
		group := slug.Title(groupTitle)
		if group == "" {
			return nil, fmt.Errorf("%w: invalid group title %q", ErrInvalidInput, groupTitle)
		}
		dir = path.Join(dir, group)
	}

	keys := make([]string, 0, len(uploads))
	for i, u := range uploads {
		filename := path.Base(strings.ReplaceAll(strings.TrimSpace(u.Filename), `\`, "/"))
		if filename == "" || filename == "." || filename == "/" {
			return nil, fmt.Errorf("%w: missing filename", ErrInvalidInput)
		}

		// Sniffing consumes the head of the body; it must be rewindable.
		if _, ok := u.Body.(io.Seeker); !ok {
			data, err := io.ReadAll(io.LimitReader(u.Body, s.constraints.MaxSize+1))
			if err != nil {
				return nil, fmt.Errorf("failed to read upload: %w", err)
			}
			uploads[i].Body = bytes.NewReader(data)
			uploads[i].Size = int64(len(data))
			u = uploads[i]
		}

		err := validation.ValidateReader(filename, u.Size, u.Body, s.constraints)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidInput, filename, err)
		}
		keys = append(keys, path.Join(dir, filename))
	}

	paths := make([]string, 0, len(uploads))
	for i, u := range uploads {
		err := s.storage.Save(ctx, keys[i], u.Body)
		if err != nil {
			return paths, fmt.Errorf("failed to save image: %w", err)
		}
		paths = append(paths, storage.PublicPath(keys[i]))
	}

	slog.Info("images uploaded", "category", category.String(), "count", len(paths), "dir", dir)
	return paths, nil
}

// SaveDescription writes content to /descriptions/<slug(title)>.md, overwriting
// any previous file for the same title.
func (s *ArtworkService) SaveDescription(ctx context.Context, title, content string) (string, error) {
	if strings.TrimSpace(title) == "" || content == "" {
		return "", fmt.Errorf("%w: missing title or content", ErrInvalidInput)
	}

	filename := slug.DescriptionFilename(title)
	if filename == "" {
		return "", fmt.Errorf("%w: invalid title %q", ErrInvalidInput, title)
	}

	key := path.Join(descriptionRoot, filename)
	err := s.storage.Save(ctx, key, strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to save description: %w", err)
	}

	return storage.PublicPath(key), nil
}

// ReadDescription returns the raw Markdown stored at a /descriptions/ path.
func (s *ArtworkService) ReadDescription(ctx context.Context, p string) (string, error) {
	key, err := containedKey(p)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(key, descriptionRoot+"/") {
		return "", fmt.Errorf("%w: %q", ErrPathOutsideRoot, p)
	}

	rc, err := s.storage.Open(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, p)
	}
	if err != nil {
		return "", fmt.Errorf("failed to open description: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read description: %w", err)
	}
	return string(data), nil
}

// DeleteFiles removes the given images and description, best effort. Missing
// files are skipped. Group folders left empty are removed. It returns the number
// of files actually deleted. Paths outside the asset roots reject the whole call.
func (s *ArtworkService) DeleteFiles(ctx context.Context, imagePaths []string, descriptionPath string) (int, error) {
	var keys []string
	for _, p := range imagePaths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		key, err := containedKey(p)
		if err != nil {
			return 0, err
		}
		keys = append(keys, key)
	}
	if strings.TrimSpace(descriptionPath) != "" {
		key, err := containedKey(descriptionPath)
		if err != nil {
			return 0, err
		}
		keys = append(keys, key)
	}

	deleted := 0
	groups := map[string]bool{}
	for _, key := range keys {
		err := s.storage.Delete(ctx, key)
		if errors.Is(err, storage.ErrNotFound) {
			slog.Debug("file already gone", "path", key)
		} else if err != nil {
			slog.Error("failed to delete file from storage", "error", err, "path", key)
			continue
		} else {
			deleted++
		}

		// artwork/<category>/<group>/<file>
		if strings.HasPrefix(key, artworkRoot+"/") && strings.Count(key, "/") == 3 {
			groups[path.Dir(key)] = true
		}
	}

	for dir := range groups {
		err := s.storage.DeleteDir(ctx, dir)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Debug("group folder kept", "error", err, "path", dir)
		}
	}

	return deleted, nil
}

// containedKey cleans a public path and checks that it stays under an asset root.
func containedKey(p string) (string, error) {
	key, err := storage.CleanKey(p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPathOutsideRoot, err)
	}
	if !strings.HasPrefix(key, artworkRoot+"/") && !strings.HasPrefix(key, descriptionRoot+"/") {
		return "", fmt.Errorf("%w: %q", ErrPathOutsideRoot, p)
	}
	return key, nil
}
