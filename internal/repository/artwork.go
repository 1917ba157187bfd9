package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/templui/folio/internal/model"
)

// AnyRevision disables the optimistic revision check on Replace.
const AnyRevision int64 = -1

var (
	ErrRevisionConflict = errors.New("records were modified by someone else")
	ErrMalformedRecords = errors.New("records file is malformed")
)

type ArtworkRepository interface {
	All(ctx context.Context) ([]model.Artwork, int64, error)
	Replace(ctx context.Context, artworks []model.Artwork, expectedRevision int64) (int64, error)
}

// envelope is the on-disk shape of the records file.
// A bare array (legacy) is read as revision 0.
type envelope struct {
	Revision int64           `json:"revision"`
	Artworks []model.Artwork `json:"artworks"`
}

type artworkRepository struct {
	path string
	yaml bool

	mu      sync.Mutex
	cache   []byte // normalized JSON envelope, nil when stale
	watcher *fsnotify.Watcher
}

// NewArtworkRepository stores records at path. The format follows the extension:
// .yaml/.yml is YAML, anything else JSON.
func NewArtworkRepository(path string) *artworkRepository {
	ext := strings.ToLower(filepath.Ext(path))
	return &artworkRepository{
		path: path,
		yaml: ext == ".yaml" || ext == ".yml",
	}
}

func (r *artworkRepository) Path() string {
	return r.path
}

func (r *artworkRepository) All(ctx context.Context) ([]model.Artwork, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	env, err := r.load(ctx)
	if err != nil {
		return nil, 0, err
	}
	return env.Artworks, env.Revision, nil
}

func (r *artworkRepository) Replace(ctx context.Context, artworks []model.Artwork, expectedRevision int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(ctx)
	if errors.Is(err, ErrMalformedRecords) {
		slog.Warn("overwriting malformed records file", "path", r.path)
		current = &envelope{}
	} else if err != nil {
		return 0, err
	}

	if expectedRevision != AnyRevision && expectedRevision != current.Revision {
		return current.Revision, fmt.Errorf("%w: expected revision %d, have %d",
			ErrRevisionConflict, expectedRevision, current.Revision)
	}

	if artworks == nil {
		artworks = []model.Artwork{}
	}
	next := envelope{Revision: current.Revision + 1, Artworks: artworks}

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode records: %w", err)
	}

	out := data
	if r.yaml {
		out, err = yaml.JSONToYAML(data)
		if err != nil {
			return 0, fmt.Errorf("failed to encode records as yaml: %w", err)
		}
	}

	err = os.MkdirAll(filepath.Dir(r.path), 0o755)
	if err != nil {
		return 0, fmt.Errorf("failed to create records directory: %w", err)
	}
	err = atomic.WriteFile(r.path, bytes.NewReader(out))
	if err != nil {
		return 0, fmt.Errorf("failed to write records: %w", err)
	}

	r.cache = data
	return next.Revision, nil
}

// load returns the current records. Callers hold r.mu.
func (r *artworkRepository) load(ctx context.Context) (*envelope, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	if r.cache == nil {
		data, err := os.ReadFile(r.path)
		if errors.Is(err, fs.ErrNotExist) {
			return &envelope{Artworks: []model.Artwork{}}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read records: %w", err)
		}

		normalized, err := r.normalize(data)
		if err != nil {
			return nil, err
		}
		r.cache = normalized
	}

	// Decode from the cached bytes so callers never share slices.
	var env envelope
	err = json.Unmarshal(r.cache, &env)
	if err != nil {
		r.cache = nil
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecords, err)
	}
	if env.Artworks == nil {
		env.Artworks = []model.Artwork{}
	}
	return &env, nil
}

// normalize converts raw file contents to a JSON envelope.
func (r *artworkRepository) normalize(data []byte) ([]byte, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []byte(`{"revision":0,"artworks":[]}`), nil
	}

	if r.yaml {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecords, err)
		}
		data = converted
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var legacy []model.Artwork
		err := json.Unmarshal(data, &legacy)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecords, err)
		}
		return json.Marshal(envelope{Artworks: legacy})
	}

	var env envelope
	err := json.Unmarshal(data, &env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecords, err)
	}
	return data, nil
}

// Watch invalidates the cache whenever the records file changes on disk,
// so hand edits are picked up without a restart. It returns once the watcher
// is registered; events are handled until ctx is done or Close is called.
func (r *artworkRepository) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(r.path)
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to create records directory: %w", err)
	}
	// Watch the directory: atomic writes replace the file, which drops a file watch.
	err = w.Add(dir)
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	r.mu.Lock()
	r.watcher = w
	r.mu.Unlock()

	target := filepath.Clean(r.path)
	go func() {
		for {
			select {
			case <-ctx.Done():
				r.Close()
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				r.invalidate()
				slog.Debug("records file changed", "path", event.Name, "op", event.Op.String())
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Error("records watcher error", "error", err)
			}
		}
	}()

	slog.Info("watching records file", "path", r.path)
	return nil
}

func (r *artworkRepository) invalidate() {
	r.mu.Lock()
	r.cache = nil
	r.mu.Unlock()
}

// Close stops the watcher, if any.
func (r *artworkRepository) Close() error {
	r.mu.Lock()
	w := r.watcher
	r.watcher = nil
	r.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Close()
}
