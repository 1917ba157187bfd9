// Package client talks to the folio file API. Manager mirrors the server
// operations and never returns errors: failures are logged and turned into
// empty results. Editor builds the create, edit and delete flows on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/templui/folio/internal/model"
)

const (
	revisionHeader = "X-Records-Revision"
	artworkPath    = "/api/artwork"
	loginPath      = "/api/admin/login"

	DefaultTimeout = 30 * time.Second
)

// Image is one file to upload.
type Image struct {
	Filename string
	Body     io.Reader
}

type Manager struct {
	baseURL    string
	httpClient *http.Client

	mu       sync.Mutex
	token    string
	revision int64
	known    bool
}

func NewManager(baseURL string, httpClient *http.Client) *Manager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Manager{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetToken sets the bearer token sent with every request.
func (m *Manager) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Revision returns the last list revision seen and whether one is known. A
// failed List forgets the revision.
func (m *Manager) Revision() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revision, m.known
}

func (m *Manager) forgetRevision() {
	m.mu.Lock()
	m.revision, m.known = 0, false
	m.mu.Unlock()
}

func (m *Manager) rememberRevision(resp *http.Response) {
	v := resp.Header.Get(revisionHeader)
	if v == "" {
		return
	}
	rev, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return
	}
	m.mu.Lock()
	m.revision, m.known = rev, true
	m.mu.Unlock()
}

// Login exchanges the admin password for a bearer token.
func (m *Manager) Login(ctx context.Context, password string) bool {
	var out struct {
		Token string `json:"token"`
	}
	err := m.postForm(ctx, loginPath, url.Values{"password": {password}}, &out)
	if err != nil {
		slog.Error("admin login failed", "error", err)
		return false
	}
	if out.Token == "" {
		slog.Error("admin login returned no token")
		return false
	}
	m.SetToken(out.Token)
	return true
}

// List returns every record, or an empty slice when anything goes wrong.
// Revision reports whether the last List actually reached the server.
func (m *Manager) List(ctx context.Context) []model.Artwork {
	m.forgetRevision()
	artworks := []model.Artwork{}
	err := m.get(ctx, url.Values{"operation": {"read"}}, &artworks)
	if err != nil {
		slog.Error("failed to load artworks", "error", err)
		return []model.Artwork{}
	}
	return artworks
}

// ReplaceAll writes the full record list. The last revision seen by List is
// sent along, so a concurrent change on the server makes the write fail.
func (m *Manager) ReplaceAll(ctx context.Context, artworks []model.Artwork) bool {
	if artworks == nil {
		artworks = []model.Artwork{}
	}
	data, err := json.Marshal(artworks)
	if err != nil {
		slog.Error("failed to encode artworks", "error", err)
		return false
	}

	form := url.Values{"artworks": {string(data)}}
	if rev, ok := m.Revision(); ok {
		form.Set("revision", strconv.FormatInt(rev, 10))
	}

	err = m.postForm(ctx, operationPath("write"), form, nil)
	if err != nil {
		slog.Error("failed to save artworks", "count", len(artworks), "error", err)
		return false
	}
	return true
}

// SaveImage uploads one image into the category folder and returns its public path.
func (m *Manager) SaveImage(ctx context.Context, image Image, category model.Category) string {
	paths := m.SaveImages(ctx, []Image{image}, category, "")
	if len(paths) == 0 {
		return ""
	}
	return paths[0]
}

// SaveImages uploads images in order. A non-empty groupTitle stores them in a
// folder of their own under the category.
func (m *Manager) SaveImages(ctx context.Context, images []Image, category model.Category, groupTitle string) []string {
	if len(images) == 0 {
		return nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("category", category.Dir())
	if groupTitle != "" {
		_ = mw.WriteField("title", groupTitle)
	}
	for _, image := range images {
		part, err := mw.CreateFormFile("file", image.Filename)
		if err == nil {
			_, err = io.Copy(part, image.Body)
		}
		if err != nil {
			slog.Error("failed to encode image", "filename", image.Filename, "error", err)
			return nil
		}
	}
	err := mw.Close()
	if err != nil {
		slog.Error("failed to encode upload", "error", err)
		return nil
	}

	var out struct {
		Paths []string `json:"paths"`
	}
	err = m.post(ctx, operationPath("upload-image"), &body, mw.FormDataContentType(), &out)
	if err != nil {
		slog.Error("failed to upload images", "category", category, "count", len(images), "error", err)
		return nil
	}
	return out.Paths
}

// SaveDescription writes the Markdown under a name derived from title and
// returns its public path. Saving the same title again overwrites the file.
func (m *Manager) SaveDescription(ctx context.Context, title, markdown string) string {
	var out struct {
		Path string `json:"path"`
	}
	err := m.postForm(ctx, operationPath("save-description"), url.Values{
		"title":   {title},
		"content": {markdown},
	}, &out)
	if err != nil {
		slog.Error("failed to save description", "title", title, "error", err)
		return ""
	}
	return out.Path
}

// ReadDescription returns the Markdown at path, or "" on failure.
func (m *Manager) ReadDescription(ctx context.Context, path string) string {
	var out struct {
		Content string `json:"content"`
	}
	err := m.get(ctx, url.Values{"operation": {"read-description"}, "path": {path}}, &out)
	if err != nil {
		slog.Warn("failed to read description", "path", path, "error", err)
		return ""
	}
	return out.Content
}

// DeleteArtworkFiles removes every image and the description of a record.
// Files that are already gone do not count as failures.
func (m *Manager) DeleteArtworkFiles(ctx context.Context, artwork model.Artwork) bool {
	if len(artwork.ImageURL) == 0 && artwork.DescriptionPath == "" {
		return true
	}

	form := url.Values{"imageUrl": artwork.ImageURL}
	if artwork.DescriptionPath != "" {
		form.Set("descriptionPath", artwork.DescriptionPath)
	}

	var out struct {
		Deleted int `json:"deleted"`
	}
	err := m.postForm(ctx, operationPath("delete-files"), form, &out)
	if err != nil {
		slog.Error("failed to delete artwork files", "id", artwork.ID, "error", err)
		return false
	}
	slog.Debug("artwork files deleted", "id", artwork.ID, "deleted", out.Deleted)
	return true
}

func operationPath(op string) string {
	return artworkPath + "?operation=" + op
}

func (m *Manager) get(ctx context.Context, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+artworkPath+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	return m.do(req, out)
}

func (m *Manager) postForm(ctx context.Context, path string, form url.Values, out any) error {
	return m.post(ctx, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

func (m *Manager) post(ctx context.Context, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return m.do(req, out)
}

func (m *Manager) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if token := m.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &StatusError{Code: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		err = json.NewDecoder(resp.Body).Decode(out)
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	m.rememberRevision(resp)
	return nil
}

// StatusError is a non-200 answer from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}
