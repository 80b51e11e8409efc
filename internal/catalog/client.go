package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// BookAPI defines the operations the admin screen needs from the backend.
// It is implemented by *Client and faked in tests.
type BookAPI interface {
	ListBooks(ctx context.Context) ([]Book, error)
	CreateBook(ctx context.Context, input BookInput) error
	UpdateBook(ctx context.Context, id string, input BookInput) error
	DeleteBook(ctx context.Context, id string) error
	FetchCover(ctx context.Context, coverPath string) ([]byte, error)
}

// Ensure Client implements BookAPI at compile time.
var _ BookAPI = (*Client)(nil)

// Client talks to the books REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL    = "http://localhost:5000"
	defaultUserAgent = "bookshelf/0.1"
	defaultTimeout   = 10 * time.Second
	booksPath        = "/api/books"
	maxCoverBytes    = 16 << 20
)

// NewClient builds a Client for the API rooted at apiURL. A zero timeout uses
// the default.
func NewClient(apiURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the API origin as a string without a trailing slash.
func (c *Client) BaseURL() string {
	return strings.TrimSuffix(c.baseURL.String(), "/")
}

// CoverURL joins the API origin and a book's cover path by plain
// concatenation, the way the backend publishes cover links.
func (c *Client) CoverURL(coverPath string) string {
	return c.BaseURL() + coverPath
}

// ListBooks retrieves the full collection.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var books []Book
	if err := c.do(ctx, http.MethodGet, booksPath, nil, "", &books); err != nil {
		return nil, err
	}
	return books, nil
}

// CreateBook posts a new book.
func (c *Client) CreateBook(ctx context.Context, input BookInput) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body, contentType, err := encodeBookInput(input)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, booksPath, body, contentType, nil)
}

// UpdateBook replaces the fields of the book with the given id. A nil cover
// leaves the stored cover to the backend.
func (c *Client) UpdateBook(ctx context.Context, id string, input BookInput) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	path, err := bookPath(id)
	if err != nil {
		return err
	}
	body, contentType, err := encodeBookInput(input)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, body, contentType, nil)
}

// DeleteBook removes the book with the given id.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	path, err := bookPath(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

// FetchCover downloads the raw bytes behind a book's cover path.
func (c *Client) FetchCover(ctx context.Context, coverPath string) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(coverPath) == "" {
		return nil, fmt.Errorf("cover path is empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CoverURL(coverPath), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cover %s returned status %d", coverPath, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	if len(data) > maxCoverBytes {
		return nil, fmt.Errorf("cover %s exceeds %d bytes", coverPath, maxCoverBytes)
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s %s returned status %d", method, rel.Path, resp.StatusCode)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func encodeBookInput(input BookInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"title", input.Title},
		{"author", input.Author},
		{"description", input.Description},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	if input.Cover != nil {
		name := filepath.Base(strings.TrimSpace(input.Cover.Name))
		if name == "" || name == "." || name == string(filepath.Separator) {
			name = "cover"
		}
		part, err := w.CreateFormFile("cover", name)
		if err != nil {
			return nil, "", fmt.Errorf("create cover part: %w", err)
		}
		if _, err := part.Write(input.Cover.Data); err != nil {
			return nil, "", fmt.Errorf("write cover part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func bookPath(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", fmt.Errorf("book id required")
	}
	return booksPath + "/" + trimmed, nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
