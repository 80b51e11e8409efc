package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultAPIURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultAPIURL)
	}

	u, err = parseBaseURL("example.com:1234")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:1234" {
		t.Fatalf("url = %q, want http://example.com:1234", u.String())
	}

	u, err = parseBaseURL("https://example.com/base?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestParseBaseURL_MissingHostFails(t *testing.T) {
	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL returned nil error, want missing host error")
	}
}

func TestClient_CoverURLConcatenates(t *testing.T) {
	c, err := NewClient("http://localhost:5000/", 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if got := c.CoverURL("/covers/1.jpg"); got != "http://localhost:5000/covers/1.jpg" {
		t.Fatalf("CoverURL = %q", got)
	}
	if got := c.CoverURL("covers/1.jpg"); got != "http://localhost:5000covers/1.jpg" {
		t.Fatalf("CoverURL without slash = %q, want plain concatenation", got)
	}
}

type recordedRequest struct {
	method      string
	path        string
	userAgent   string
	fields      map[string]string
	coverName   string
	coverData   string
	contentType string
}

func newRecordingServer(t *testing.T, books []Book) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var seen []recordedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			userAgent:   r.Header.Get("User-Agent"),
			contentType: r.Header.Get("Content-Type"),
		}
		if strings.HasPrefix(rec.contentType, "multipart/form-data") {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("ParseMultipartForm: %v", err)
			}
			rec.fields = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				rec.fields[k] = v[0]
			}
			if files := r.MultipartForm.File["cover"]; len(files) > 0 {
				rec.coverName = files[0].Filename
				f, err := files[0].Open()
				if err == nil {
					data, _ := io.ReadAll(f)
					rec.coverData = string(data)
					_ = f.Close()
				}
			}
		}
		mu.Lock()
		seen = append(seen, rec)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/books":
			_ = json.NewEncoder(w).Encode(books)
		case r.Method == http.MethodPost && r.URL.Path == "/api/books":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"_id":"new"}`))
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/books/"):
			_, _ = w.Write([]byte(`{}`))
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/books/"):
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet && r.URL.Path == "/covers/1.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("jpeg-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	return server, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		out := make([]recordedRequest, len(seen))
		copy(out, seen)
		return out
	}
}

func TestClient_ListBooksKeepsOrder(t *testing.T) {
	t.Parallel()

	want := []Book{
		{ID: "1", Title: "Dune", Author: "Herbert", Description: "...", Cover: "/covers/1.jpg"},
		{ID: "2", Title: "Emma", Author: "Austen"},
	}
	server, requests := newRecordingServer(t, want)

	c, err := NewClient(server.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	got, err := c.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("ListBooks = %#v, want %#v", got, want)
	}

	reqs := requests()
	if len(reqs) != 1 || !strings.HasPrefix(reqs[0].userAgent, "bookshelf/") {
		t.Fatalf("requests = %#v, want one request with bookshelf user agent", reqs)
	}
}

func TestClient_CreateSendsMultipart(t *testing.T) {
	t.Parallel()

	server, requests := newRecordingServer(t, nil)
	c, err := NewClient(server.URL, 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	err = c.CreateBook(context.Background(), BookInput{
		Title:       "Dune",
		Author:      "Herbert",
		Description: "Spice",
		Cover:       &CoverFile{Name: "/tmp/dune.jpg", Data: []byte("img")},
	})
	if err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}

	reqs := requests()
	if len(reqs) != 1 {
		t.Fatalf("got %d requests, want 1", len(reqs))
	}
	req := reqs[0]
	if req.method != http.MethodPost || req.path != "/api/books" {
		t.Fatalf("request = %s %s, want POST /api/books", req.method, req.path)
	}
	if req.fields["title"] != "Dune" || req.fields["author"] != "Herbert" || req.fields["description"] != "Spice" {
		t.Fatalf("fields = %#v", req.fields)
	}
	if req.coverName != "dune.jpg" || req.coverData != "img" {
		t.Fatalf("cover = %q/%q, want dune.jpg/img", req.coverName, req.coverData)
	}
}

func TestClient_UpdateWithoutCoverOmitsFilePart(t *testing.T) {
	t.Parallel()

	server, requests := newRecordingServer(t, nil)
	c, err := NewClient(server.URL, 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if err := c.UpdateBook(context.Background(), "42", BookInput{Title: "T", Author: "A", Description: "D"}); err != nil {
		t.Fatalf("UpdateBook returned error: %v", err)
	}
	reqs := requests()
	if len(reqs) != 1 || reqs[0].method != http.MethodPut || reqs[0].path != "/api/books/42" {
		t.Fatalf("requests = %#v, want PUT /api/books/42", reqs)
	}
	if reqs[0].coverName != "" {
		t.Fatalf("cover part sent: %q", reqs[0].coverName)
	}
	if reqs[0].fields["title"] != "T" {
		t.Fatalf("fields = %#v", reqs[0].fields)
	}
}

func TestClient_DeleteAddressesID(t *testing.T) {
	t.Parallel()

	server, requests := newRecordingServer(t, nil)
	c, err := NewClient(server.URL, 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := c.DeleteBook(context.Background(), "1"); err != nil {
		t.Fatalf("DeleteBook returned error: %v", err)
	}
	reqs := requests()
	if len(reqs) != 1 || reqs[0].method != http.MethodDelete || reqs[0].path != "/api/books/1" {
		t.Fatalf("requests = %#v, want DELETE /api/books/1", reqs)
	}
}

func TestClient_RequiresID(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := c.DeleteBook(context.Background(), "  "); err == nil {
		t.Fatalf("DeleteBook returned nil error, want error")
	}
	if err := c.UpdateBook(context.Background(), "", BookInput{}); err == nil {
		t.Fatalf("UpdateBook returned nil error, want error")
	}
}

func TestClient_FetchCover(t *testing.T) {
	t.Parallel()

	server, _ := newRecordingServer(t, nil)
	c, err := NewClient(server.URL, 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	data, err := c.FetchCover(context.Background(), "/covers/1.jpg")
	if err != nil {
		t.Fatalf("FetchCover returned error: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("FetchCover = %q", data)
	}

	if _, err := c.FetchCover(context.Background(), "/covers/missing.jpg"); err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("FetchCover missing error = %v, want status 404", err)
	}
	if _, err := c.FetchCover(context.Background(), ""); err == nil {
		t.Fatalf("FetchCover empty path returned nil error")
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.ListBooks(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("ListBooks error = %v, want decode response error", err)
	}

	err = c.CreateBook(context.Background(), BookInput{Title: "x"})
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("CreateBook error = %v, want status 500 error", err)
	}
}
