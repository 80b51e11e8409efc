package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/five82/bookshelf/internal/catalog"
)

// maxUploadBytes bounds a multipart request body.
const maxUploadBytes = 32 << 20

// Server serves the books API and the stored cover files.
type Server struct {
	store     *Store
	coversDir string
	router    chi.Router
}

// NewServer builds the router. Cover files are kept in coversDir.
func NewServer(store *Store, coversDir string) (*Server, error) {
	if err := os.MkdirAll(coversDir, 0o755); err != nil {
		return nil, fmt.Errorf("create covers dir: %w", err)
	}
	s := &Server{store: store, coversDir: coversDir}
	s.routes()
	return s, nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("write healthcheck", "error", err)
		}
	})
	r.Route("/api/books", func(r chi.Router) {
		r.Get("/", s.listBooks)
		r.Post("/", s.createBook)
		r.Put("/{id}", s.updateBook)
		r.Delete("/{id}", s.deleteBook)
	})
	r.Handle("/covers/*", http.StripPrefix("/covers/", http.FileServer(http.Dir(s.coversDir))))

	s.router = r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list books", err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	form, err := parseBookForm(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create book", err)
		return
	}
	book := catalog.Book{
		ID:          id.String(),
		Title:       form.title,
		Author:      form.author,
		Description: form.description,
	}
	if form.cover != nil {
		if book.Cover, err = s.saveCover(book.ID, form.cover); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to store cover", err)
			return
		}
	}
	if err := s.store.Insert(r.Context(), book); err != nil {
		s.removeCover(book.Cover)
		writeError(w, http.StatusInternalServerError, "Failed to create book", err)
		return
	}
	slog.Info("book created", "id", book.ID, "title", book.Title)
	writeJSON(w, http.StatusCreated, book)
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := s.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "Book not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update book", err)
		return
	}

	form, err := parseBookForm(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	book := existing
	book.Title = form.title
	book.Author = form.author
	book.Description = form.description
	if form.cover != nil {
		if book.Cover, err = s.saveCover(id, form.cover); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to store cover", err)
			return
		}
	}
	if err := s.store.Update(r.Context(), book); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update book", err)
		return
	}
	if book.Cover != existing.Cover {
		s.removeCover(existing.Cover)
	}
	slog.Info("book updated", "id", id, "cover_replaced", form.cover != nil)
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := s.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "Book not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete book", err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete book", err)
		return
	}
	s.removeCover(existing.Cover)
	slog.Info("book deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted"})
}

type bookForm struct {
	title       string
	author      string
	description string
	cover       *catalog.CoverFile
}

// parseBookForm reads the multipart fields. All three text fields are
// required; the cover part is optional.
func parseBookForm(w http.ResponseWriter, r *http.Request) (bookForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return bookForm{}, fmt.Errorf("invalid form: %w", err)
	}

	form := bookForm{
		title:       strings.TrimSpace(r.FormValue("title")),
		author:      strings.TrimSpace(r.FormValue("author")),
		description: strings.TrimSpace(r.FormValue("description")),
	}
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"title", form.title}, {"author", form.author}, {"description", form.description},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return bookForm{}, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	file, header, err := r.FormFile("cover")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil
	}
	if err != nil {
		return bookForm{}, fmt.Errorf("invalid cover: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return bookForm{}, fmt.Errorf("read cover: %w", err)
	}
	if len(data) == 0 {
		return bookForm{}, errors.New("cover file is empty")
	}
	form.cover = &catalog.CoverFile{Name: header.Filename, Data: data}
	return form, nil
}

// saveCover writes the cover as <id><ext> and returns its public path.
func (s *Server) saveCover(id string, file *catalog.CoverFile) (string, error) {
	name := id + coverExt(file)
	if err := os.WriteFile(filepath.Join(s.coversDir, name), file.Data, 0o644); err != nil {
		return "", err
	}
	return "/covers/" + name, nil
}

func (s *Server) removeCover(coverPath string) {
	name, ok := strings.CutPrefix(coverPath, "/covers/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return
	}
	if err := os.Remove(filepath.Join(s.coversDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("remove cover", "file", name, "error", err)
	}
}

// coverExt keeps the uploaded extension, or sniffs one from the content.
func coverExt(file *catalog.CoverFile) string {
	if ext := strings.ToLower(filepath.Ext(file.Name)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(http.DetectContentType(file.Data)); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		slog.Error(message, "error", err)
	} else {
		slog.Warn(message, "status", status)
	}
	writeJSON(w, status, map[string]string{"error": message})
}
