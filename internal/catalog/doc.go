// Package catalog provides an HTTP client for the books REST API.
//
// # Overview
//
// The admin screen manages a small catalog of books kept by a REST backend.
// This package owns the wire format (Book, BookInput, CoverFile) and the
// Client that speaks to the backend. It knows nothing about the screen.
//
// # API Endpoints
//
//   - GET /api/books: full collection as a JSON array
//   - POST /api/books: multipart create (title, author, description, cover)
//   - PUT /api/books/{id}: multipart update, same shape
//   - DELETE /api/books/{id}: remove a book
//   - GET <origin><cover>: cover image bytes
//
// Response bodies of the mutating endpoints are drained and ignored; only
// success or failure matters to the caller.
//
// # Client Usage
//
//	client, err := catalog.NewClient("http://localhost:5000", 0)
//	if err != nil {
//		return err
//	}
//	books, err := client.ListBooks(ctx)
//
// # Cover URLs
//
// Cover links are built by concatenating the API origin with the book's cover
// path ("/covers/1.jpg" becomes "http://localhost:5000/covers/1.jpg"). The
// path is not resolved as a relative reference, so absolute URLs stored in
// the cover field produce an unusable link and the screen falls back to its
// placeholder.
//
// # Error Handling
//
// Errors are wrapped with the stage that failed:
//
//   - "execute request: dial tcp: connection refused"
//   - "api DELETE /api/books/1 returned status 404"
//   - "decode response: unexpected EOF"
//
// Callers fold these into their own user-facing messages.
//
// # Testing Considerations
//
// Use httptest.Server to stand in for the backend. BookAPI exists so screen
// logic can be tested with an in-memory fake.
package catalog
