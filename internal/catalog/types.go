package catalog

import "strings"

// Book mirrors a record returned by /api/books.
type Book struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Cover       string `json:"cover"`
}

// HasCover reports whether the book references a cover image at all.
func (b Book) HasCover() bool {
	return strings.TrimSpace(b.Cover) != ""
}

// CoverFile is an image selected for upload alongside a book.
type CoverFile struct {
	Name string
	Data []byte
}

// BookInput is the multipart payload sent on create and update.
// Cover is optional; when nil no file part is sent.
type BookInput struct {
	Title       string
	Author      string
	Description string
	Cover       *CoverFile
}
