package state

import (
	"errors"
	"strings"

	"github.com/five82/bookshelf/internal/catalog"
)

// User-facing error messages. Every failure of an operation surfaces as
// exactly one of these, without detail.
const (
	MsgLoadFailed   = "Failed to load books"
	MsgSaveFailed   = "Failed to save book"
	MsgDeleteFailed = "Failed to delete book"
)

var (
	// ErrInFlight is returned by BeginSubmit while a save is running.
	ErrInFlight = errors.New("submit already in flight")
	// ErrModalClosed is returned by BeginSubmit when no form is open.
	ErrModalClosed = errors.New("form is not open")
	// ErrIncomplete is returned by BeginSubmit when a required field is blank.
	ErrIncomplete = errors.New("required fields missing")
)

// Field names a text field of the book form.
type Field string

const (
	FieldTitle       Field = "title"
	FieldAuthor      Field = "author"
	FieldDescription Field = "description"
)

// RequiredFields lists the fields that must be non-blank to submit.
var RequiredFields = []Field{FieldTitle, FieldAuthor, FieldDescription}

// Form is the transient create/edit input. It holds copies of the source
// book's values, never references into the list.
type Form struct {
	Title       string
	Author      string
	Description string
	Cover       *catalog.CoverFile
}

// Value returns the current text of a field.
func (f Form) Value(name Field) string {
	switch name {
	case FieldTitle:
		return f.Title
	case FieldAuthor:
		return f.Author
	case FieldDescription:
		return f.Description
	}
	return ""
}

// Missing returns the required fields that are blank, in form order.
func (f Form) Missing() []Field {
	var out []Field
	for _, name := range RequiredFields {
		if strings.TrimSpace(f.Value(name)) == "" {
			out = append(out, name)
		}
	}
	return out
}

// Input converts the form into the multipart payload.
func (f Form) Input() catalog.BookInput {
	input := catalog.BookInput{
		Title:       f.Title,
		Author:      f.Author,
		Description: f.Description,
	}
	if f.Cover != nil {
		cover := *f.Cover
		cover.Data = append([]byte(nil), f.Cover.Data...)
		input.Cover = &cover
	}
	return input
}

// Screen is the whole state of the admin screen. It is owned by a single
// event loop and is not safe for concurrent use.
type Screen struct {
	Books         []catalog.Book
	Editing       string // id of the book being edited; empty in create mode
	Form          Form
	ModalOpen     bool
	InFlight      bool
	Err           string
	PendingDelete string // id awaiting confirmation

	formSeq      uint64 // bumped each time a form is opened
	submittedSeq uint64 // formSeq of the form whose save is in flight
	failedCovers map[string]struct{}
}

// New returns an empty screen.
func New() *Screen {
	return &Screen{failedCovers: make(map[string]struct{})}
}

// StartCreate opens an empty form in create mode.
func (s *Screen) StartCreate() {
	s.formSeq++
	s.Form = Form{}
	s.Editing = ""
	s.ModalOpen = true
	s.Err = ""
}

// StartEdit opens the form prefilled from book. The cover is never prefilled.
func (s *Screen) StartEdit(book catalog.Book) {
	s.formSeq++
	s.Form = Form{
		Title:       book.Title,
		Author:      book.Author,
		Description: book.Description,
	}
	s.Editing = book.ID
	s.ModalOpen = true
}

// CancelForm closes the modal and discards the form.
func (s *Screen) CancelForm() {
	s.ModalOpen = false
	s.Editing = ""
	s.Form = Form{}
}

// IsEditing reports whether the open form targets an existing book.
func (s *Screen) IsEditing() bool {
	return s.Editing != ""
}

// SavingOpenForm reports whether the save in flight belongs to the open form.
// A form opened after the submitted one was cancelled stays editable.
func (s *Screen) SavingOpenForm() bool {
	return s.InFlight && s.ModalOpen && s.submittedSeq == s.formSeq
}

// UpdateField assigns a text field. Unknown names are ignored.
func (s *Screen) UpdateField(name Field, value string) {
	switch name {
	case FieldTitle:
		s.Form.Title = value
	case FieldAuthor:
		s.Form.Author = value
	case FieldDescription:
		s.Form.Description = value
	}
}

// UpdateCover replaces the pending cover with the first file, if any.
func (s *Screen) UpdateCover(files []catalog.CoverFile) {
	if len(files) == 0 {
		return
	}
	first := files[0]
	s.Form.Cover = &first
}

// ClearCover drops the pending cover.
func (s *Screen) ClearCover() {
	s.Form.Cover = nil
}

// SubmitRequest is the snapshot of the form taken when a submit starts.
type SubmitRequest struct {
	ID    string // empty for create
	Input catalog.BookInput
}

// IsUpdate reports whether the request addresses an existing book.
func (r SubmitRequest) IsUpdate() bool {
	return r.ID != ""
}

// BeginSubmit marks the screen in flight and returns the request to run.
func (s *Screen) BeginSubmit() (SubmitRequest, error) {
	if s.InFlight {
		return SubmitRequest{}, ErrInFlight
	}
	if !s.ModalOpen {
		return SubmitRequest{}, ErrModalClosed
	}
	if len(s.Form.Missing()) > 0 {
		return SubmitRequest{}, ErrIncomplete
	}
	s.InFlight = true
	s.submittedSeq = s.formSeq
	return SubmitRequest{ID: s.Editing, Input: s.Form.Input()}, nil
}

// LoadResult is the outcome of reading the collection.
type LoadResult struct {
	Books []catalog.Book
	Err   error
}

// SubmitResult is the outcome of a save and, when it succeeded, the reload
// that followed it.
type SubmitResult struct {
	Request SubmitRequest
	SaveErr error
	Reload  *LoadResult
}

// DeleteResult is the outcome of a delete and, when it succeeded, the reload
// that followed it.
type DeleteResult struct {
	ID        string
	DeleteErr error
	Reload    *LoadResult
}

// ApplyLoad replaces the list on success and keeps it on failure.
func (s *Screen) ApplyLoad(r LoadResult) {
	if r.Err != nil {
		s.Err = MsgLoadFailed
		return
	}
	books := make([]catalog.Book, len(r.Books))
	copy(books, r.Books)
	s.Books = books
	s.Err = ""
}

// FinishSubmit applies a save outcome. The in-flight flag is always cleared.
// On success only the submitted form is closed; a form opened after it was
// cancelled is left alone.
func (s *Screen) FinishSubmit(r SubmitResult) {
	defer func() { s.InFlight = false }()

	if r.SaveErr != nil {
		s.Err = MsgSaveFailed
		return
	}
	if s.submittedSeq == s.formSeq {
		s.CancelForm()
	}
	if r.Reload != nil {
		s.ApplyLoad(*r.Reload)
	}
}

// RequestDelete asks for confirmation before deleting id.
func (s *Screen) RequestDelete(id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	s.PendingDelete = id
	return true
}

// ResolveDelete answers the pending confirmation. It returns the id to delete
// only when confirmed.
func (s *Screen) ResolveDelete(confirmed bool) (string, bool) {
	id := s.PendingDelete
	s.PendingDelete = ""
	if !confirmed || id == "" {
		return "", false
	}
	return id, true
}

// FinishDelete applies a delete outcome. The list is only changed by the
// reload, never by removing the row directly.
func (s *Screen) FinishDelete(r DeleteResult) {
	if r.DeleteErr != nil {
		s.Err = MsgDeleteFailed
		return
	}
	if r.Reload != nil {
		s.ApplyLoad(*r.Reload)
	}
}

// MarkCoverFailed moves a book's cover to the fallback state for the rest of
// the session.
func (s *Screen) MarkCoverFailed(id string) {
	if s.failedCovers == nil {
		s.failedCovers = make(map[string]struct{})
	}
	s.failedCovers[id] = struct{}{}
}

// CoverFailed reports whether id's cover has failed to load.
func (s *Screen) CoverFailed(id string) bool {
	_, ok := s.failedCovers[id]
	return ok
}

// FailedCovers returns the number of ids in the fallback state.
func (s *Screen) FailedCovers() int {
	return len(s.failedCovers)
}

// Card is the render input for one book.
type Card struct {
	Book     catalog.Book
	Fallback bool
}

// Cards returns one card per book in list order.
func (s *Screen) Cards() []Card {
	cards := make([]Card, 0, len(s.Books))
	for _, b := range s.Books {
		cards = append(cards, Card{Book: b, Fallback: s.CoverFailed(b.ID)})
	}
	return cards
}

// Book returns the listed book with the given id.
func (s *Screen) Book(id string) (catalog.Book, bool) {
	for _, b := range s.Books {
		if b.ID == id {
			return b, true
		}
	}
	return catalog.Book{}, false
}
