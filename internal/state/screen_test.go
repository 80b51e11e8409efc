package state

import (
	"errors"
	"reflect"
	"testing"

	"github.com/five82/bookshelf/internal/catalog"
)

func dune() catalog.Book {
	return catalog.Book{ID: "1", Title: "Dune", Author: "Herbert", Description: "...", Cover: "/covers/1.jpg"}
}

func TestScreen_StartCreateClearsFormAndError(t *testing.T) {
	s := New()
	s.Form = Form{Title: "old"}
	s.Editing = "7"
	s.Err = MsgLoadFailed

	s.StartCreate()

	if s.Form != (Form{}) {
		t.Fatalf("Form = %#v, want empty", s.Form)
	}
	if s.Editing != "" || s.IsEditing() {
		t.Fatalf("Editing = %q, want create mode", s.Editing)
	}
	if !s.ModalOpen {
		t.Fatalf("ModalOpen = false, want true")
	}
	if s.Err != "" {
		t.Fatalf("Err = %q, want empty", s.Err)
	}
}

func TestScreen_StartEditCopiesFieldsButNotCover(t *testing.T) {
	s := New()
	s.Form.Cover = &catalog.CoverFile{Name: "left-over.png"}
	b := dune()

	s.StartEdit(b)

	want := Form{Title: "Dune", Author: "Herbert", Description: "..."}
	if s.Form != want {
		t.Fatalf("Form = %#v, want %#v", s.Form, want)
	}
	if s.Editing != "1" || !s.ModalOpen {
		t.Fatalf("Editing=%q ModalOpen=%v, want 1/true", s.Editing, s.ModalOpen)
	}
}

func TestScreen_FormDoesNotFollowListChanges(t *testing.T) {
	s := New()
	s.ApplyLoad(LoadResult{Books: []catalog.Book{dune()}})
	s.StartEdit(s.Books[0])

	s.Books[0].Title = "Children of Dune"
	s.ApplyLoad(LoadResult{Books: []catalog.Book{{ID: "1", Title: "Dune Messiah"}}})

	if s.Form.Title != "Dune" {
		t.Fatalf("Form.Title = %q, want Dune", s.Form.Title)
	}
}

func TestScreen_UpdateFieldAndCover(t *testing.T) {
	s := New()
	s.StartCreate()

	s.UpdateField(FieldTitle, "Emma")
	s.UpdateField(FieldAuthor, "Austen")
	s.UpdateField(FieldDescription, "Matchmaking")
	s.UpdateField(Field("isbn"), "ignored")

	if s.Form.Title != "Emma" || s.Form.Author != "Austen" || s.Form.Description != "Matchmaking" {
		t.Fatalf("Form = %#v", s.Form)
	}

	s.UpdateCover(nil)
	if s.Form.Cover != nil {
		t.Fatalf("empty selection set cover %#v", s.Form.Cover)
	}

	s.UpdateCover([]catalog.CoverFile{{Name: "a.png", Data: []byte("a")}, {Name: "b.png"}})
	if s.Form.Cover == nil || s.Form.Cover.Name != "a.png" {
		t.Fatalf("Cover = %#v, want first file", s.Form.Cover)
	}

	s.UpdateCover([]catalog.CoverFile{{Name: "c.png"}})
	if s.Form.Cover.Name != "c.png" {
		t.Fatalf("Cover = %#v, want replacement", s.Form.Cover)
	}

	s.ClearCover()
	if s.Form.Cover != nil || s.Form.Input().Cover != nil {
		t.Fatalf("Cover = %#v after ClearCover, want nil", s.Form.Cover)
	}
}

func TestScreen_BeginSubmitGuards(t *testing.T) {
	s := New()
	if _, err := s.BeginSubmit(); !errors.Is(err, ErrModalClosed) {
		t.Fatalf("BeginSubmit closed modal err = %v, want ErrModalClosed", err)
	}

	s.StartCreate()
	s.UpdateField(FieldTitle, "Emma")
	if _, err := s.BeginSubmit(); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("BeginSubmit incomplete err = %v, want ErrIncomplete", err)
	}
	if s.InFlight {
		t.Fatalf("InFlight set by refused submit")
	}

	s.UpdateField(FieldAuthor, "Austen")
	s.UpdateField(FieldDescription, "Matchmaking")
	req, err := s.BeginSubmit()
	if err != nil {
		t.Fatalf("BeginSubmit returned error: %v", err)
	}
	if req.IsUpdate() || req.Input.Title != "Emma" {
		t.Fatalf("request = %#v, want create of Emma", req)
	}
	if !s.InFlight {
		t.Fatalf("InFlight = false after BeginSubmit")
	}

	if _, err := s.BeginSubmit(); !errors.Is(err, ErrInFlight) {
		t.Fatalf("second BeginSubmit err = %v, want ErrInFlight", err)
	}
}

func TestScreen_BeginSubmitInEditModeTargetsID(t *testing.T) {
	s := New()
	s.StartEdit(dune())
	req, err := s.BeginSubmit()
	if err != nil {
		t.Fatalf("BeginSubmit returned error: %v", err)
	}
	if !req.IsUpdate() || req.ID != "1" {
		t.Fatalf("request = %#v, want update of 1", req)
	}
}

func TestScreen_MissingReportsBlankFields(t *testing.T) {
	f := Form{Title: " ", Author: "A"}
	got := f.Missing()
	want := []Field{FieldTitle, FieldDescription}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Missing = %v, want %v", got, want)
	}
}

func TestScreen_FinishSubmitSuccessClosesAndResets(t *testing.T) {
	s := New()
	s.StartCreate()
	s.UpdateField(FieldTitle, "Emma")
	s.UpdateField(FieldAuthor, "Austen")
	s.UpdateField(FieldDescription, "d")
	req, _ := s.BeginSubmit()

	books := []catalog.Book{{ID: "9", Title: "Emma"}}
	s.FinishSubmit(SubmitResult{Request: req, Reload: &LoadResult{Books: books}})

	if s.InFlight || s.ModalOpen {
		t.Fatalf("InFlight=%v ModalOpen=%v, want both false", s.InFlight, s.ModalOpen)
	}
	if s.Form != (Form{}) {
		t.Fatalf("Form = %#v, want reset", s.Form)
	}
	if len(s.Books) != 1 || s.Books[0].ID != "9" {
		t.Fatalf("Books = %#v, want reloaded list", s.Books)
	}
}

func TestScreen_FinishSubmitLeavesLaterFormOpen(t *testing.T) {
	s := New()
	s.StartEdit(dune())
	req, _ := s.BeginSubmit()
	if !s.SavingOpenForm() {
		t.Fatalf("SavingOpenForm = false for the submitted form")
	}

	// Cancelled while saving, then a new form is opened.
	s.CancelForm()
	s.StartCreate()
	s.UpdateField(FieldTitle, "Second")
	if s.SavingOpenForm() {
		t.Fatalf("SavingOpenForm = true for a form that was never submitted")
	}

	books := []catalog.Book{{ID: "1", Title: "Dune"}, {ID: "2", Title: "Emma"}}
	s.FinishSubmit(SubmitResult{Request: req, Reload: &LoadResult{Books: books}})

	if s.InFlight {
		t.Fatalf("InFlight = true after the late result")
	}
	if !s.ModalOpen || s.IsEditing() || s.Form.Title != "Second" {
		t.Fatalf("later form discarded: open=%v editing=%q form=%#v", s.ModalOpen, s.Editing, s.Form)
	}
	if len(s.Books) != 2 {
		t.Fatalf("Books = %#v, want reload applied", s.Books)
	}

	s.UpdateField(FieldAuthor, "Austen")
	s.UpdateField(FieldDescription, "d")
	if _, err := s.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit on the later form: %v", err)
	}
	s.FinishSubmit(SubmitResult{Reload: &LoadResult{Books: books}})
	if s.ModalOpen {
		t.Fatalf("later form not closed by its own save")
	}
}

func TestScreen_FinishSubmitFailureKeepsForm(t *testing.T) {
	s := New()
	s.StartEdit(dune())
	s.UpdateField(FieldTitle, "Dune (rev)")
	req, _ := s.BeginSubmit()

	s.FinishSubmit(SubmitResult{Request: req, SaveErr: errors.New("boom")})

	if s.InFlight {
		t.Fatalf("InFlight = true after failure")
	}
	if !s.ModalOpen || s.Form.Title != "Dune (rev)" || s.Editing != "1" {
		t.Fatalf("form not retained: open=%v form=%#v editing=%q", s.ModalOpen, s.Form, s.Editing)
	}
	if s.Err != MsgSaveFailed {
		t.Fatalf("Err = %q, want %q", s.Err, MsgSaveFailed)
	}
}

func TestScreen_FinishSubmitReloadFailureKeepsListAndReports(t *testing.T) {
	s := New()
	s.ApplyLoad(LoadResult{Books: []catalog.Book{dune()}})
	s.StartEdit(dune())
	req, _ := s.BeginSubmit()
	s.FinishSubmit(SubmitResult{Request: req, Reload: &LoadResult{Err: errors.New("down")}})

	if s.ModalOpen {
		t.Fatalf("ModalOpen = true, want closed after successful save")
	}
	if s.Err != MsgLoadFailed {
		t.Fatalf("Err = %q, want %q", s.Err, MsgLoadFailed)
	}
	if len(s.Books) != 1 {
		t.Fatalf("Books = %#v, want previous list kept", s.Books)
	}
}

func TestScreen_ApplyLoad(t *testing.T) {
	s := New()
	books := []catalog.Book{dune(), {ID: "2", Title: "Emma"}}
	s.ApplyLoad(LoadResult{Books: books})

	books[0].Title = "mutated"
	if s.Books[0].Title != "Dune" {
		t.Fatalf("ApplyLoad should copy the list; got %q", s.Books[0].Title)
	}

	s.ApplyLoad(LoadResult{Err: errors.New("boom")})
	if len(s.Books) != 2 {
		t.Fatalf("Books changed on failure: %#v", s.Books)
	}
	if s.Err != MsgLoadFailed {
		t.Fatalf("Err = %q, want %q", s.Err, MsgLoadFailed)
	}

	s.ApplyLoad(LoadResult{Books: nil})
	if len(s.Books) != 0 || s.Err != "" {
		t.Fatalf("Books=%#v Err=%q, want empty list and cleared error", s.Books, s.Err)
	}
}

func TestScreen_DeleteConfirmation(t *testing.T) {
	s := New()
	if s.RequestDelete(" ") {
		t.Fatalf("RequestDelete accepted blank id")
	}
	if !s.RequestDelete("1") || s.PendingDelete != "1" {
		t.Fatalf("PendingDelete = %q, want 1", s.PendingDelete)
	}

	if id, ok := s.ResolveDelete(false); ok || id != "" {
		t.Fatalf("ResolveDelete(false) = %q, %v, want no delete", id, ok)
	}
	if s.PendingDelete != "" {
		t.Fatalf("PendingDelete = %q after decline", s.PendingDelete)
	}

	s.RequestDelete("1")
	if id, ok := s.ResolveDelete(true); !ok || id != "1" {
		t.Fatalf("ResolveDelete(true) = %q, %v, want 1", id, ok)
	}
}

func TestScreen_FinishDelete(t *testing.T) {
	s := New()
	s.ApplyLoad(LoadResult{Books: []catalog.Book{dune()}})

	s.FinishDelete(DeleteResult{ID: "1", DeleteErr: errors.New("boom")})
	if len(s.Books) != 1 || s.Err != MsgDeleteFailed {
		t.Fatalf("after failed delete Books=%#v Err=%q", s.Books, s.Err)
	}

	s.FinishDelete(DeleteResult{ID: "1", Reload: &LoadResult{Books: []catalog.Book{}}})
	if len(s.Books) != 0 {
		t.Fatalf("Books = %#v, want empty after reload", s.Books)
	}
}

func TestScreen_CoverFailuresAreSticky(t *testing.T) {
	s := New()
	s.ApplyLoad(LoadResult{Books: []catalog.Book{dune(), {ID: "2", Title: "Emma"}}})

	s.MarkCoverFailed("1")
	for i := 0; i < 3; i++ {
		cards := s.Cards()
		if !cards[0].Fallback || cards[1].Fallback {
			t.Fatalf("render %d: cards = %#v, want only id 1 in fallback", i, cards)
		}
	}

	s.ApplyLoad(LoadResult{Books: []catalog.Book{dune()}})
	if !s.Cards()[0].Fallback {
		t.Fatalf("fallback lost across reload")
	}
	if s.FailedCovers() != 1 {
		t.Fatalf("FailedCovers = %d, want 1", s.FailedCovers())
	}
}

func TestScreen_ZeroValueMarkCoverFailed(t *testing.T) {
	var s Screen
	s.MarkCoverFailed("x")
	if !s.CoverFailed("x") {
		t.Fatalf("CoverFailed(x) = false on zero-value Screen")
	}
}

func TestScreen_CardsKeepOrder(t *testing.T) {
	s := New()
	books := []catalog.Book{{ID: "b"}, {ID: "a"}, {ID: "c"}}
	s.ApplyLoad(LoadResult{Books: books})
	cards := s.Cards()
	for i, c := range cards {
		if c.Book.ID != books[i].ID {
			t.Fatalf("card %d = %q, want %q", i, c.Book.ID, books[i].ID)
		}
	}
	if b, ok := s.Book("a"); !ok || b.ID != "a" {
		t.Fatalf("Book(a) = %#v, %v", b, ok)
	}
}
