// Package ui implements the bookshelf admin screen with Bubble Tea.
//
// # Architecture
//
// Model is the root tea.Model. It owns a *state.Screen for the life of the
// program and never mutates it outside Update. Every network call runs in a
// tea.Cmd and reports back with a message:
//
//   - loadCmd       → booksLoadedMsg  (GET /api/books)
//   - submitCmd     → submitDoneMsg   (POST or PUT, then reload)
//   - deleteCmd     → deleteDoneMsg   (DELETE, then reload)
//   - coverCmd      → coverMsg        (cover bytes, decoded off the loop)
//   - readCoverCmd  → coverFileMsg    (cover file chosen in the form)
//   - readLogsCmd   → logsLoadedMsg   (tail of the application log)
//
// # Files
//
//   - app.go: Model, Update/View, messages and commands, Run
//   - grid.go: card grid layout, selection, titled boxes, cover art cache
//   - form.go: create/edit overlay built from textinput and textarea
//   - modal.go: Modal interface and the delete confirmation
//   - header.go: status bar and command bar
//   - logs.go: application log overlay
//   - help.go: key binding overlay
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Covers
//
// After every successful list load a cover request is issued for each book
// whose cover has not failed. A failed request, a non-2xx status, an empty
// cover path or undecodable bytes move that id to the fallback view for the
// rest of the session. Decoded images are kept so a theme or card width
// change only re-renders them.
//
// # Key Bindings
//
//	n          new book
//	e, enter   edit selected book
//	d          delete selected book (asks first)
//	r          reload the list
//	arrows/hjkl move the selection
//	+ / -      card width
//	T          cycle theme
//	L          application log (E toggles errors only)
//	?          help
//	q, ctrl+c  quit
//
// Inside the form: tab/shift+tab move between fields, enter on the cover
// field loads the file, ctrl+s saves and esc cancels.
package ui
