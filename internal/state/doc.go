// Package state holds the admin screen's state and the operations that change it.
//
// # Overview
//
// Screen is the single owner of everything the admin screen shows: the book
// list, the open form, modal visibility, the in-flight flag, the last error
// message, the pending delete confirmation and the set of ids whose cover
// failed to load. The UI keeps one Screen for its lifetime and never shares
// it across goroutines.
//
// # Two Halves
//
// The package is split into pure transitions and blocking operations:
//
//	Transitions (screen.go)          Operations (ops.go)
//	┌─────────────────────────┐      ┌──────────────────────────┐
//	│ StartCreate / StartEdit │      │ Load(ctx, api)           │
//	│ UpdateField / Cover     │      │ Submit(ctx, api, req)    │
//	│ BeginSubmit ────────────┼─────→│   save, then reload      │
//	│ FinishSubmit ←──────────┼──────│ Delete(ctx, api, id)     │
//	│ RequestDelete / Resolve │      │   delete, then reload    │
//	│ FinishDelete / ApplyLoad│      └──────────────────────────┘
//	│ MarkCoverFailed         │
//	└─────────────────────────┘
//
// Operations never touch a Screen. They run inside Bubble Tea commands and
// return result values that the event loop applies with the Finish/Apply
// methods. This keeps all mutation on the event loop without locks.
//
// # Update Semantics
//
//	// Load success: list replaced wholesale, in returned order
//	screen.ApplyLoad(LoadResult{Books: books})
//
//	// Load failure: list kept, static message recorded
//	screen.ApplyLoad(LoadResult{Err: err})
//	→ screen.Err = "Failed to load books"
//
// Saves and deletes never patch the list themselves. A successful save or
// delete is followed by a full reload inside the same operation, and only
// that reload changes Books.
//
// # Cover Failures
//
// MarkCoverFailed is append-only. Once an id is marked it stays marked for
// the life of the Screen, including across reloads that return the same id.
//
// # Error Messages
//
// Failures surface as exactly one of MsgLoadFailed, MsgSaveFailed or
// MsgDeleteFailed. The wrapped cause is logged with slog by the operation and
// never shown.
package state
