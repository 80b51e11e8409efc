// Package app is the composition root for bookshelf.
//
// Run loads configuration (file, then environment, then command-line
// overrides), sends slog output to the log file, builds the books client and
// hands control to the ui package until the user quits:
//
//	config.Load ─> setupFileLogger ─> catalog.NewClient ─> prefs.Load ─> ui.Run
//
// Serve does the same for the development backend, logging to stderr and
// blocking in devserver.Run until the context is cancelled.
//
// Configuration and client construction errors are returned to the caller.
// Request failures at runtime never are: they surface on screen through
// state.Screen and in the log.
package app
