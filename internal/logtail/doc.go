// Package logtail reads the tail of bookshelf's log file.
//
// # Overview
//
// The log overlay in the UI shows the most recent application log lines.
// Read extracts the last N lines from a file of any size without loading it
// into memory; ReadFunc does the same for the subset of lines accepted by a
// filter, which is how the overlay's errors-only mode is implemented.
//
// Example usage:
//
//	lines, err := logtail.ReadFunc(cfg.LogFile, 400, logtail.IsError)
//	if err != nil {
//		slog.Warn("read log", "error", err)
//	}
//
// # Ring Buffer
//
// With a positive limit the reader keeps a circular buffer of maxLines
// entries:
//
//	1. For each accepted line, store it at the current index and advance
//	   (wrapping at maxLines)
//	2. If fewer than maxLines were accepted, return them as-is
//	3. Otherwise return the buffer starting at the current index
//
// The file is scanned once and memory use is O(maxLines).
//
// # Log Format
//
// The application logs through slog's text handler, so each line carries a
// level=LEVEL attribute. Level extracts it and IsError matches error lines.
//
// # Error Handling
//
// A missing log file yields nil, nil: the overlay shows an empty state
// instead of an error. Other I/O errors are returned wrapped.
package logtail
