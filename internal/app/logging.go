package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// setupFileLogger points the default slog logger at path. The terminal
// belongs to the TUI, so nothing is written to stderr.
func setupFileLogger(path string, level slog.Level) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})))
	return func() {
		slog.SetDefault(previous)
		_ = file.Close()
	}, nil
}

func setupStderrLogger(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
