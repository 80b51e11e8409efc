package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 5 * time.Second

// Options configures Run.
type Options struct {
	Addr         string
	DatabasePath string
	CoversDir    string
}

// Run opens the store and serves until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	store, err := OpenStore(ctx, opts.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("close store", "error", err)
		}
	}()

	srv, err := NewServer(store, opts.CoversDir)
	if err != nil {
		return err
	}
	return Serve(ctx, opts.Addr, srv.Handler())
}

// Serve runs handler on addr and shuts down gracefully when ctx is done.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("bookshelf backend listening", "addr", addr, "url", "http://"+addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down backend")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		slog.Info("backend stopped")
		return nil
	case err := <-serverErr:
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
}
