package state

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/five82/bookshelf/internal/catalog"
)

// Load reads the full collection.
func Load(ctx context.Context, api catalog.BookAPI) LoadResult {
	books, err := api.ListBooks(ctx)
	if err != nil {
		err = fmt.Errorf("list books: %w", err)
		slog.Error("load failed", "err", err)
		return LoadResult{Err: err}
	}
	slog.Debug("books loaded", "count", len(books))
	return LoadResult{Books: books}
}

// Submit saves the request and, on success, reloads the collection.
func Submit(ctx context.Context, api catalog.BookAPI, req SubmitRequest) SubmitResult {
	var err error
	if req.IsUpdate() {
		err = api.UpdateBook(ctx, req.ID, req.Input)
		if err != nil {
			err = fmt.Errorf("update book %s: %w", req.ID, err)
		}
	} else {
		err = api.CreateBook(ctx, req.Input)
		if err != nil {
			err = fmt.Errorf("create book: %w", err)
		}
	}
	if err != nil {
		slog.Error("save failed", "id", req.ID, "err", err)
		return SubmitResult{Request: req, SaveErr: err}
	}
	slog.Info("book saved", "id", req.ID, "update", req.IsUpdate(), "cover", req.Input.Cover != nil)

	reload := Load(ctx, api)
	return SubmitResult{Request: req, Reload: &reload}
}

// Delete removes id and, on success, reloads the collection.
func Delete(ctx context.Context, api catalog.BookAPI, id string) DeleteResult {
	if err := api.DeleteBook(ctx, id); err != nil {
		err = fmt.Errorf("delete book %s: %w", id, err)
		slog.Error("delete failed", "id", id, "err", err)
		return DeleteResult{ID: id, DeleteErr: err}
	}
	slog.Info("book deleted", "id", id)

	reload := Load(ctx, api)
	return DeleteResult{ID: id, Reload: &reload}
}
