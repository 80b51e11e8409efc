package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/five82/bookshelf/internal/catalog"
)

// ErrNotFound is returned when no book has the requested id.
var ErrNotFound = errors.New("book not found")

// Store persists books in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at path.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	// modernc.org/sqlite registers itself as "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			description TEXT NOT NULL,
			cover TEXT NOT NULL DEFAULT ''
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns every book in insertion order.
func (s *Store) List(ctx context.Context) ([]catalog.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author, description, cover FROM books ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []catalog.Book{}
	for rows.Next() {
		var b catalog.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Cover); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Get returns the book with id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (catalog.Book, error) {
	var b catalog.Book
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, author, description, cover FROM books WHERE id = ?`, id,
	).Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Cover)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Book{}, ErrNotFound
	}
	if err != nil {
		return catalog.Book{}, fmt.Errorf("get book %s: %w", id, err)
	}
	return b, nil
}

// Insert adds a new book.
func (s *Store) Insert(ctx context.Context, b catalog.Book) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO books (id, title, author, description, cover) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.Description, b.Cover)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// Update replaces every field of an existing book.
func (s *Store) Update(ctx context.Context, b catalog.Book) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, description = ?, cover = ? WHERE id = ?`,
		b.Title, b.Author, b.Description, b.Cover, b.ID)
	if err != nil {
		return fmt.Errorf("update book %s: %w", b.ID, err)
	}
	return expectOne(res)
}

// Delete removes a book.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
