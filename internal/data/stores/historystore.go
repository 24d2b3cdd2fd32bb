// Package stores contains the SQLite-backed persistence layer.
package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/calmops/folio/internal/data/db"
)

// History is one book's persisted reading state.
type History struct {
	Filepath        string
	Title           string
	Author          string
	ReadingProgress float64 // fraction in [0, 1]
	LastRead        time.Time
}

// HistoryStore persists reading history in SQLite.
type HistoryStore struct {
	db *db.DB
}

// NewHistoryStore creates a new SQLite-backed history store.
func NewHistoryStore(db *db.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// GetOrCreate returns the history row for filepath, inserting a zero
// row first if none exists.
func (s *HistoryStore) GetOrCreate(ctx context.Context, filepath string) (History, error) {
	h, err := s.get(ctx, filepath)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return History{}, err
	}

	_, err = s.db.Conn().ExecContext(ctx,
		`INSERT INTO reading_history (filepath) VALUES (?)`, filepath)
	if err != nil {
		return History{}, fmt.Errorf("history create %q: %w", filepath, err)
	}

	return History{Filepath: filepath}, nil
}

// Save upserts the history row.
func (s *HistoryStore) Save(ctx context.Context, h History) error {
	lastRead := int64(0)
	if !h.LastRead.IsZero() {
		lastRead = h.LastRead.Unix()
	}

	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO reading_history (filepath, title, author, reading_progress, last_read)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (filepath) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			reading_progress = excluded.reading_progress,
			last_read = excluded.last_read`,
		h.Filepath, h.Title, h.Author, h.ReadingProgress, lastRead)
	if err != nil {
		return fmt.Errorf("history save %q: %w", h.Filepath, err)
	}
	return nil
}

// SaveAll upserts every row within one transaction, so quitting with
// several open books never persists half the sessions.
func (s *HistoryStore) SaveAll(ctx context.Context, items []History) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, h := range items {
			lastRead := int64(0)
			if !h.LastRead.IsZero() {
				lastRead = h.LastRead.Unix()
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO reading_history (filepath, title, author, reading_progress, last_read)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (filepath) DO UPDATE SET
					title = excluded.title,
					author = excluded.author,
					reading_progress = excluded.reading_progress,
					last_read = excluded.last_read`,
				h.Filepath, h.Title, h.Author, h.ReadingProgress, lastRead); err != nil {
				return fmt.Errorf("history save %q: %w", h.Filepath, err)
			}
		}
		return nil
	})
}

// Recent returns up to limit rows ordered by most recently read.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]History, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT filepath, title, author, reading_progress, last_read
		FROM reading_history
		ORDER BY last_read DESC, filepath ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []History
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

func (s *HistoryStore) get(ctx context.Context, filepath string) (History, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT filepath, title, author, reading_progress, last_read
		FROM reading_history
		WHERE filepath = ?`, filepath)
	return scanHistory(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHistory(row scanner) (History, error) {
	var h History
	var lastRead int64
	if err := row.Scan(&h.Filepath, &h.Title, &h.Author, &h.ReadingProgress, &lastRead); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return History{}, err
		}
		return History{}, fmt.Errorf("history scan: %w", err)
	}
	if lastRead > 0 {
		h.LastRead = time.Unix(lastRead, 0)
	}
	return h, nil
}
