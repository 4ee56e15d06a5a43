// Package cache persists fetched Gmail messages in SQLite so repeat
// runs over an overlapping lookback window skip the per-message API
// calls. Messages are immutable once fetched, so entries never expire;
// Prune trims the store below the cutoff of interest.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kbouqdir/jobtrack/internal/logging"
	"github.com/kbouqdir/jobtrack/internal/track"
)

// MessageStore is a SQLite-backed store of fetched messages keyed by
// Gmail message ID.
type MessageStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens the store at dbPath, creating it if necessary.
func Open(dbPath string, logger *slog.Logger) (*MessageStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			from_addr TEXT,
			subject TEXT,
			body TEXT,
			received TIMESTAMP,
			fetched_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_received ON messages(received)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &MessageStore{db: db, logger: logger}, nil
}

// Get retrieves a cached message by ID.
func (s *MessageStore) Get(ctx context.Context, id string) (track.RawMessage, bool, error) {
	var m track.RawMessage
	var received string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, from_addr, subject, body, received
		FROM messages
		WHERE id = ?
	`, id).Scan(&m.ID, &m.From, &m.Subject, &m.Body, &received)
	if err != nil {
		if err == sql.ErrNoRows {
			return track.RawMessage{}, false, nil
		}
		return track.RawMessage{}, false, fmt.Errorf("query message %s: %w", id, err)
	}

	t, err := time.Parse(time.RFC3339Nano, received)
	if err != nil {
		// A corrupt timestamp makes the entry useless; treat as a miss.
		s.logger.Warn("discarding cache entry with bad timestamp",
			slog.String("id", id), logging.Err(err))
		return track.RawMessage{}, false, nil
	}
	m.Received = t

	return m, true, nil
}

// Put stores a message, replacing any previous entry for the same ID.
func (s *MessageStore) Put(ctx context.Context, m track.RawMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO messages (id, from_addr, subject, body, received, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.From, m.Subject, m.Body,
		m.Received.Format(time.RFC3339Nano),
		time.Now().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert message %s: %w", m.ID, err)
	}
	return nil
}

// Prune removes messages received before the cutoff.
func (s *MessageStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM messages WHERE received < ?
	`, cutoff.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune messages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Close closes the underlying database.
func (s *MessageStore) Close() error {
	return s.db.Close()
}
