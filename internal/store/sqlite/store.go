// Package sqlite provides a SQLite-backed store.Store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed persistence.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open creates a new SQLite store at the given path.
// It configures WAL mode, sets pragmas, and runs the schema migration.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger != nil {
		logger.Info("SQLite database opened successfully", "path", path)
	}
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// formatTime formats a time.Time to RFC3339Nano for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// get returns the raw record at key, or nil if absent.
func get(ctx context.Context, q querier, key string) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) put(ctx context.Context, q querier, key string, value []byte) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatTime(s.now()))
	return err
}

func del(ctx context.Context, q querier, key string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key)
	return err
}

// withTx runs fn in a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// LoadBooks reads the whole collection.
func (s *Store) LoadBooks(ctx context.Context) ([]domain.Book, error) {
	raw, err := get(ctx, s.db, store.KeyBooks)
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	return store.DecodeBooks(raw)
}

// SaveBooks replaces the whole collection.
func (s *Store) SaveBooks(ctx context.Context, books []domain.Book) error {
	data, err := store.EncodeBooks(books)
	if err != nil {
		return err
	}
	if err := s.put(ctx, s.db, store.KeyBooks, data); err != nil {
		return fmt.Errorf("save books: %w", err)
	}
	return nil
}

// ClearBooks deletes the collection record.
func (s *Store) ClearBooks(ctx context.Context) error {
	if err := del(ctx, s.db, store.KeyBooks); err != nil {
		return fmt.Errorf("clear books: %w", err)
	}
	return nil
}

// LoadProfile reads the profile. Returns store.ErrProfileNotFound if none exists.
func (s *Store) LoadProfile(ctx context.Context) (*domain.UserProfile, error) {
	raw, err := get(ctx, s.db, store.KeyProfile)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if raw == nil {
		return nil, store.ErrProfileNotFound
	}
	return store.DecodeProfile(raw)
}

// SaveProfile replaces the profile.
func (s *Store) SaveProfile(ctx context.Context, profile *domain.UserProfile) error {
	data, err := store.EncodeProfile(profile)
	if err != nil {
		return err
	}
	if err := s.put(ctx, s.db, store.KeyProfile, data); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// ClearProfile deletes the profile record.
func (s *Store) ClearProfile(ctx context.Context) error {
	if err := del(ctx, s.db, store.KeyProfile); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}

// LoadSnapshot reads both records inside one transaction.
func (s *Store) LoadSnapshot(ctx context.Context) (*store.Snapshot, error) {
	var rawBooks, rawProfile []byte
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if rawBooks, err = get(ctx, tx, store.KeyBooks); err != nil {
			return err
		}
		rawProfile, err = get(ctx, tx, store.KeyProfile)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return store.DecodeSnapshot(rawBooks, rawProfile)
}

// SaveSnapshot replaces both records in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap *store.Snapshot) error {
	books, profile, err := store.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.put(ctx, tx, store.KeyBooks, books); err != nil {
			return err
		}
		if profile == nil {
			return del(ctx, tx, store.KeyProfile)
		}
		return s.put(ctx, tx, store.KeyProfile, profile)
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Clear deletes both records.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE key IN (?, ?)`, store.KeyBooks, store.KeyProfile); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	if s.logger != nil {
		s.logger.Warn("store cleared")
	}
	return nil
}
