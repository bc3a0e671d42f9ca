package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/store"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dbPath
}

func TestOpen(t *testing.T) {
	s, _ := newTestStore(t)

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var name string
	err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='records'").Scan(&name)
	require.NoError(t, err)
}

func TestOpen_SchemaIdempotent(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	s, err := Open(dbPath, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(dbPath, nil)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestBooksAndProfile(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	books, err := s.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	_, err = s.LoadProfile(ctx)
	assert.ErrorIs(t, err, store.ErrProfileNotFound)

	added := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	want := []domain.Book{{ID: "b1", Title: "It", Author: "Stephen King", Status: domain.StatusBag, DateAdded: added, Genre: "Horror"}}
	require.NoError(t, s.SaveBooks(ctx, want))
	require.NoError(t, s.SaveBooks(ctx, want)) // upsert

	got, err := s.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	p := domain.NewUserProfile("reader", domain.Avatar{}, "", added)
	require.NoError(t, s.SaveProfile(ctx, p))
	gotProfile, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, gotProfile)

	require.NoError(t, s.ClearBooks(ctx))
	require.NoError(t, s.ClearProfile(ctx))
	books, err = s.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestSnapshot(t *testing.T) {
	s, dbPath := newTestStore(t)
	ctx := context.Background()

	added := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	snap := &store.Snapshot{
		Books:   []domain.Book{{ID: "b1", Title: "Dune", Author: "Frank Herbert", Status: domain.StatusShelf, DateAdded: added, TotalPages: domain.IntPtr(412)}},
		Profile: domain.NewUserProfile("reader", domain.Avatar{}, "", added),
	}
	require.NoError(t, s.SaveSnapshot(ctx, snap))

	// Visible through a second connection.
	other, err := Open(dbPath, nil)
	require.NoError(t, err)
	defer other.Close()

	got, err := other.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	require.NoError(t, s.Clear(ctx))
	got, err = other.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Books)
	assert.Nil(t, got.Profile)
}
