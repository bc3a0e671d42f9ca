package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightstandapp/nightstand-server/internal/domain"
)

func setupTestStore(t *testing.T) (*Badger, string, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "nightstand-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "db")
	s, err := New(dbPath, nil)
	require.NoError(t, err)
	require.NotNil(t, s)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}
	return s, dbPath, cleanup
}

func testBooks() []domain.Book {
	added := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	done := added.Add(72 * time.Hour)
	return []domain.Book{
		{ID: "b1", Title: "Dune", Author: "Frank Herbert", Status: domain.StatusShelf, DateAdded: added, DateCompleted: &done, TotalPages: domain.IntPtr(412), Genre: "Science Fiction", CompletedOnce: true},
		{ID: "b2", Title: "Emma", Author: "Jane Austen", Status: domain.StatusBag, DateAdded: added, Keywords: []string{"classic"}},
	}
}

func TestLoadBooks_EmptyStore(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()

	books, err := s.LoadBooks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestSaveBooks_RoundTrip(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.SaveBooks(ctx, testBooks()))

	got, err := s.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, testBooks(), got)
}

func TestLoadProfile_Absent(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()

	p, err := s.LoadProfile(context.Background())
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveProfile_RoundTripAndClear(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := domain.NewUserProfile("reader", domain.Avatar{Hair: "bob"}, "likes ghosts", created)
	p.ExperiencePoints = 40
	require.NoError(t, s.SaveProfile(ctx, p))

	got, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	require.NoError(t, s.ClearProfile(ctx))
	_, err = s.LoadProfile(ctx)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSnapshot_SavedTogether(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	p := domain.NewUserProfile("reader", domain.Avatar{}, "", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveSnapshot(ctx, &Snapshot{Books: testBooks(), Profile: p}))

	snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, testBooks(), snap.Books)
	assert.Equal(t, p, snap.Profile)

	// A nil profile removes the record.
	require.NoError(t, s.SaveSnapshot(ctx, &Snapshot{Books: nil}))
	snap, err = s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Books)
	assert.Nil(t, snap.Profile)
}

func TestClear(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	p := domain.NewUserProfile("reader", domain.Avatar{}, "", time.Now())
	require.NoError(t, s.SaveSnapshot(ctx, &Snapshot{Books: testBooks(), Profile: p}))

	require.NoError(t, s.Clear(ctx))

	books, err := s.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
	_, err = s.LoadProfile(ctx)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	// Clearing an empty store is fine.
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.ClearBooks(ctx))
}

func TestPersistsAcrossReopen(t *testing.T) {
	s, dbPath, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.SaveBooks(ctx, testBooks()))
	require.NoError(t, s.Close())

	reopened, err := New(dbPath, nil)
	require.NoError(t, err)
	defer reopened.Close()

	books, err := reopened.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestCanceledContext(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.LoadBooks(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.SaveBooks(ctx, testBooks()), context.Canceled)
}

func TestDecodeBooks_Corrupt(t *testing.T) {
	_, err := DecodeBooks([]byte("{not json"))
	assert.ErrorIs(t, err, ErrCorrupt)

	books, err := DecodeBooks([]byte("null"))
	require.NoError(t, err)
	assert.NotNil(t, books)
}

func TestDecodeBooks_PersistedFieldNames(t *testing.T) {
	raw := `[{"id":"x","title":"Carrie","author":"Stephen King","status":"Nightstand","dateAdded":"2024-10-31T00:00:00Z","pagesRead":12,"totalPages":199,"coverImageUrl":"http://img"}]`

	books, err := DecodeBooks([]byte(raw))
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, domain.StatusNightstand, books[0].Status)
	assert.Equal(t, 12, *books[0].PagesRead)
	assert.Equal(t, 199, *books[0].TotalPages)
	assert.Equal(t, "http://img", books[0].CoverImageURL)
	assert.Nil(t, books[0].DateStarted)
}

func TestSnapshot_Clone(t *testing.T) {
	snap := &Snapshot{Books: testBooks(), Profile: domain.NewUserProfile("r", domain.Avatar{}, "", time.Now())}

	c := snap.Clone()
	*c.Books[0].TotalPages = 1
	c.Profile.Username = "other"

	assert.Equal(t, 412, *snap.Books[0].TotalPages)
	assert.Equal(t, "r", snap.Profile.Username)
}
