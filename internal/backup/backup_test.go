package backup

import (
	"archive/zip"
	"context"
	"io"
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

// memLibrary keeps a snapshot in memory.
type memLibrary struct {
	snap     *store.Snapshot
	restored int
}

func (m *memLibrary) Export(context.Context) (*store.Snapshot, error) {
	return m.snap.Clone(), nil
}

func (m *memLibrary) Restore(_ context.Context, snap *store.Snapshot) error {
	m.snap = snap.Clone()
	m.restored++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleSnapshot() *store.Snapshot {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := domain.NewUserProfile("reader", domain.Avatar{Body: "b1"}, "", now)
	p.ExperiencePoints = 10
	p.TotalBooksRead = 1
	p.TotalPagesRead = 412

	return &store.Snapshot{
		Books: []domain.Book{
			{ID: "book-1", Title: "Dune", Author: "Frank Herbert", Status: domain.StatusShelf,
				DateAdded: now, TotalPages: domain.IntPtr(412), CompletedOnce: true, Genre: "Science Fiction"},
			{ID: "book-2", Title: "Emma", Author: "Jane Austen", Status: domain.StatusBag,
				DateAdded: now, Hidden: true},
		},
		Profile: p,
	}
}

func TestCreateListRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src := &memLibrary{snap: sampleSnapshot()}
	backups := NewBackupService(src, dir, testLogger())

	result, err := backups.Create(ctx, "")
	require.NoError(t, err)
	assert.FileExists(t, result.Path)
	assert.Equal(t, Counts{Books: 2, Bag: 1, Shelf: 1, Hidden: 1}, result.Counts)
	assert.Len(t, result.Checksum, 64)
	assert.NoFileExists(t, result.Path+".tmp")

	list, err := backups.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, result.ID, list[0].ID)

	dst := &memLibrary{snap: &store.Snapshot{}}
	restorer := NewRestoreService(dst, testLogger())

	res, err := restorer.Restore(ctx, result.Path, RestoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, dst.restored)
	assert.True(t, res.HasProfile)
	assert.Zero(t, res.Skipped)
	assert.Equal(t, src.snap.Books, dst.snap.Books)
	require.NotNil(t, dst.snap.Profile)
	assert.Equal(t, "reader", dst.snap.Profile.Username)
	assert.Equal(t, 412, dst.snap.Profile.TotalPagesRead)
}

func TestRestore_DryRun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out"+Extension)

	_, err := NewBackupService(&memLibrary{snap: sampleSnapshot()}, "", testLogger()).Create(ctx, path)
	require.NoError(t, err)

	dst := &memLibrary{snap: &store.Snapshot{}}
	res, err := NewRestoreService(dst, testLogger()).Restore(ctx, path, RestoreOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 2, res.Counts.Books)
	assert.Zero(t, dst.restored)
}

func TestCreate_WithoutProfile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "empty"+Extension)

	_, err := NewBackupService(&memLibrary{snap: &store.Snapshot{}}, "", testLogger()).Create(ctx, path)
	require.NoError(t, err)

	dst := &memLibrary{snap: sampleSnapshot()}
	res, err := NewRestoreService(dst, testLogger()).Restore(ctx, path, RestoreOptions{})
	require.NoError(t, err)
	assert.False(t, res.HasProfile)
	assert.Nil(t, dst.snap.Profile)
	assert.Empty(t, dst.snap.Books)
}

// writeZip builds an archive from raw file contents.
func writeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hand"+Extension)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	restorer := NewRestoreService(&memLibrary{snap: &store.Snapshot{}}, testLogger())

	book := `{"id":"book-1","title":"Dune","author":"Frank Herbert","status":"Bag","dateAdded":"2026-03-01T12:00:00Z"}`

	tests := []struct {
		name     string
		files    map[string]string
		valid    bool
		warnings int
		errPart  string
	}{
		{
			name:  "valid",
			files: map[string]string{"manifest.json": `{"version":"1.0","counts":{"books":1}}`, "books.jsonl": book + "\n"},
			valid: true,
		},
		{
			name:     "skipped line",
			files:    map[string]string{"manifest.json": `{"version":"1.0","counts":{"books":2}}`, "books.jsonl": book + "\n{broken\n"},
			valid:    true,
			warnings: 1,
		},
		{
			name:    "no manifest",
			files:   map[string]string{"books.jsonl": book},
			errPart: "manifest",
		},
		{
			name:    "future version",
			files:   map[string]string{"manifest.json": `{"version":"2.0"}`, "books.jsonl": ""},
			errPart: "version",
		},
		{
			name:    "count mismatch",
			files:   map[string]string{"manifest.json": `{"version":"1.0","counts":{"books":3}}`, "books.jsonl": book + "\n"},
			errPart: "lists 3 books",
		},
		{
			name:    "profile missing",
			files:   map[string]string{"manifest.json": `{"version":"1.0","hasProfile":true}`, "books.jsonl": ""},
			errPart: "profile.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := restorer.Validate(ctx, writeZip(t, tt.files))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Len(t, res.Warnings, tt.warnings)
			if tt.errPart != "" {
				require.Len(t, res.Errors, 1)
				assert.Contains(t, res.Errors[0], tt.errPart)
			}
		})
	}
}

func TestRestore_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk"+Extension)
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o600))

	_, err := NewRestoreService(&memLibrary{}, testLogger()).Restore(context.Background(), path, RestoreOptions{})
	assert.ErrorIs(t, err, ErrCorruptedBackup)
}

func TestGetAndDelete(t *testing.T) {
	ctx := context.Background()
	backups := NewBackupService(&memLibrary{snap: sampleSnapshot()}, t.TempDir(), testLogger())

	_, err := backups.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrBackupNotFound)

	result, err := backups.Create(ctx, "")
	require.NoError(t, err)

	info, err := backups.Get(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Size, info.Size)

	require.NoError(t, backups.Delete(ctx, result.ID))
	assert.ErrorIs(t, backups.Delete(ctx, result.ID), ErrBackupNotFound)
}
