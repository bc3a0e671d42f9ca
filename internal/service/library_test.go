package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/metadata"
	"github.com/nightstandapp/nightstand-server/internal/skins"
	"github.com/nightstandapp/nightstand-server/internal/sse"
	"github.com/nightstandapp/nightstand-server/internal/store"
)

var testNow = time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC)

// recordingEmitter collects emitted events for assertions.
type recordingEmitter struct {
	mu     sync.Mutex
	events []sse.Event
}

func (r *recordingEmitter) Emit(event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := event.(sse.Event); ok {
		r.events = append(r.events, e)
	}
}

func (r *recordingEmitter) types() []sse.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sse.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recordingEmitter) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// fakeLookup serves canned candidates.
type fakeLookup struct {
	volumes map[string]metadata.Candidate
	results []metadata.Candidate
	err     error
}

func (f *fakeLookup) Search(_ context.Context, _ string, limit int) ([]metadata.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && limit < len(f.results) {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func (f *fakeLookup) Volume(_ context.Context, volumeID string) (*metadata.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.volumes[volumeID]
	if !ok {
		return nil, metadata.ErrNotFound
	}
	return &c, nil
}

type testEnv struct {
	svc     *LibraryService
	store   *store.Badger
	events  *recordingEmitter
	lookup  *fakeLookup
	dbPath  string
	cleanup func()
}

func setupTestService(t *testing.T, rules domain.Rules) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "library-service-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "db")
	st, err := store.New(dbPath, nil)
	require.NoError(t, err)

	env := &testEnv{
		store:  st,
		events: &recordingEmitter{},
		lookup: &fakeLookup{volumes: map[string]metadata.Candidate{}},
		dbPath: dbPath,
	}
	env.svc = newTestService(st, env.lookup, env.events, rules)
	env.cleanup = func() {
		_ = env.store.Close()
		_ = os.RemoveAll(tmpDir)
	}
	return env
}

func newTestService(st store.Store, lookup MetadataLookup, emitter store.EventEmitter, rules domain.Rules) *LibraryService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewLibraryService(st, skins.Default(), lookup, emitter, rules, logger)
	svc.now = func() time.Time { return testNow }
	return svc
}

// reopen closes the store and opens it again from disk.
func (e *testEnv) reopen(t *testing.T) {
	t.Helper()
	require.NoError(t, e.store.Close())
	st, err := store.New(e.dbPath, nil)
	require.NoError(t, err)
	e.store = st
	e.svc = newTestService(st, e.lookup, e.events, e.svc.rules)
}

func createProfile(t *testing.T, svc *LibraryService) {
	t.Helper()
	_, err := svc.CreateProfile(context.Background(), CreateProfileRequest{Username: "reader"})
	require.NoError(t, err)
}

func addBook(t *testing.T, svc *LibraryService, title, genre string, status domain.Status, pages int) *BookChange {
	t.Helper()
	in := domain.NewBook{Title: title, Author: "Author of " + title, Genre: genre, Status: status}
	if pages > 0 {
		in.TotalPages = domain.IntPtr(pages)
	}
	change, err := svc.AddBook(context.Background(), in)
	require.NoError(t, err)
	return change
}

// assertPagesConsistent checks the incremental total against a full recount.
func assertPagesConsistent(t *testing.T, svc *LibraryService) {
	t.Helper()
	ctx := context.Background()
	profile, err := svc.GetProfile(ctx)
	require.NoError(t, err)
	books, err := svc.ListBooks(ctx, BookFilter{IncludeHidden: true})
	require.NoError(t, err)
	require.Equal(t, domain.RecomputeTotalPagesRead(books), profile.Profile.TotalPagesRead)
}
