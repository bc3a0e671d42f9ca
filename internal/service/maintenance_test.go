package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
	"github.com/nightstandapp/nightstand-server/internal/sse"
	"github.com/nightstandapp/nightstand-server/internal/store"
)

func TestReconcileTotalPagesRead(t *testing.T) {
	env := setupTestService(t, domain.Rules{})
	defer env.cleanup()
	createProfile(t, env.svc)
	ctx := context.Background()

	addBook(t, env.svc, "Dune", "", domain.StatusShelf, 412)

	result, err := env.svc.ReconcileTotalPagesRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 412, result.Before)
	assert.Equal(t, 412, result.After)

	// Simulate a hand-edited record.
	profile, err := env.store.LoadProfile(ctx)
	require.NoError(t, err)
	profile.TotalPagesRead = 9999
	require.NoError(t, env.store.SaveProfile(ctx, profile))

	result, err = env.svc.ReconcileTotalPagesRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9999, result.Before)
	assert.Equal(t, 412, result.After)
	assert.Equal(t, 412, result.Profile.Profile.TotalPagesRead)
	assertPagesConsistent(t, env.svc)
}

func TestResetAndExport(t *testing.T) {
	env := setupTestService(t, domain.Rules{})
	defer env.cleanup()
	createProfile(t, env.svc)
	ctx := context.Background()

	addBook(t, env.svc, "Dune", "", domain.StatusShelf, 412)
	addBook(t, env.svc, "Emma", "", domain.StatusBag, 0)

	snap, err := env.svc.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Books, 2)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, 412, snap.Profile.TotalPagesRead)

	env.events.reset()
	require.NoError(t, env.svc.Reset(ctx))
	assert.Equal(t, []sse.EventType{sse.EventLibraryReset}, env.events.types())

	snap, err = env.svc.Export(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Books)
	assert.Nil(t, snap.Profile)

	_, err = env.svc.GetProfile(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCanceledContext(t *testing.T) {
	env := setupTestService(t, domain.Rules{})
	defer env.cleanup()
	createProfile(t, env.svc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.svc.AddBook(ctx, domain.NewBook{Title: "Dune", Author: "Frank Herbert"})
	assert.ErrorIs(t, err, context.Canceled)

	books, err := env.svc.ListBooks(context.Background(), BookFilter{})
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestRestore(t *testing.T) {
	env := setupTestService(t, domain.Rules{})
	defer env.cleanup()
	createProfile(t, env.svc)
	ctx := context.Background()

	addBook(t, env.svc, "Dune", "", domain.StatusShelf, 412)
	addBook(t, env.svc, "Emma", "", domain.StatusBag, 0)

	snap, err := env.svc.Export(ctx)
	require.NoError(t, err)
	snap.Profile.TotalPagesRead = 1

	require.NoError(t, env.svc.Reset(ctx))
	env.events.reset()

	require.NoError(t, env.svc.Restore(ctx, snap))
	assert.Equal(t, []sse.EventType{sse.EventLibraryRestored}, env.events.types())

	books, err := env.svc.ListBooks(ctx, BookFilter{IncludeHidden: true})
	require.NoError(t, err)
	assert.Len(t, books, 2)

	profile, err := env.svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, profile.Profile.ExperiencePoints)
	assertPagesConsistent(t, env.svc)
}

func TestRestore_RejectsBadBooks(t *testing.T) {
	env := setupTestService(t, domain.Rules{})
	defer env.cleanup()
	ctx := context.Background()

	tests := []struct {
		name  string
		books []domain.Book
	}{
		{"missing id", []domain.Book{{Title: "Dune", Author: "Herbert", Status: domain.StatusBag}}},
		{"duplicate id", []domain.Book{
			{ID: "book-1", Title: "Dune", Author: "Herbert", Status: domain.StatusBag},
			{ID: "book-1", Title: "Emma", Author: "Austen", Status: domain.StatusBag},
		}},
		{"no author", []domain.Book{{ID: "book-1", Title: "Dune", Status: domain.StatusBag}}},
		{"bad status", []domain.Book{{ID: "book-1", Title: "Dune", Author: "Herbert", Status: "Attic"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.svc.Restore(ctx, &store.Snapshot{Books: tt.books})
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}

	snap, err := env.svc.Export(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Books)
}
