package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
)

func hitTitles(r *SearchBooksResult) []string {
	out := make([]string, 0, len(r.Hits))
	for _, h := range r.Hits {
		out = append(out, h.Book.Title)
	}
	return out
}

func TestSearchBooks(t *testing.T) {
	env := setupTestService(t, domain.Rules{})
	defer env.cleanup()
	createProfile(t, env.svc)
	ctx := context.Background()

	addBook(t, env.svc, "Dune", "Science Fiction", domain.StatusShelf, 412)
	emma := addBook(t, env.svc, "Emma", "Romance", domain.StatusBag, 0)

	res, err := env.svc.SearchBooks(ctx, SearchBooksRequest{Query: "dune"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, hitTitles(res))
	assert.Equal(t, domain.StatusShelf, res.Hits[0].Book.Status)

	// The index follows the collection.
	addBook(t, env.svc, "Dune Messiah", "Science Fiction", domain.StatusBag, 0)
	res, err = env.svc.SearchBooks(ctx, SearchBooksRequest{Query: "dune", Status: domain.StatusBag})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune Messiah"}, hitTitles(res))

	_, err = env.svc.SetHidden(ctx, emma.Book.ID, true)
	require.NoError(t, err)

	res, err = env.svc.SearchBooks(ctx, SearchBooksRequest{Query: "emma"})
	require.NoError(t, err)
	assert.Empty(t, res.Hits)

	res, err = env.svc.SearchBooks(ctx, SearchBooksRequest{Query: "emma", IncludeHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Emma"}, hitTitles(res))
}

func TestSearchBooks_ConcurrentWithMutations(t *testing.T) {
	env := setupTestService(t, domain.Rules{})
	defer env.cleanup()
	createProfile(t, env.svc)
	ctx := context.Background()

	books := make([]string, 0, 6)
	for _, title := range []string{"Dune", "Dune Messiah", "Children of Dune", "God Emperor of Dune", "Heretics of Dune", "Chapterhouse Dune"} {
		books = append(books, addBook(t, env.svc, title, "Science Fiction", domain.StatusBag, 0).Book.ID)
	}

	var wg sync.WaitGroup
	for _, id := range books {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			_, err := env.svc.MoveBook(ctx, id, domain.StatusShelf)
			assert.NoError(t, err)
		}(id)
		go func() {
			defer wg.Done()
			_, err := env.svc.SearchBooks(ctx, SearchBooksRequest{Query: "dune"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	res, err := env.svc.SearchBooks(ctx, SearchBooksRequest{Query: "dune", Status: domain.StatusShelf})
	require.NoError(t, err)
	assert.Len(t, res.Hits, len(books))

	res, err = env.svc.SearchBooks(ctx, SearchBooksRequest{Query: "dune", Status: domain.StatusBag})
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
}

func TestSearchBooks_Validation(t *testing.T) {
	env := setupTestService(t, domain.Rules{})
	defer env.cleanup()
	ctx := context.Background()

	_, err := env.svc.SearchBooks(ctx, SearchBooksRequest{Query: "  "})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.svc.SearchBooks(ctx, SearchBooksRequest{Query: "dune", Status: "Attic"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
