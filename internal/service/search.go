package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
	"github.com/nightstandapp/nightstand-server/internal/search"
)

// maxSearchResults caps one page of collection search.
const maxSearchResults = 100

// SearchBooksRequest is a full-text query over the reader's own books.
type SearchBooksRequest struct {
	Query         string
	Status        domain.Status
	IncludeHidden bool
	Limit         int
}

// BookHit is a matching book with its relevance score.
type BookHit struct {
	Book  domain.Book `json:"book"`
	Score float64     `json:"score"`
}

// SearchBooksResult lists hits best first.
type SearchBooksResult struct {
	Query string    `json:"query"`
	Total uint64    `json:"total"`
	Hits  []BookHit `json:"hits"`
}

// SearchBooks matches req.Query against title, author, genre, keywords,
// publisher, notes and synopsis of the collection.
func (s *LibraryService) SearchBooks(ctx context.Context, req SearchBooksRequest) (*SearchBooksResult, error) {
	q := strings.TrimSpace(req.Query)
	if q == "" {
		return nil, domainerrors.Validation("search query is required")
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, domainerrors.Validationf("unknown status %q", req.Status)
	}
	limit := req.Limit
	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}

	if err := s.syncIndex(ctx); err != nil {
		return nil, err
	}

	res, err := s.index.Search(ctx, search.Params{
		Query:         q,
		Status:        req.Status,
		IncludeHidden: req.IncludeHidden,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Book, len(books))
	for i := range books {
		byID[books[i].ID] = &books[i]
	}

	out := &SearchBooksResult{Query: q, Total: res.Total, Hits: make([]BookHit, 0, len(res.Hits))}
	for _, h := range res.Hits {
		if b, ok := byID[h.ID]; ok {
			out.Hits = append(out.Hits, BookHit{Book: *b, Score: h.Score})
		}
	}
	return out, nil
}

// syncIndex brings the search index up to date with the stored collection.
// It runs under mu so a slow search cannot sync a collection that an
// already committed mutation has replaced.
func (s *LibraryService) syncIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.loadBooks(ctx)
	if err != nil {
		return err
	}
	if err := s.index.Sync(books); err != nil {
		return fmt.Errorf("sync search index: %w", err)
	}
	return nil
}
