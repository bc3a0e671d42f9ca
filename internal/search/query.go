package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/nightstandapp/nightstand-server/internal/domain"
)

// Params configures a search.
type Params struct {
	Query         string
	Status        domain.Status // empty means any
	IncludeHidden bool
	Limit         int
}

// Hit is one matching book.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Result is a page of hits, best first.
type Result struct {
	Total uint64 `json:"total"`
	Hits  []Hit  `json:"hits"`
}

// Search runs params against the last synced collection.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return &Result{Hits: []Hit{}}, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	req := bleve.NewSearchRequestOptions(buildQuery(params), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{Total: res.Total, Hits: make([]Hit, 0, len(res.Hits))}
	for _, h := range res.Hits {
		out.Hits = append(out.Hits, Hit{ID: h.ID, Score: h.Score})
	}
	return out, nil
}

// buildQuery ranks title matches above author matches above everything else.
func buildQuery(params Params) query.Query {
	q := strings.TrimSpace(params.Query)

	fields := []struct {
		name  string
		boost float64
	}{
		{"title", 3},
		{"author", 2},
		{"genre", 1.5},
		{"keywords", 1.5},
		{"publisher", 1},
		{"notes", 1},
		{"synopsis", 0.5},
	}

	text := make([]query.Query, 0, len(fields)+2)
	for _, f := range fields {
		m := bleve.NewMatchQuery(q)
		m.SetField(f.name)
		m.SetBoost(f.boost)
		text = append(text, m)
	}

	fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
	fuzzy.SetField("title")
	fuzzy.SetFuzziness(1)
	fuzzy.SetBoost(0.8)
	text = append(text, fuzzy)

	if len(q) >= 2 && !strings.ContainsRune(q, ' ') {
		prefix := bleve.NewPrefixQuery(strings.ToLower(q))
		prefix.SetField("title")
		prefix.SetBoost(0.5)
		text = append(text, prefix)
	}

	must := []query.Query{bleve.NewDisjunctionQuery(text...)}

	if params.Status != "" {
		status := bleve.NewTermQuery(string(params.Status))
		status.SetField("status")
		must = append(must, status)
	}
	if !params.IncludeHidden {
		visible := bleve.NewBoolFieldQuery(false)
		visible.SetField("hidden")
		must = append(must, visible)
	}

	if len(must) == 1 {
		return must[0]
	}
	return bleve.NewConjunctionQuery(must...)
}
