// Package search provides full-text search over the reader's own books.
//
// The index lives in memory and is rebuilt from the collection whenever the
// collection changed since the last build.
package search

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/nightstandapp/nightstand-server/internal/domain"
)

// Index wraps an in-memory Bleve index of the collection.
//
// All methods are safe for concurrent use.
type Index struct {
	mu          sync.RWMutex
	index       bleve.Index
	fingerprint uint64
	logger      *slog.Logger
}

// NewIndex creates an empty index. Nothing is built until Sync.
func NewIndex(logger *slog.Logger) *Index {
	return &Index{logger: logger}
}

// Sync rebuilds the index if books differ from what was last indexed.
//
// The fingerprint check, rebuild and swap happen under one write lock, so
// two concurrent Syncs cannot interleave and leave the index built from a
// collection other than the one the last Sync was given.
func (s *Index) Sync(books []domain.Book) error {
	fp, err := fingerprint(books)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != nil && s.fingerprint == fp {
		return nil
	}

	index, err := build(books)
	if err != nil {
		return err
	}

	old := s.index
	s.index, s.fingerprint = index, fp
	if old != nil {
		if err := old.Close(); err != nil {
			s.logger.Warn("failed to close previous search index", "error", err)
		}
	}
	s.logger.Debug("search index rebuilt", "books", len(books))
	return nil
}

// DocumentCount returns the number of indexed books.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return 0, nil
	}
	return s.index.DocCount()
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

func build(books []domain.Book) (bleve.Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := index.NewBatch()
	for i := range books {
		doc := DocumentFromBook(&books[i])
		if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("index book %s: %w", doc.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("index books: %w", err)
	}
	return index, nil
}

// fingerprint hashes the searchable content of the collection.
func fingerprint(books []domain.Book) (uint64, error) {
	h := fnv.New64a()
	enc := json.NewEncoder(h)
	for i := range books {
		if err := enc.Encode(DocumentFromBook(&books[i])); err != nil {
			return 0, fmt.Errorf("fingerprint books: %w", err)
		}
	}
	return h.Sum64(), nil
}
