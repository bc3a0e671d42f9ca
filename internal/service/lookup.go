package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
	"github.com/nightstandapp/nightstand-server/internal/metadata"
	"github.com/nightstandapp/nightstand-server/internal/normalize"
)

// LookupRequest adds a book from the metadata catalog. VolumeID wins over
// Query; with only a query the best match is used.
type LookupRequest struct {
	VolumeID string        `json:"volumeId,omitempty"`
	Query    string        `json:"query,omitempty"`
	Status   domain.Status `json:"status,omitempty"`
}

// SearchMetadata queries the metadata catalog.
func (s *LibraryService) SearchMetadata(ctx context.Context, query string, limit int) ([]metadata.Candidate, error) {
	if s.lookup == nil {
		return nil, domainerrors.Unavailable(nil, "metadata lookup is not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, domainerrors.Validation("query is required")
	}
	results, err := s.lookup.Search(ctx, query, limit)
	if err != nil {
		return nil, lookupError(err)
	}
	return results, nil
}

// AddBookFromLookup copies a catalog entry into a new book. Metadata is taken
// as the catalog returns it, except that an unrecognized language is dropped.
func (s *LibraryService) AddBookFromLookup(ctx context.Context, req LookupRequest) (*BookChange, error) {
	if s.lookup == nil {
		return nil, domainerrors.Unavailable(nil, "metadata lookup is not configured")
	}

	var cand *metadata.Candidate
	switch {
	case strings.TrimSpace(req.VolumeID) != "":
		c, err := s.lookup.Volume(ctx, req.VolumeID)
		if err != nil {
			return nil, lookupError(err)
		}
		cand = c
	case strings.TrimSpace(req.Query) != "":
		results, err := s.lookup.Search(ctx, req.Query, 1)
		if err != nil {
			return nil, lookupError(err)
		}
		if len(results) == 0 {
			return nil, domainerrors.NotFoundf("no book matches %q", req.Query)
		}
		cand = &results[0]
	default:
		return nil, domainerrors.Validation("volume_id or query is required")
	}

	in := cand.NewBook(req.Status)
	if normalize.LanguageCode(in.Language) == "" {
		in.Language = ""
	}
	if in.Author == "" {
		in.Author = "Unknown"
	}

	s.logger.Debug("adding book from lookup", "source", cand.Source, "volume_id", cand.ID)
	return s.AddBook(ctx, in)
}

func lookupError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, metadata.ErrNotFound) {
		return domainerrors.Wrap(err, domainerrors.CodeNotFound, "book not found in catalog")
	}
	return domainerrors.Unavailable(err, "metadata lookup failed")
}
