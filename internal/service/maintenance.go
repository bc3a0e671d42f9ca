package service

import (
	"context"
	"fmt"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
	"github.com/nightstandapp/nightstand-server/internal/sse"
	"github.com/nightstandapp/nightstand-server/internal/store"
)

// ReconcileResult reports a pages-read reconciliation.
type ReconcileResult struct {
	Before  int          `json:"before"`
	After   int          `json:"after"`
	Profile *ProfileView `json:"profile"`
}

// ReconcileTotalPagesRead rewrites the stored pages-read total from a full
// scan of the collection. The incremental total never drifts on its own, so
// this only changes anything for records edited outside the service.
func (s *LibraryService) ReconcileTotalPagesRead(ctx context.Context) (*ReconcileResult, error) {
	result := &ReconcileResult{}
	st, _, err := s.commit(ctx, true, func(st *step) error {
		p := st.profile()
		result.Before = p.TotalPagesRead
		result.After = domain.RecomputeTotalPagesRead(st.snap.Books)
		if result.Before == result.After {
			st.noop = true
			return nil
		}
		p.TotalPagesRead = result.After
		p.UpdatedAt = st.now
		st.emit(sse.NewProfileUpdatedEvent(p))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Before != result.After {
		s.logger.Warn("pages read total reconciled", "before", result.Before, "after", result.After)
	}
	result.Profile = NewProfileView(st.profile())
	return result, nil
}

// Reset deletes the collection and the profile.
func (s *LibraryService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear library: %w", err)
	}

	s.dropAllCovers()

	now := s.now()
	s.emitter.Emit(sse.NewLibraryResetEvent(now))
	s.logger.Warn("library reset")
	return nil
}

// Restore replaces the collection and profile with snap, as read from a
// backup. Every book must carry an id, a title, an author and a known status,
// and ids must be unique. A stale pages-read total is corrected on the way in.
func (s *LibraryService) Restore(ctx context.Context, snap *store.Snapshot) error {
	if err := checkRestorable(snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	restored := snap.Clone()
	if p := restored.Profile; p != nil {
		if total := domain.RecomputeTotalPagesRead(restored.Books); total != p.TotalPagesRead {
			s.logger.Warn("restored pages read total corrected", "before", p.TotalPagesRead, "after", total)
			p.TotalPagesRead = total
		}
	}

	if err := s.store.SaveSnapshot(ctx, restored); err != nil {
		return fmt.Errorf("save library: %w", err)
	}

	s.emitter.Emit(sse.NewLibraryRestoredEvent(s.now(), len(restored.Books)))
	s.logger.Info("library restored", "books", len(restored.Books), "has_profile", restored.Profile != nil)
	return nil
}

func checkRestorable(snap *store.Snapshot) error {
	if snap == nil {
		return domainerrors.Validation("nothing to restore")
	}
	seen := make(map[string]bool, len(snap.Books))
	for i := range snap.Books {
		b := &snap.Books[i]
		switch {
		case b.ID == "":
			return domainerrors.Validationf("book %d has no id", i)
		case seen[b.ID]:
			return domainerrors.Validationf("book id %s appears twice", b.ID)
		case b.Title == "" || b.Author == "":
			return domainerrors.Validationf("book %s needs a title and an author", b.ID)
		case !b.Status.Valid():
			return domainerrors.Validationf("book %s has unknown status %q", b.ID, b.Status)
		}
		seen[b.ID] = true
	}
	return nil
}

// Export returns both persisted records.
func (s *LibraryService) Export(ctx context.Context) (*store.Snapshot, error) {
	return s.loadView(ctx)
}

// Ping verifies the store can be read.
func (s *LibraryService) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.store.LoadBooks(ctx); err != nil {
		return fmt.Errorf("ping store: %w", err)
	}
	return nil
}
