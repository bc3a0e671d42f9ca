// Package service implements the reading tracker on top of the store: the
// transition engine that moves books between bag, nightstand and shelf, the
// profile aggregates it maintains, and the cosmetic unlocks derived from them.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
	"github.com/nightstandapp/nightstand-server/internal/metadata"
	"github.com/nightstandapp/nightstand-server/internal/search"
	"github.com/nightstandapp/nightstand-server/internal/skins"
	"github.com/nightstandapp/nightstand-server/internal/sse"
	"github.com/nightstandapp/nightstand-server/internal/store"
	"github.com/nightstandapp/nightstand-server/internal/validation"
)

// MetadataLookup finds book metadata in an external catalog.
type MetadataLookup interface {
	Search(ctx context.Context, query string, limit int) ([]metadata.Candidate, error)
	Volume(ctx context.Context, volumeID string) (*metadata.Candidate, error)
}

// LibraryService owns the reader's collection and profile.
//
// Every mutation is a load, mutate, save cycle over the whole snapshot, run
// under mu so that concurrent callers in this process are applied one at a
// time. Reads go straight to the store.
type LibraryService struct {
	mu        sync.Mutex
	store     store.Store
	catalog   atomic.Pointer[skins.Catalog]
	lookup    MetadataLookup
	index     *search.Index
	covers    CoverCache
	emitter   store.EventEmitter
	validator *validation.Validator
	rules     domain.Rules
	now       func() time.Time
	logger    *slog.Logger
}

// NewLibraryService creates a new library service. lookup may be nil, in
// which case metadata operations report the lookup as unavailable.
func NewLibraryService(
	st store.Store,
	catalog *skins.Catalog,
	lookup MetadataLookup,
	emitter store.EventEmitter,
	rules domain.Rules,
	logger *slog.Logger,
) *LibraryService {
	if emitter == nil {
		emitter = store.NewNoopEmitter()
	}
	s := &LibraryService{
		store:     st,
		lookup:    lookup,
		index:     search.NewIndex(logger),
		emitter:   emitter,
		validator: validation.New(),
		rules:     rules,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
	s.catalog.Store(catalog)
	return s
}

// Catalog returns the skin catalog the service evaluates unlocks against.
func (s *LibraryService) Catalog() *skins.Catalog {
	return s.catalog.Load()
}

// SetCatalog replaces the skin catalog. Unlocks are derived on every call,
// so the new catalog applies from the next operation on.
func (s *LibraryService) SetCatalog(c *skins.Catalog) {
	s.catalog.Store(c)
	s.logger.Info("skin catalog replaced", "skins", c.Len())
}

// step is the working state of one mutation.
type step struct {
	snap   *store.Snapshot
	now    time.Time
	events []any
	noop   bool
}

func (st *step) emit(events ...any) {
	st.events = append(st.events, events...)
}

// profile is only valid inside commit calls made with requireProfile.
func (st *step) profile() *domain.UserProfile {
	return st.snap.Profile
}

func (st *step) bookIndex(bookID string) (int, error) {
	i := slices.IndexFunc(st.snap.Books, func(b domain.Book) bool { return b.ID == bookID })
	if i < 0 {
		return -1, notFoundBook(bookID)
	}
	return i, nil
}

// commit runs fn against a freshly loaded snapshot and persists the result
// in a single store transaction. Nothing is saved or emitted if fn fails.
// It returns the skins that became unlocked through this mutation.
func (s *LibraryService) commit(ctx context.Context, requireProfile bool, fn func(st *step) error) (*step, []domain.Skin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load library: %w", err)
	}
	if requireProfile && snap.Profile == nil {
		return nil, nil, errProfileNotFound()
	}

	catalog := s.Catalog().All()
	before := domain.UnlockedIDs(domain.EvaluateSkins(catalog, snap.Books))

	st := &step{snap: snap, now: s.now()}
	if err := fn(st); err != nil {
		return nil, nil, err
	}
	if st.noop {
		return st, nil, nil
	}

	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return nil, nil, fmt.Errorf("save library: %w", err)
	}

	var unlocked []domain.Skin
	for _, id := range domain.UnlockedIDs(domain.EvaluateSkins(catalog, snap.Books)) {
		if slices.Contains(before, id) {
			continue
		}
		skin, _ := domain.FindSkin(catalog, id)
		unlocked = append(unlocked, skin)
		st.emit(sse.NewSkinUnlockedEvent(skin))
		s.logger.Info("skin unlocked", "skin_id", id)
	}

	for _, e := range st.events {
		s.emitter.Emit(e)
	}
	return st, unlocked, nil
}

func notFoundBook(bookID string) error {
	return domainerrors.NotFoundf("book %s not found", bookID)
}

func errProfileNotFound() error {
	return domainerrors.Wrap(store.ErrProfileNotFound, domainerrors.CodeNotFound, "no profile has been created")
}

// engineError turns transition engine failures into validation errors and
// leaves everything else alone.
func engineError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrSameStatus),
		errors.Is(err, domain.ErrEmptyProgress),
		errors.Is(err, domain.ErrRatingOutOfRange),
		errors.Is(err, domain.ErrPagesOutOfRange),
		errors.Is(err, domain.ErrNotReading):
		return domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid book change")
	default:
		return err
	}
}
