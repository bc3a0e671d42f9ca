package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
	"github.com/nightstandapp/nightstand-server/internal/sse"
	"github.com/nightstandapp/nightstand-server/internal/store"
)

// SkinView is a catalog entry as one reader sees it.
type SkinView struct {
	domain.SkinState
	Owned      bool `json:"owned"`
	Selected   bool `json:"selected"`
	Selectable bool `json:"selectable"`
}

// SkinCatalogView lists every skin with its unlock state.
type SkinCatalogView struct {
	Skins                    []SkinView `json:"skins"`
	SelectedNightstandSkinID string     `json:"selectedNightstandSkinId"`
}

// NightstandView is what the nightstand screen renders.
type NightstandView struct {
	Skin  domain.Skin   `json:"skin"`
	Books []domain.Book `json:"books"`
	Count int           `json:"count"`
}

// loadView reads books and the profile, if any, without taking the write lock.
func (s *LibraryService) loadView(ctx context.Context) (*store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}
	return snap, nil
}

// ListSkins evaluates the catalog against the current collection. Unlocks
// are recomputed on every call, so removing a completed book can relock a skin.
func (s *LibraryService) ListSkins(ctx context.Context) (*SkinCatalogView, error) {
	snap, err := s.loadView(ctx)
	if err != nil {
		return nil, err
	}

	catalog := s.Catalog().All()
	selected := domain.DefaultNightstandSkinID
	if snap.Profile != nil && snap.Profile.SelectedNightStandSkinID != "" {
		selected = snap.Profile.SelectedNightStandSkinID
	}

	states := domain.EvaluateSkins(catalog, snap.Books)
	view := &SkinCatalogView{
		Skins:                    make([]SkinView, 0, len(states)),
		SelectedNightstandSkinID: selected,
	}
	for _, st := range states {
		v := SkinView{
			SkinState:  st,
			Selected:   st.Category == domain.CategoryNightstand && st.ID == selected,
			Selectable: st.Variant() == 1,
		}
		if snap.Profile != nil {
			v.Owned = snap.Profile.Owns(st.Category, st.ID)
		}
		view.Skins = append(view.Skins, v)
	}
	return view, nil
}

// SelectNightstandSkin makes skinID the nightstand skin. The skin must exist,
// be a selectable nightstand skin and be unlocked by the current collection.
// Selecting a skin also records it as owned.
func (s *LibraryService) SelectNightstandSkin(ctx context.Context, skinID string) (*ProfileView, error) {
	skin, ok := s.Catalog().Find(skinID)
	if !ok {
		return nil, domainerrors.NotFoundf("skin %s not found", skinID)
	}
	if skin.Category != domain.CategoryNightstand || skin.Variant() != 1 {
		return nil, domainerrors.Validationf("skin %s cannot be selected for the nightstand", skinID)
	}

	st, _, err := s.commit(ctx, true, func(st *step) error {
		state := domain.EvaluateSkins([]domain.Skin{skin}, st.snap.Books)[0]
		if !state.Unlocked {
			return domainerrors.SkinLocked(skinID, map[string]any{
				"requirement": skin.Requirement,
				"progress":    state.Progress,
			})
		}

		p := st.profile()
		granted := p.Grant(skin.Category, skin.ID)
		if !granted && p.SelectedNightStandSkinID == skin.ID {
			st.noop = true
			return nil
		}
		p.SelectedNightStandSkinID = skin.ID
		p.UpdatedAt = st.now
		st.emit(sse.NewProfileUpdatedEvent(p))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("nightstand skin selected", "skin_id", skinID)
	return NewProfileView(st.profile()), nil
}

// NightstandDisplay picks the skin image for the visible nightstand books.
func (s *LibraryService) NightstandDisplay(ctx context.Context) (*NightstandView, error) {
	snap, err := s.loadView(ctx)
	if err != nil {
		return nil, err
	}

	selected := domain.DefaultNightstandSkinID
	if snap.Profile != nil && snap.Profile.SelectedNightStandSkinID != "" {
		selected = snap.Profile.SelectedNightStandSkinID
	}

	books := make([]domain.Book, 0)
	for _, b := range snap.Books {
		if b.Status == domain.StatusNightstand && b.Visible() {
			books = append(books, b)
		}
	}

	skin, ok := domain.DisplayVariant(s.Catalog().All(), selected, len(books))
	if !ok {
		return nil, errors.New("skin catalog is empty")
	}
	return &NightstandView{Skin: skin, Books: books, Count: len(books)}, nil
}
