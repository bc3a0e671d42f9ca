package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nightstandapp/nightstand-server/internal/color"
	"github.com/nightstandapp/nightstand-server/internal/domain"
	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
	"github.com/nightstandapp/nightstand-server/internal/genre"
	"github.com/nightstandapp/nightstand-server/internal/normalize"
	"github.com/nightstandapp/nightstand-server/internal/sse"
	"github.com/nightstandapp/nightstand-server/internal/store"
)

// ProfileView is a profile together with its derived level.
type ProfileView struct {
	Profile       *domain.UserProfile `json:"profile"`
	Level         int                 `json:"level"`
	LevelXP       int                 `json:"levelXp"`
	NextLevelXP   int                 `json:"nextLevelXp"`
	XPToNextLevel int                 `json:"xpToNextLevel"`
	AvatarColor   string              `json:"avatarColor"`
}

// NewProfileView derives the level fields for p.
func NewProfileView(p *domain.UserProfile) *ProfileView {
	level := p.Level()
	v := &ProfileView{
		Profile:       p,
		Level:         level,
		LevelXP:       domain.ThresholdForLevel(level),
		XPToNextLevel: domain.XPToNextLevel(p.ExperiencePoints),
		AvatarColor:   color.ForName(p.Username),
	}
	if level < domain.MaxLevel {
		v.NextLevelXP = domain.ThresholdForLevel(level + 1)
	}
	return v
}

// CreateProfileRequest contains the fields of a new profile.
type CreateProfileRequest struct {
	Username string        `json:"username" validate:"required,max=50"`
	Avatar   domain.Avatar `json:"avatar"`
	Bio      string        `json:"bio,omitempty" validate:"max=500"`
}

// CreateProfile creates the installation's single profile.
func (s *LibraryService) CreateProfile(ctx context.Context, req CreateProfileRequest) (*ProfileView, error) {
	req.Username = normalize.Text(req.Username)
	req.Bio = strings.TrimSpace(req.Bio)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	st, _, err := s.commit(ctx, false, func(st *step) error {
		if st.snap.Profile != nil {
			return domainerrors.AlreadyExists("a profile already exists")
		}
		st.snap.Profile = domain.NewUserProfile(req.Username, req.Avatar, req.Bio, st.now)
		// Books may predate the profile (a reset of the profile alone).
		st.snap.Profile.TotalPagesRead = domain.RecomputeTotalPagesRead(st.snap.Books)
		st.emit(sse.NewProfileUpdatedEvent(st.snap.Profile))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile created", "username", req.Username)
	return NewProfileView(st.profile()), nil
}

// GetProfile returns the profile and its level.
func (s *LibraryService) GetProfile(ctx context.Context) (*ProfileView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile, err := s.store.LoadProfile(ctx)
	if errors.Is(err, store.ErrProfileNotFound) {
		return nil, errProfileNotFound()
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return NewProfileView(profile), nil
}

// UpdateProfileRequest contains optional profile fields to update. The
// username is fixed at creation; a request naming one is rejected.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

// UpdateProfile changes the bio.
func (s *LibraryService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*ProfileView, error) {
	if req.Username != nil {
		return nil, domainerrors.Validation("username cannot be changed after the profile is created")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	st, _, err := s.commit(ctx, true, func(st *step) error {
		p := st.profile()
		if req.Bio != nil {
			p.Bio = strings.TrimSpace(*req.Bio)
		}
		p.UpdatedAt = st.now
		st.emit(sse.NewProfileUpdatedEvent(p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewProfileView(st.profile()), nil
}

// UpdateAvatar replaces the avatar part selections.
func (s *LibraryService) UpdateAvatar(ctx context.Context, avatar domain.Avatar) (*ProfileView, error) {
	st, _, err := s.commit(ctx, true, func(st *step) error {
		p := st.profile()
		p.Avatar = avatar
		p.UpdatedAt = st.now
		st.emit(sse.NewProfileUpdatedEvent(p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewProfileView(st.profile()), nil
}

// AddFavoriteGenre adds a genre to the favorites. Known genres are stored
// under their display name; adding a genre twice changes nothing.
func (s *LibraryService) AddFavoriteGenre(ctx context.Context, label string) (*ProfileView, error) {
	name := genre.Canonical(label)
	if name == "" {
		return nil, domainerrors.Validation("genre cannot be blank")
	}

	st, _, err := s.commit(ctx, true, func(st *step) error {
		p := st.profile()
		if !p.AddFavoriteGenre(name) {
			st.noop = true
			return nil
		}
		p.UpdatedAt = st.now
		st.emit(sse.NewProfileUpdatedEvent(p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewProfileView(st.profile()), nil
}

// RemoveFavoriteGenre removes a genre from the favorites. Removing a genre
// that is not a favorite changes nothing.
func (s *LibraryService) RemoveFavoriteGenre(ctx context.Context, label string) (*ProfileView, error) {
	if strings.TrimSpace(label) == "" {
		return nil, domainerrors.Validation("genre cannot be blank")
	}

	st, _, err := s.commit(ctx, true, func(st *step) error {
		p := st.profile()
		if !p.RemoveFavoriteGenre(label) {
			st.noop = true
			return nil
		}
		p.UpdatedAt = st.now
		st.emit(sse.NewProfileUpdatedEvent(p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewProfileView(st.profile()), nil
}

// SetPreferredLanguages replaces the preferred languages. Each entry may be a
// code ("en", "eng") or an English name ("English"); all are stored as
// ISO 639-1 codes where one exists.
func (s *LibraryService) SetPreferredLanguages(ctx context.Context, languages []string) (*ProfileView, error) {
	codes := make([]string, 0, len(languages))
	invalid := make(map[string]string)
	for _, raw := range languages {
		code := normalize.LanguageCode(raw)
		if code == "" {
			invalid[raw] = "must be a recognized language"
			continue
		}
		codes = append(codes, code)
	}
	if len(invalid) > 0 {
		return nil, domainerrors.ValidationWithDetails("unknown languages", invalid)
	}

	st, _, err := s.commit(ctx, true, func(st *step) error {
		p := st.profile()
		p.SetPreferredLanguages(codes)
		p.UpdatedAt = st.now
		st.emit(sse.NewProfileUpdatedEvent(p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewProfileView(st.profile()), nil
}
