package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createProfile",
		Method:        http.MethodPost,
		Path:          "/api/v1/profile",
		Summary:       "Create profile",
		Description:   "Creates the reader profile. Only one profile can exist.",
		Tags:          []string{"Profile"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile",
		Summary:     "Get profile",
		Description: "Returns the reader profile with its derived level",
		Tags:        []string{"Profile"},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/profile",
		Summary:     "Update profile",
		Description: "Changes the username and/or bio",
		Tags:        []string{"Profile"},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAvatar",
		Method:      http.MethodPut,
		Path:        "/api/v1/profile/avatar",
		Summary:     "Update avatar",
		Description: "Replaces the avatar part selections",
		Tags:        []string{"Profile"},
	}, s.handleUpdateAvatar)

	huma.Register(s.api, huma.Operation{
		OperationID: "addFavoriteGenre",
		Method:      http.MethodPost,
		Path:        "/api/v1/profile/genres",
		Summary:     "Add favorite genre",
		Tags:        []string{"Profile"},
	}, s.handleAddFavoriteGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFavoriteGenre",
		Method:      http.MethodDelete,
		Path:        "/api/v1/profile/genres/{genre}",
		Summary:     "Remove favorite genre",
		Tags:        []string{"Profile"},
	}, s.handleRemoveFavoriteGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "setPreferredLanguages",
		Method:      http.MethodPut,
		Path:        "/api/v1/profile/languages",
		Summary:     "Set preferred languages",
		Description: "Replaces the preferred languages. Accepts codes or English names.",
		Tags:        []string{"Profile"},
	}, s.handleSetPreferredLanguages)
}

// ProfileOutput wraps a profile view for Huma.
type ProfileOutput struct {
	Body *service.ProfileView
}

// CreateProfileInput contains the new profile.
type CreateProfileInput struct {
	Body struct {
		Username string        `json:"username" maxLength:"50" doc:"Display name"`
		Avatar   domain.Avatar `json:"avatar,omitempty" doc:"Avatar part selections"`
		Bio      string        `json:"bio,omitempty" maxLength:"500" doc:"Short bio"`
	}
}

func (s *Server) handleCreateProfile(ctx context.Context, input *CreateProfileInput) (*ProfileOutput, error) {
	view, err := s.library.CreateProfile(ctx, service.CreateProfileRequest{
		Username: input.Body.Username,
		Avatar:   input.Body.Avatar,
		Bio:      input.Body.Bio,
	})
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: view}, nil
}

func (s *Server) handleGetProfile(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	view, err := s.library.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: view}, nil
}

// UpdateProfileInput contains optional profile fields.
type UpdateProfileInput struct {
	Body struct {
		Username *string `json:"username,omitempty" doc:"Rejected: the username is fixed at creation"`
		Bio      *string `json:"bio,omitempty" maxLength:"500"`
	}
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	view, err := s.library.UpdateProfile(ctx, service.UpdateProfileRequest{
		Username: input.Body.Username,
		Bio:      input.Body.Bio,
	})
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: view}, nil
}

// UpdateAvatarInput contains the full avatar selection.
type UpdateAvatarInput struct {
	Body domain.Avatar
}

func (s *Server) handleUpdateAvatar(ctx context.Context, input *UpdateAvatarInput) (*ProfileOutput, error) {
	view, err := s.library.UpdateAvatar(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: view}, nil
}

// AddFavoriteGenreInput names the genre to add.
type AddFavoriteGenreInput struct {
	Body struct {
		Genre string `json:"genre" doc:"Genre name, e.g. Horror or sci-fi"`
	}
}

func (s *Server) handleAddFavoriteGenre(ctx context.Context, input *AddFavoriteGenreInput) (*ProfileOutput, error) {
	view, err := s.library.AddFavoriteGenre(ctx, input.Body.Genre)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: view}, nil
}

// RemoveFavoriteGenreInput names the genre to remove.
type RemoveFavoriteGenreInput struct {
	Genre string `path:"genre" doc:"Genre name or slug"`
}

func (s *Server) handleRemoveFavoriteGenre(ctx context.Context, input *RemoveFavoriteGenreInput) (*ProfileOutput, error) {
	view, err := s.library.RemoveFavoriteGenre(ctx, input.Genre)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: view}, nil
}

// SetPreferredLanguagesInput contains the language list.
type SetPreferredLanguagesInput struct {
	Body struct {
		Languages []string `json:"languages" maxItems:"20"`
	}
}

func (s *Server) handleSetPreferredLanguages(ctx context.Context, input *SetPreferredLanguagesInput) (*ProfileOutput, error) {
	view, err := s.library.SetPreferredLanguages(ctx, input.Body.Languages)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: view}, nil
}
