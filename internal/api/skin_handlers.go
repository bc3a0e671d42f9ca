package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nightstandapp/nightstand-server/internal/service"
)

func (s *Server) registerSkinRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSkins",
		Method:      http.MethodGet,
		Path:        "/api/v1/skins",
		Summary:     "List skins",
		Description: "Returns every cosmetic with its unlock state for the current collection",
		Tags:        []string{"Skins"},
	}, s.handleListSkins)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectNightstandSkin",
		Method:      http.MethodPut,
		Path:        "/api/v1/skins/selected",
		Summary:     "Select nightstand skin",
		Description: "Selects an unlocked nightstand skin",
		Tags:        []string{"Skins"},
	}, s.handleSelectNightstandSkin)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNightstand",
		Method:      http.MethodGet,
		Path:        "/api/v1/nightstand",
		Summary:     "Get nightstand",
		Description: "Returns the nightstand books and the skin image to show for them",
		Tags:        []string{"Skins"},
	}, s.handleGetNightstand)
}

// SkinCatalogOutput wraps the evaluated catalog for Huma.
type SkinCatalogOutput struct {
	Body *service.SkinCatalogView
}

func (s *Server) handleListSkins(ctx context.Context, _ *struct{}) (*SkinCatalogOutput, error) {
	view, err := s.library.ListSkins(ctx)
	if err != nil {
		return nil, err
	}
	return &SkinCatalogOutput{Body: view}, nil
}

// SelectSkinInput names the skin to select.
type SelectSkinInput struct {
	Body struct {
		SkinID string `json:"skinId" doc:"Variant 1 id of a nightstand skin, e.g. spooky-1"`
	}
}

func (s *Server) handleSelectNightstandSkin(ctx context.Context, input *SelectSkinInput) (*ProfileOutput, error) {
	view, err := s.library.SelectNightstandSkin(ctx, input.Body.SkinID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: view}, nil
}

// NightstandOutput wraps the nightstand view for Huma.
type NightstandOutput struct {
	Body *service.NightstandView
}

func (s *Server) handleGetNightstand(ctx context.Context, _ *struct{}) (*NightstandOutput, error) {
	view, err := s.library.NightstandDisplay(ctx)
	if err != nil {
		return nil, err
	}
	return &NightstandOutput{Body: view}, nil
}
