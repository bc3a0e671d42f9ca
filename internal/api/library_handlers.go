package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
	"github.com/nightstandapp/nightstand-server/internal/metadata"
	"github.com/nightstandapp/nightstand-server/internal/service"
	"github.com/nightstandapp/nightstand-server/internal/store"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "reconcileStats",
		Method:      http.MethodPost,
		Path:        "/api/v1/stats/reconcile",
		Summary:     "Reconcile pages read",
		Description: "Recomputes the pages-read total from the collection",
		Tags:        []string{"Library"},
	}, s.handleReconcile)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/export",
		Summary:     "Export library",
		Description: "Returns the persisted books and profile",
		Tags:        []string{"Library"},
	}, s.handleExport)

	huma.Register(s.api, huma.Operation{
		OperationID:   "resetLibrary",
		Method:        http.MethodPost,
		Path:          "/api/v1/reset",
		Summary:       "Reset library",
		Description:   "Deletes every book and the profile. Requires confirm=true.",
		Tags:          []string{"Library"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleReset)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchMetadata",
		Method:      http.MethodGet,
		Path:        "/api/v1/metadata/search",
		Summary:     "Search book catalog",
		Description: "Searches the external book catalog",
		Tags:        []string{"Metadata"},
	}, s.handleSearchMetadata)
}

// ReconcileOutput wraps a reconciliation result for Huma.
type ReconcileOutput struct {
	Body *service.ReconcileResult
}

func (s *Server) handleReconcile(ctx context.Context, _ *struct{}) (*ReconcileOutput, error) {
	result, err := s.library.ReconcileTotalPagesRead(ctx)
	if err != nil {
		return nil, err
	}
	return &ReconcileOutput{Body: result}, nil
}

// ExportOutput wraps the snapshot for Huma.
type ExportOutput struct {
	Body *store.Snapshot
}

func (s *Server) handleExport(ctx context.Context, _ *struct{}) (*ExportOutput, error) {
	snap, err := s.library.Export(ctx)
	if err != nil {
		return nil, err
	}
	return &ExportOutput{Body: snap}, nil
}

// ResetInput requires an explicit confirmation.
type ResetInput struct {
	Confirm bool `query:"confirm" doc:"Must be true"`
}

func (s *Server) handleReset(ctx context.Context, input *ResetInput) (*struct{}, error) {
	if !input.Confirm {
		return nil, domainerrors.Validation("reset requires confirm=true")
	}
	if err := s.library.Reset(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

// SearchMetadataInput contains the catalog query.
type SearchMetadataInput struct {
	Query string `query:"q" doc:"Search text"`
	Limit int    `query:"limit" minimum:"0" maximum:"40" doc:"Maximum results (default 10)"`
}

// SearchMetadataResponse lists catalog matches.
type SearchMetadataResponse struct {
	Results []metadata.Candidate `json:"results"`
}

// SearchMetadataOutput wraps catalog matches for Huma.
type SearchMetadataOutput struct {
	Body SearchMetadataResponse
}

func (s *Server) handleSearchMetadata(ctx context.Context, input *SearchMetadataInput) (*SearchMetadataOutput, error) {
	results, err := s.library.SearchMetadata(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchMetadataOutput{Body: SearchMetadataResponse{Results: results}}, nil
}
