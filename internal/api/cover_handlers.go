package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/nightstandapp/nightstand-server/internal/http/response"
)

func (s *Server) registerCoverRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "cacheBookCover",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/cover",
		Summary:     "Cache book cover",
		Description: "Downloads the book's cover URL into local storage and records its blurhash",
		Tags:        []string{"Books"},
	}, s.handleCacheCover)

	// Image bytes bypass the JSON envelope.
	s.router.Get("/api/v1/books/{id}/cover", s.handleGetCover)
}

func (s *Server) handleCacheCover(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	book, err := s.library.CacheCover(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

// handleGetCover serves a cached cover image.
// GET /api/v1/books/{id}/cover.
func (s *Server) handleGetCover(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")

	cover, err := s.library.Cover(r.Context(), bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	etag := `"` + cover.ETag + `"`
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", cover.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(cover.Data)))
	w.Header().Set("Cache-Control", "public, max-age=604800")
	w.Header().Set("ETag", etag)

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(cover.Data); err != nil {
		s.logger.Error("Failed to write cover response", "book_id", bookID, "error", err)
	}
}
