package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
	"github.com/nightstandapp/nightstand-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "addBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Add book",
		Description:   "Adds a book. Adding straight to the shelf completes it.",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addBookFromLookup",
		Method:        http.MethodPost,
		Path:          "/api/v1/books/lookup",
		Summary:       "Add book from lookup",
		Description:   "Adds a book using metadata from the book catalog",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddBookFromLookup)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns books in the order they were added",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/search",
		Summary:     "Search books",
		Description: "Full-text search over the collection, best match first",
		Tags:        []string{"Books"},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/move",
		Summary:     "Move book",
		Description: "Moves a book between bag, nightstand and shelf",
		Tags:        []string{"Books"},
	}, s.handleMoveBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBookProgress",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}/progress",
		Summary:     "Update progress",
		Description: "Edits the rating and/or pages read",
		Tags:        []string{"Books"},
	}, s.handleUpdateProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "setBookHidden",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/hidden",
		Summary:     "Hide or show book",
		Tags:        []string{"Books"},
	}, s.handleSetHidden)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book. Experience already earned is kept.",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)
}

// BookChangeOutput wraps a mutation result for Huma.
type BookChangeOutput struct {
	Body *service.BookChange
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body *domain.Book
}

// BookListResponse is a list of books.
type BookListResponse struct {
	Books []domain.Book `json:"books"`
	Total int           `json:"total"`
}

// BookListOutput wraps a book list for Huma.
type BookListOutput struct {
	Body BookListResponse
}

// AddBookInput contains the new book. Field names match the book representation.
type AddBookInput struct {
	Body struct {
		Title         string   `json:"title" maxLength:"500"`
		Author        string   `json:"author" maxLength:"300"`
		Status        string   `json:"status,omitempty" doc:"Bag (default), Nightstand or Shelf"`
		TotalPages    *int     `json:"totalPages,omitempty" minimum:"0"`
		PagesRead     *int     `json:"pagesRead,omitempty" minimum:"0" doc:"Only for books added to the nightstand"`
		Rating        *int     `json:"rating,omitempty" minimum:"1" maximum:"5"`
		Notes         string   `json:"notes,omitempty"`
		ISBN          string   `json:"isbn,omitempty"`
		Keywords      []string `json:"keywords,omitempty"`
		CoverImageURL string   `json:"coverImageUrl,omitempty"`
		Synopsis      string   `json:"synopsis,omitempty"`
		ReleaseDate   string   `json:"releaseDate,omitempty"`
		Publisher     string   `json:"publisher,omitempty"`
		Genre         string   `json:"genre,omitempty"`
		Language      string   `json:"language,omitempty" doc:"Language code or English name"`
	}
}

func (s *Server) handleAddBook(ctx context.Context, input *AddBookInput) (*BookChangeOutput, error) {
	b := input.Body
	change, err := s.library.AddBook(ctx, domain.NewBook{
		Title:         b.Title,
		Author:        b.Author,
		Status:        domain.Status(b.Status),
		TotalPages:    b.TotalPages,
		PagesRead:     b.PagesRead,
		Rating:        b.Rating,
		Notes:         b.Notes,
		ISBN:          b.ISBN,
		Keywords:      b.Keywords,
		CoverImageURL: b.CoverImageURL,
		Synopsis:      b.Synopsis,
		ReleaseDate:   b.ReleaseDate,
		Publisher:     b.Publisher,
		Genre:         b.Genre,
		Language:      b.Language,
	})
	if err != nil {
		return nil, err
	}
	return &BookChangeOutput{Body: change}, nil
}

// AddBookFromLookupInput selects a catalog entry.
type AddBookFromLookupInput struct {
	Body struct {
		VolumeID string `json:"volumeId,omitempty" doc:"Catalog volume ID; wins over query"`
		Query    string `json:"query,omitempty" doc:"Search text; the best match is added"`
		Status   string `json:"status,omitempty" doc:"Bag (default), Nightstand or Shelf"`
	}
}

func (s *Server) handleAddBookFromLookup(ctx context.Context, input *AddBookFromLookupInput) (*BookChangeOutput, error) {
	change, err := s.library.AddBookFromLookup(ctx, service.LookupRequest{
		VolumeID: input.Body.VolumeID,
		Query:    input.Body.Query,
		Status:   domain.Status(input.Body.Status),
	})
	if err != nil {
		return nil, err
	}
	return &BookChangeOutput{Body: change}, nil
}

// ListBooksInput contains list filters.
type ListBooksInput struct {
	Status        string `query:"status" doc:"Only books with this status"`
	IncludeHidden bool   `query:"include_hidden" doc:"Include hidden books"`
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookListOutput, error) {
	filter := service.BookFilter{IncludeHidden: input.IncludeHidden}
	if input.Status != "" {
		status, err := parseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	books, err := s.library.ListBooks(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: books, Total: len(books)}}, nil
}

// SearchBooksInput contains the query and filters.
type SearchBooksInput struct {
	Query         string `query:"q" required:"true" minLength:"1" doc:"Words to match"`
	Status        string `query:"status" doc:"Only books with this status"`
	IncludeHidden bool   `query:"include_hidden" doc:"Include hidden books"`
	Limit         int    `query:"limit" default:"20" minimum:"1" maximum:"100"`
}

// SearchBooksOutput wraps search hits for Huma.
type SearchBooksOutput struct {
	Body *service.SearchBooksResult
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*SearchBooksOutput, error) {
	req := service.SearchBooksRequest{
		Query:         input.Query,
		IncludeHidden: input.IncludeHidden,
		Limit:         input.Limit,
	}
	if input.Status != "" {
		status, err := parseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		req.Status = status
	}

	res, err := s.library.SearchBooks(ctx, req)
	if err != nil {
		return nil, err
	}
	return &SearchBooksOutput{Body: res}, nil
}

// BookIDInput identifies a book.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	book, err := s.library.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

// MoveBookInput contains the target status.
type MoveBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body struct {
		Status string `json:"status" doc:"Bag, Nightstand or Shelf"`
	}
}

func (s *Server) handleMoveBook(ctx context.Context, input *MoveBookInput) (*BookChangeOutput, error) {
	to, err := parseStatus(input.Body.Status)
	if err != nil {
		return nil, err
	}
	change, err := s.library.MoveBook(ctx, input.ID, to)
	if err != nil {
		return nil, err
	}
	return &BookChangeOutput{Body: change}, nil
}

// UpdateProgressInput contains the progress edit.
type UpdateProgressInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body domain.ProgressUpdate
}

func (s *Server) handleUpdateProgress(ctx context.Context, input *UpdateProgressInput) (*BookChangeOutput, error) {
	change, err := s.library.UpdateProgress(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookChangeOutput{Body: change}, nil
}

// SetHiddenInput contains the visibility flag.
type SetHiddenInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body struct {
		Hidden bool `json:"hidden"`
	}
}

func (s *Server) handleSetHidden(ctx context.Context, input *SetHiddenInput) (*BookOutput, error) {
	book, err := s.library.SetHidden(ctx, input.ID, input.Body.Hidden)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*BookChangeOutput, error) {
	change, err := s.library.DeleteBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookChangeOutput{Body: change}, nil
}

func parseStatus(raw string) (domain.Status, error) {
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return "", domainerrors.Validationf("status must be Bag, Nightstand or Shelf, got %q", raw)
	}
	return status, nil
}
