package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	domainerrors "github.com/nightstandapp/nightstand-server/internal/errors"
	"github.com/nightstandapp/nightstand-server/internal/media/covers"
	"github.com/nightstandapp/nightstand-server/internal/media/images"
	"github.com/nightstandapp/nightstand-server/internal/sse"
)

// CoverCache stores book cover images locally.
type CoverCache interface {
	Download(ctx context.Context, bookID, url string) (*covers.Cover, error)
	Open(bookID string) ([]byte, string, error)
	Hash(bookID string) (string, error)
	Remove(bookID string) error
	RemoveAll() error
}

// CoverImage is a cached cover ready to serve.
type CoverImage struct {
	Data        []byte
	ContentType string
	ETag        string
}

// UseCovers enables cover caching. Without it the cover operations report
// the cache as unavailable and deletions leave no files behind to clean up.
func (s *LibraryService) UseCovers(c CoverCache) {
	s.covers = c
}

// CacheCover downloads the book's cover URL into the local cache and records
// its blurhash on the book.
func (s *LibraryService) CacheCover(ctx context.Context, bookID string) (*domain.Book, error) {
	if s.covers == nil {
		return nil, domainerrors.Validation("cover caching is not enabled")
	}

	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.CoverImageURL == "" {
		return nil, domainerrors.Validationf("book %s has no cover URL", bookID)
	}

	// The download runs outside the library lock.
	cover, err := s.covers.Download(ctx, bookID, book.CoverImageURL)
	if err != nil {
		if errors.Is(err, covers.ErrNotImage) {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "cover URL did not return an image")
		}
		return nil, fmt.Errorf("cache cover: %w", err)
	}

	var updated *domain.Book
	_, _, err = s.commit(ctx, true, func(st *step) error {
		i, err := st.bookIndex(bookID)
		if err != nil {
			return err
		}
		b := &st.snap.Books[i]
		b.CoverBlurHash = cover.BlurHash
		updated = b.Clone()
		st.emit(sse.NewBookUpdatedEvent(updated))
		return nil
	})
	if err != nil {
		// The book went away while downloading.
		_ = s.covers.Remove(bookID)
		return nil, err
	}

	s.logger.Info("cover cached", "book_id", bookID, "width", cover.Width, "height", cover.Height)
	return updated, nil
}

// Cover returns the cached cover of a book.
func (s *LibraryService) Cover(ctx context.Context, bookID string) (*CoverImage, error) {
	if s.covers == nil {
		return nil, domainerrors.NotFoundf("no cover cached for book %s", bookID)
	}
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	data, contentType, err := s.covers.Open(bookID)
	if errors.Is(err, images.ErrNotFound) {
		return nil, domainerrors.NotFoundf("no cover cached for book %s", bookID)
	}
	if err != nil {
		return nil, fmt.Errorf("open cover: %w", err)
	}
	etag, err := s.covers.Hash(bookID)
	if err != nil {
		return nil, fmt.Errorf("hash cover: %w", err)
	}
	return &CoverImage{Data: data, ContentType: contentType, ETag: etag}, nil
}

func (s *LibraryService) dropCover(bookID string) {
	if s.covers == nil {
		return
	}
	if err := s.covers.Remove(bookID); err != nil {
		s.logger.Warn("failed to remove cached cover", "book_id", bookID, "error", err)
	}
}

func (s *LibraryService) dropAllCovers() {
	if s.covers == nil {
		return
	}
	if err := s.covers.RemoveAll(); err != nil {
		s.logger.Warn("failed to clear cached covers", "error", err)
	}
}
