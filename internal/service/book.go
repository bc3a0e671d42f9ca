package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/id"
	"github.com/nightstandapp/nightstand-server/internal/normalize"
	"github.com/nightstandapp/nightstand-server/internal/sse"
)

// BookChange is the outcome of a mutation that touched one book.
type BookChange struct {
	Book     *domain.Book  `json:"book"`
	Effect   domain.Effect `json:"effect"`
	Profile  *ProfileView  `json:"profile"`
	Unlocked []domain.Skin `json:"unlocked,omitempty"`
}

// BookFilter narrows ListBooks. A zero filter returns every visible book.
type BookFilter struct {
	Status        domain.Status
	IncludeHidden bool
}

// AddBook validates in and adds a new book. Adding straight to the
// nightstand or shelf counts as the matching transition.
func (s *LibraryService) AddBook(ctx context.Context, in domain.NewBook) (*BookChange, error) {
	in = cleanNewBook(in)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	if in.Language != "" {
		in.Language = normalize.LanguageCode(in.Language)
	}

	bookID, err := id.Book()
	if err != nil {
		return nil, fmt.Errorf("generate book id: %w", err)
	}

	var book *domain.Book
	var effect domain.Effect
	st, unlocked, err := s.commit(ctx, true, func(st *step) error {
		b, e, err := domain.CreateBook(bookID, in, st.now, s.rules)
		if err != nil {
			return engineError(err)
		}
		book, effect = b, e
		st.snap.Books = append(st.snap.Books, *b)
		st.profile().Apply(effect, st.now)

		st.emit(sse.NewBookAddedEvent(b, effect))
		if !effect.IsZero() {
			st.emit(sse.NewProfileUpdatedEvent(st.profile()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("book added",
		"book_id", book.ID,
		"title", book.Title,
		"status", book.Status,
		"xp", effect.ExperiencePoints,
		"pages", effect.PagesRead,
	)

	return &BookChange{Book: book, Effect: effect, Profile: NewProfileView(st.profile()), Unlocked: unlocked}, nil
}

// cleanNewBook trims text fields and canonicalizes the status spelling so
// that "shelf" validates like "Shelf".
func cleanNewBook(in domain.NewBook) domain.NewBook {
	in.Title = normalize.Text(in.Title)
	in.Author = normalize.Text(in.Author)
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Genre = strings.TrimSpace(in.Genre)
	in.Language = strings.TrimSpace(in.Language)
	in.CoverImageURL = strings.TrimSpace(in.CoverImageURL)
	if in.Status != "" {
		if status, err := domain.ParseStatus(string(in.Status)); err == nil {
			in.Status = status
		}
	}
	return in
}

// MoveBook transitions a book to another status and applies the reward.
func (s *LibraryService) MoveBook(ctx context.Context, bookID string, to domain.Status) (*BookChange, error) {
	var book *domain.Book
	var effect domain.Effect
	var from domain.Status
	st, unlocked, err := s.commit(ctx, true, func(st *step) error {
		i, err := st.bookIndex(bookID)
		if err != nil {
			return err
		}
		b := &st.snap.Books[i]
		from = b.Status
		e, err := b.MoveTo(to, st.now, s.rules)
		if err != nil {
			return engineError(err)
		}
		book, effect = b.Clone(), e
		st.profile().Apply(effect, st.now)

		st.emit(sse.NewBookMovedEvent(book, from, effect))
		if !effect.IsZero() {
			st.emit(sse.NewProfileUpdatedEvent(st.profile()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("book moved",
		"book_id", bookID,
		"from", from,
		"to", to,
		"xp", effect.ExperiencePoints,
		"pages", effect.PagesRead,
	)

	return &BookChange{Book: book, Effect: effect, Profile: NewProfileView(st.profile()), Unlocked: unlocked}, nil
}

// UpdateProgress edits the rating and/or pages read of a book.
func (s *LibraryService) UpdateProgress(ctx context.Context, bookID string, u domain.ProgressUpdate) (*BookChange, error) {
	var book *domain.Book
	var effect domain.Effect
	st, unlocked, err := s.commit(ctx, true, func(st *step) error {
		i, err := st.bookIndex(bookID)
		if err != nil {
			return err
		}
		b := &st.snap.Books[i]
		e, err := b.ApplyProgress(u)
		if err != nil {
			return engineError(err)
		}
		book, effect = b.Clone(), e
		st.profile().Apply(effect, st.now)

		st.emit(sse.NewBookProgressEvent(book, effect))
		if !effect.IsZero() {
			st.emit(sse.NewProfileUpdatedEvent(st.profile()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("book progress updated", "book_id", bookID, "pages", effect.PagesRead)

	return &BookChange{Book: book, Effect: effect, Profile: NewProfileView(st.profile()), Unlocked: unlocked}, nil
}

// SetHidden hides or shows a book in default listings. Hidden books keep
// counting toward the reader's totals and unlocks.
func (s *LibraryService) SetHidden(ctx context.Context, bookID string, hidden bool) (*domain.Book, error) {
	var book *domain.Book
	_, _, err := s.commit(ctx, true, func(st *step) error {
		i, err := st.bookIndex(bookID)
		if err != nil {
			return err
		}
		b := &st.snap.Books[i]
		if b.Hidden == hidden {
			book = b.Clone()
			st.noop = true
			return nil
		}
		b.Hidden = hidden
		book = b.Clone()
		st.emit(sse.NewBookUpdatedEvent(book))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes a book. Its page contribution is taken off the total;
// experience and the books-read count already earned are kept.
func (s *LibraryService) DeleteBook(ctx context.Context, bookID string) (*BookChange, error) {
	var book *domain.Book
	var effect domain.Effect
	st, _, err := s.commit(ctx, true, func(st *step) error {
		i, err := st.bookIndex(bookID)
		if err != nil {
			return err
		}
		book = st.snap.Books[i].Clone()
		effect = domain.Effect{PagesRead: -book.PageContribution()}
		st.snap.Books = append(st.snap.Books[:i], st.snap.Books[i+1:]...)
		st.profile().Apply(effect, st.now)

		st.emit(sse.NewBookDeletedEvent(bookID, st.now))
		if !effect.IsZero() {
			st.emit(sse.NewProfileUpdatedEvent(st.profile()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dropCover(bookID)
	s.logger.Info("book deleted", "book_id", bookID, "pages", effect.PagesRead)

	return &BookChange{Book: book, Effect: effect, Profile: NewProfileView(st.profile())}, nil
}

// GetBook returns one book by id, hidden or not.
func (s *LibraryService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	books, err := s.loadBooks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].ID == bookID {
			return &books[i], nil
		}
	}
	return nil, notFoundBook(bookID)
}

// ListBooks returns books in insertion order.
func (s *LibraryService) ListBooks(ctx context.Context, filter BookFilter) ([]domain.Book, error) {
	books, err := s.loadBooks(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if !filter.IncludeHidden && !b.Visible() {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *LibraryService) loadBooks(ctx context.Context) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	books, err := s.store.LoadBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	return books, nil
}
