package domain

import (
	"errors"
	"fmt"
	"time"
)

// CompletionXP is the experience awarded when a book reaches the shelf.
const CompletionXP = 10

// Transition errors. Callers map these onto validation failures.
var (
	ErrInvalidStatus    = errors.New("invalid status")
	ErrSameStatus       = errors.New("book already has this status")
	ErrEmptyProgress    = errors.New("progress update has no fields")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrPagesOutOfRange  = errors.New("pages read out of range")
	ErrNotReading       = errors.New("pages read can only change while the book is on the nightstand")
)

// Rules tunes reward behavior.
type Rules struct {
	// AwardOnRecomplete awards XP and a read count every time a book reaches
	// the shelf. When false only the first arrival counts.
	AwardOnRecomplete bool
}

// Effect is the change one book mutation makes to the profile aggregates.
type Effect struct {
	ExperiencePoints int `json:"experiencePoints"`
	BooksRead        int `json:"booksRead"`
	PagesRead        int `json:"pagesRead"`
}

// Add combines two effects.
func (e Effect) Add(o Effect) Effect {
	return Effect{
		ExperiencePoints: e.ExperiencePoints + o.ExperiencePoints,
		BooksRead:        e.BooksRead + o.BooksRead,
		PagesRead:        e.PagesRead + o.PagesRead,
	}
}

// IsZero reports whether the effect changes nothing.
func (e Effect) IsZero() bool {
	return e == Effect{}
}

// MoveTo transitions the book to status to and returns the profile effect.
//
// Timestamps follow the most recent transition: entering the nightstand sets
// DateStarted, entering the shelf sets DateCompleted, and moving backward
// clears the timestamps of every state the book left. The page effect is the
// change in PageContribution, which keeps the running total equal to
// RecomputeTotalPagesRead for every reachable state.
func (b *Book) MoveTo(to Status, now time.Time, rules Rules) (Effect, error) {
	if !to.Valid() {
		return Effect{}, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if b.Status == to {
		return Effect{}, fmt.Errorf("%w: %s", ErrSameStatus, to)
	}

	before := b.PageContribution()
	var effect Effect

	switch to {
	case StatusNightstand:
		b.DateStarted = &now
		b.DateCompleted = nil
	case StatusShelf:
		b.DateCompleted = &now
		if !b.CompletedOnce || rules.AwardOnRecomplete {
			effect.ExperiencePoints = CompletionXP
			effect.BooksRead = 1
		}
		b.CompletedOnce = true
	case StatusBag:
		b.DateStarted = nil
		b.DateCompleted = nil
	}

	b.Status = to
	effect.PagesRead = b.PageContribution() - before
	return effect, nil
}

// ProgressUpdate edits rating and/or pages read in place. Nil fields are left alone.
type ProgressUpdate struct {
	Rating    *int `json:"rating,omitempty"`
	PagesRead *int `json:"pagesRead,omitempty"`
}

// ApplyProgress applies u and returns the page effect (new minus old pages read).
func (b *Book) ApplyProgress(u ProgressUpdate) (Effect, error) {
	if u.Rating == nil && u.PagesRead == nil {
		return Effect{}, ErrEmptyProgress
	}
	if u.Rating != nil && (*u.Rating < MinRating || *u.Rating > MaxRating) {
		return Effect{}, fmt.Errorf("%w: got %d", ErrRatingOutOfRange, *u.Rating)
	}
	if u.PagesRead != nil {
		if b.Status != StatusNightstand {
			return Effect{}, ErrNotReading
		}
		if err := b.checkPages(*u.PagesRead); err != nil {
			return Effect{}, err
		}
	}

	before := b.PageContribution()
	if u.Rating != nil {
		b.Rating = IntPtr(*u.Rating)
	}
	if u.PagesRead != nil {
		b.PagesRead = IntPtr(*u.PagesRead)
	}
	return Effect{PagesRead: b.PageContribution() - before}, nil
}

func (b *Book) checkPages(pages int) error {
	if pages < 0 {
		return fmt.Errorf("%w: %d is negative", ErrPagesOutOfRange, pages)
	}
	if b.TotalPages != nil && pages > *b.TotalPages {
		return fmt.Errorf("%w: %d exceeds total of %d", ErrPagesOutOfRange, pages, *b.TotalPages)
	}
	return nil
}

// CreateBook builds a book from validated input. The book starts in the bag
// and is then moved to the requested status, so creating straight onto the
// shelf earns the same reward as finishing a book.
func CreateBook(id string, in NewBook, now time.Time, rules Rules) (*Book, Effect, error) {
	status := in.Status
	if status == "" {
		status = StatusBag
	}
	if !status.Valid() {
		return nil, Effect{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	b := &Book{
		ID:            id,
		Title:         in.Title,
		Author:        in.Author,
		Status:        StatusBag,
		DateAdded:     now,
		TotalPages:    clonePtr(in.TotalPages),
		Notes:         in.Notes,
		ISBN:          in.ISBN,
		Keywords:      append([]string(nil), in.Keywords...),
		CoverImageURL: in.CoverImageURL,
		Synopsis:      in.Synopsis,
		ReleaseDate:   in.ReleaseDate,
		Publisher:     in.Publisher,
		Genre:         in.Genre,
		Language:      in.Language,
	}

	var effect Effect
	if status != StatusBag {
		e, err := b.MoveTo(status, now, rules)
		if err != nil {
			return nil, Effect{}, err
		}
		effect = e
	}

	if in.Rating != nil || in.PagesRead != nil {
		if in.PagesRead != nil && status != StatusNightstand {
			return nil, Effect{}, ErrNotReading
		}
		e, err := b.ApplyProgress(ProgressUpdate{Rating: in.Rating, PagesRead: in.PagesRead})
		if err != nil {
			return nil, Effect{}, err
		}
		effect = effect.Add(e)
	}

	return b, effect, nil
}

// RecomputeTotalPagesRead rebuilds the pages-read aggregate from the collection
// alone: total pages of shelf books plus pages read of nightstand books.
func RecomputeTotalPagesRead(books []Book) int {
	total := 0
	for i := range books {
		total += books[i].PageContribution()
	}
	return total
}
