package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Status is a book's lifecycle state. A book is in exactly one status at a time.
type Status string

const (
	// StatusBag is the unread backlog.
	StatusBag Status = "Bag"
	// StatusNightstand holds books currently being read.
	StatusNightstand Status = "Nightstand"
	// StatusShelf holds completed books.
	StatusShelf Status = "Shelf"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusBag, StatusNightstand, StatusShelf}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// ParseStatus accepts a status name in any case ("shelf", "NIGHTSTAND").
func ParseStatus(raw string) (Status, error) {
	for _, s := range Statuses {
		if strings.EqualFold(string(s), strings.TrimSpace(raw)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Book is one title the reader is tracking.
//
// Metadata fields are copied in at creation and never recomputed. Optional
// numeric and time fields are pointers so that "unset" survives a round trip
// through storage.
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Status Status `json:"status"`

	DateAdded     time.Time  `json:"dateAdded"`
	DateStarted   *time.Time `json:"dateStarted,omitempty"`
	DateCompleted *time.Time `json:"dateCompleted,omitempty"`

	Rating     *int `json:"rating,omitempty"`
	TotalPages *int `json:"totalPages,omitempty"`
	PagesRead  *int `json:"pagesRead,omitempty"`

	Notes         string   `json:"notes,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	CoverImageURL string   `json:"coverImageUrl,omitempty"`
	Synopsis      string   `json:"synopsis,omitempty"`
	ReleaseDate   string   `json:"releaseDate,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	Genre         string   `json:"genre,omitempty"`
	Language      string   `json:"language,omitempty"`

	// CoverBlurHash is set once the cover has been cached locally.
	CoverBlurHash string `json:"coverBlurHash,omitempty"`

	Hidden bool `json:"hidden,omitempty"`

	// CompletedOnce is set the first time the book reaches the shelf and never cleared.
	CompletedOnce bool `json:"completedOnce,omitempty"`
}

// Clone returns a deep copy so callers can mutate without aliasing stored state.
func (b *Book) Clone() *Book {
	c := *b
	c.DateStarted = clonePtr(b.DateStarted)
	c.DateCompleted = clonePtr(b.DateCompleted)
	c.Rating = clonePtr(b.Rating)
	c.TotalPages = clonePtr(b.TotalPages)
	c.PagesRead = clonePtr(b.PagesRead)
	c.Keywords = slices.Clone(b.Keywords)
	return &c
}

// PageContribution is how many pages this book adds to the reader's total:
// every page of a finished book, the pages read so far of an active one,
// nothing for the backlog.
func (b *Book) PageContribution() int {
	switch b.Status {
	case StatusShelf:
		return deref(b.TotalPages)
	case StatusNightstand:
		return deref(b.PagesRead)
	default:
		return 0
	}
}

// Visible reports whether the book shows up in default listings.
func (b *Book) Visible() bool {
	return !b.Hidden
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// NewBook is the creation-boundary input for a book. Title and author are
// required; everything else is optional metadata.
type NewBook struct {
	Title         string   `json:"title" validate:"required,max=500"`
	Author        string   `json:"author" validate:"required,max=300"`
	Status        Status   `json:"status" validate:"omitempty,oneof=Bag Nightstand Shelf"`
	TotalPages    *int     `json:"totalPages,omitempty" validate:"omitempty,gte=0,lte=100000"`
	PagesRead     *int     `json:"pagesRead,omitempty" validate:"omitempty,gte=0"`
	Rating        *int     `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Notes         string   `json:"notes,omitempty" validate:"max=10000"`
	ISBN          string   `json:"isbn,omitempty" validate:"omitempty,max=20"`
	Keywords      []string `json:"keywords,omitempty" validate:"max=50,dive,max=100"`
	CoverImageURL string   `json:"coverImageUrl,omitempty" validate:"omitempty,url"`
	Synopsis      string   `json:"synopsis,omitempty"`
	ReleaseDate   string   `json:"releaseDate,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	Genre         string   `json:"genre,omitempty"`
	Language      string   `json:"language,omitempty" validate:"omitempty,language"`
}
