// Package metadata defines the book lookup results shared by lookup clients
// and the library service.
package metadata

import (
	"errors"
	"strings"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/genre"
)

// ErrNotFound is returned by lookups when no volume matches.
var ErrNotFound = errors.New("metadata: not found")

// Candidate is one lookup result a reader can turn into a book.
type Candidate struct {
	Source        string   `json:"source"`
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Description   string   `json:"description,omitempty"` // Markdown
	Snippet       string   `json:"snippet,omitempty"`     // Plain text
	PageCount     *int     `json:"pageCount,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Language      string   `json:"language,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	ThumbnailURL  string   `json:"thumbnailUrl,omitempty"`
}

// SuggestedGenre maps the categories onto a known genre when one matches.
func (c *Candidate) SuggestedGenre() string {
	return genre.FromCategories(c.Categories)
}

// NewBook copies the candidate's metadata into a creation input. The first
// author becomes the book author and the first category its genre, unchanged.
func (c *Candidate) NewBook(status domain.Status) domain.NewBook {
	in := domain.NewBook{
		Title:         strings.TrimSpace(c.Title),
		Status:        status,
		TotalPages:    c.PageCount,
		ISBN:          c.ISBN,
		CoverImageURL: c.ThumbnailURL,
		Synopsis:      c.Description,
		ReleaseDate:   c.PublishedDate,
		Publisher:     c.Publisher,
		Language:      c.Language,
	}
	if len(c.Authors) > 0 {
		in.Author = strings.TrimSpace(c.Authors[0])
	}
	if len(c.Categories) > 0 {
		in.Genre = c.Categories[0]
	}
	return in
}
