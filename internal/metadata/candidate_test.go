package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nightstandapp/nightstand-server/internal/domain"
)

func TestCandidate_NewBook(t *testing.T) {
	c := &Candidate{
		ID:            "vol-1",
		Title:         " Dune ",
		Authors:       []string{"Frank Herbert", "Someone Else"},
		Publisher:     "Ace",
		PublishedDate: "1990-09-01",
		Description:   "**Spice**",
		PageCount:     domain.IntPtr(535),
		Categories:    []string{"Fiction / Science Fiction / General"},
		Language:      "en",
		ISBN:          "9780441172719",
		ThumbnailURL:  "https://books.example/dune.jpg",
	}

	in := c.NewBook(domain.StatusShelf)

	assert.Equal(t, "Dune", in.Title)
	assert.Equal(t, "Frank Herbert", in.Author)
	assert.Equal(t, domain.StatusShelf, in.Status)
	assert.Equal(t, 535, *in.TotalPages)
	assert.Equal(t, "Fiction / Science Fiction / General", in.Genre)
	assert.Equal(t, "**Spice**", in.Synopsis)
	assert.Equal(t, "1990-09-01", in.ReleaseDate)
	assert.Equal(t, "https://books.example/dune.jpg", in.CoverImageURL)
	assert.Equal(t, "Science Fiction", c.SuggestedGenre())
}

func TestCandidate_NewBook_NoAuthors(t *testing.T) {
	c := &Candidate{Title: "Anonymous Poems"}

	in := c.NewBook(domain.StatusBag)

	assert.Empty(t, in.Author)
	assert.Empty(t, in.Genre)
	assert.Nil(t, in.TotalPages)
}
