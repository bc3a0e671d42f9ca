package search

import (
	"strings"

	"github.com/nightstandapp/nightstand-server/internal/domain"
)

// Document is the indexed form of a book.
type Document struct {
	ID        string
	Title     string
	Author    string
	Genre     string
	Publisher string
	Notes     string
	Synopsis  string
	Keywords  []string
	Status    domain.Status
	Hidden    bool
}

// DocumentFromBook copies the searchable fields of b.
func DocumentFromBook(b *domain.Book) *Document {
	return &Document{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Genre:     b.Genre,
		Publisher: b.Publisher,
		Notes:     b.Notes,
		Synopsis:  b.Synopsis,
		Keywords:  b.Keywords,
		Status:    b.Status,
		Hidden:    b.Hidden,
	}
}

// ToMap converts the document to the field names of the index mapping.
func (d *Document) ToMap() map[string]any {
	return map[string]any{
		"title":     d.Title,
		"author":    d.Author,
		"genre":     d.Genre,
		"publisher": d.Publisher,
		"notes":     d.Notes,
		"synopsis":  d.Synopsis,
		"keywords":  strings.Join(d.Keywords, " "),
		"status":    string(d.Status),
		"hidden":    d.Hidden,
	}
}
