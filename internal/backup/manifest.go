package backup

import (
	"time"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/store"
)

// FormatVersion is the backup format version. Increment major on breaking changes.
const FormatVersion = "1.0"

// Archive layout.
const (
	manifestFile = "manifest.json"
	booksFile    = "books.jsonl"
	profileFile  = "profile.json"
)

// Manifest describes backup contents.
type Manifest struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	Counts     Counts    `json:"counts"`
	HasProfile bool      `json:"hasProfile"`
	Username   string    `json:"username,omitempty"`
}

// Counts summarizes the collection for validation.
type Counts struct {
	Books      int `json:"books"`
	Bag        int `json:"bag"`
	Nightstand int `json:"nightstand"`
	Shelf      int `json:"shelf"`
	Hidden     int `json:"hidden"`
}

// CountBooks tallies a collection by status.
func CountBooks(books []domain.Book) Counts {
	c := Counts{Books: len(books)}
	for i := range books {
		switch books[i].Status {
		case domain.StatusBag:
			c.Bag++
		case domain.StatusNightstand:
			c.Nightstand++
		case domain.StatusShelf:
			c.Shelf++
		}
		if books[i].Hidden {
			c.Hidden++
		}
	}
	return c
}

func newManifest(snap *store.Snapshot, now time.Time) *Manifest {
	m := &Manifest{
		Version:    FormatVersion,
		CreatedAt:  now,
		Counts:     CountBooks(snap.Books),
		HasProfile: snap.Profile != nil,
	}
	if snap.Profile != nil {
		m.Username = snap.Profile.Username
	}
	return m
}
