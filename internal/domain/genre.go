package domain

import "github.com/nightstandapp/nightstand-server/internal/genre"

// SameGenre reports whether two free-text genre labels name the same genre,
// ignoring case, punctuation and common aliases.
func SameGenre(a, b string) bool {
	return genre.Same(a, b)
}
