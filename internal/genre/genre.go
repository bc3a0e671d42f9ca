package genre

import "strings"

// Known is the reader-facing genre list offered as favorites and suggestions.
var Known = []string{
	"Fantasy",
	"Science Fiction",
	"Mystery",
	"Thriller",
	"Romance",
	"Horror",
	"Historical Fiction",
	"Non-Fiction",
	"Biography",
	"Self-Help",
	"Health & Wellness",
	"Travel",
	"Children's",
	"Young Adult",
	"Classics",
	"Graphic Novels",
	"Poetry",
	"Religion & Spirituality",
	"Science & Technology",
	"Art & Photography",
	"Cookbooks",
	"Business & Economics",
	"Politics & Social Sciences",
	"Education",
	"Comics & Humor",
	"Drama",
	"Short Stories",
	"Anthologies",
	"Dystopian",
	"Adventure",
	"Western",
	"Memoir",
	"True Crime",
	"Philosophy",
	"Psychology",
	"Environment",
	"Parenting",
	"Crafts & Hobbies",
	"Sports & Recreation",
	"Music",
	"Film & Television",
	"LGBTQ+",
	"Cultural Studies",
	"Mythology",
	"Folklore",
	"Other",
}

var byKey = func() map[string]string {
	m := make(map[string]string, len(Known))
	for _, name := range Known {
		m[Slugify(name)] = name
	}
	return m
}()

// Key returns the comparison key for a genre label: its slug, folded through
// the alias table. Empty input yields "".
func Key(label string) string {
	slug := Slugify(label)
	if canonical, ok := aliases[slug]; ok {
		return canonical
	}
	return slug
}

// Canonical returns the Known display name for label, or the trimmed label
// itself when it matches nothing.
func Canonical(label string) string {
	if name, ok := byKey[Key(label)]; ok {
		return name
	}
	return strings.TrimSpace(label)
}

// IsKnown reports whether label resolves to a Known genre.
func IsKnown(label string) bool {
	_, ok := byKey[Key(label)]
	return ok
}

// Same reports whether two labels name the same genre. Blank labels never match.
func Same(a, b string) bool {
	ka := Key(a)
	return ka != "" && ka == Key(b)
}

// FromCategories picks the first category that resolves to a Known genre,
// falling back to the first non-blank category. Lookup services often return
// paths such as "Fiction / Fantasy / Epic", so each path segment is tried
// from the most specific end.
func FromCategories(categories []string) string {
	for _, c := range categories {
		parts := strings.Split(c, "/")
		for i := len(parts) - 1; i >= 0; i-- {
			if IsKnown(parts[i]) {
				return Canonical(parts[i])
			}
		}
	}
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}
