package domain

import (
	"slices"
	"strconv"
	"strings"

	"github.com/nightstandapp/nightstand-server/internal/genre"
)

// SkinRequirement gates a skin on the number of completed books of one genre.
type SkinRequirement struct {
	Genre string `json:"genre" toml:"genre"`
	Count int    `json:"count" toml:"count"`
}

// Skin is a cosmetic catalog entry. IDs have the form "<family>-<variant>";
// variant 1 is the empty piece of furniture and higher variants show it
// progressively fuller.
type Skin struct {
	ID          string           `json:"id" toml:"id"`
	Name        string           `json:"name" toml:"name"`
	Category    string           `json:"category" toml:"category"`
	Image       string           `json:"image,omitempty" toml:"image"`
	Requirement *SkinRequirement `json:"requirement,omitempty" toml:"requirement"`
}

// Family returns the id without its variant suffix ("fantasy-3" -> "fantasy").
func (s Skin) Family() string {
	family, _ := splitSkinID(s.ID)
	return family
}

// Variant returns the numeric suffix of the id, or 0 if there is none.
func (s Skin) Variant() int {
	_, v := splitSkinID(s.ID)
	return v
}

func splitSkinID(id string) (string, int) {
	i := strings.LastIndexByte(id, '-')
	if i < 0 {
		return id, 0
	}
	v, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return id, 0
	}
	return id[:i], v
}

// GenreCounts counts shelf books per genre slug. Only case and punctuation
// are folded: "Gothic" does not count toward "Horror". Books without a genre
// are skipped.
func GenreCounts(books []Book) map[string]int {
	counts := make(map[string]int)
	for i := range books {
		if books[i].Status != StatusShelf {
			continue
		}
		if key := genre.Slugify(books[i].Genre); key != "" {
			counts[key]++
		}
	}
	return counts
}

// IsUnlocked reports whether counts satisfy the skin's requirement. Skins
// without a requirement are always unlocked.
func IsUnlocked(s Skin, counts map[string]int) bool {
	if s.Requirement == nil {
		return true
	}
	return counts[genre.Slugify(s.Requirement.Genre)] >= s.Requirement.Count
}

// SkinState is a catalog entry evaluated against a collection.
type SkinState struct {
	Skin
	Unlocked bool `json:"unlocked"`
	// Progress is the number of qualifying shelf books, capped at the requirement.
	Progress int `json:"progress"`
}

// EvaluateSkins evaluates every skin against the current collection. The
// result is derived fresh each time, so removing a book can relock a skin.
func EvaluateSkins(catalog []Skin, books []Book) []SkinState {
	counts := GenreCounts(books)
	out := make([]SkinState, 0, len(catalog))
	for _, s := range catalog {
		st := SkinState{Skin: s, Unlocked: IsUnlocked(s, counts)}
		if s.Requirement != nil {
			st.Progress = min(counts[genre.Slugify(s.Requirement.Genre)], s.Requirement.Count)
		}
		out = append(out, st)
	}
	return out
}

// UnlockedIDs returns the ids of unlocked states, in catalog order.
func UnlockedIDs(states []SkinState) []string {
	var ids []string
	for _, st := range states {
		if st.Unlocked {
			ids = append(ids, st.ID)
		}
	}
	return ids
}

// Selectable returns the first-variant skins of a category, which are the
// ones a reader picks between.
func Selectable(catalog []Skin, category string) []Skin {
	var out []Skin
	for _, s := range catalog {
		if s.Category == category && s.Variant() == 1 {
			out = append(out, s)
		}
	}
	return out
}

// FindSkin looks a skin up by id.
func FindSkin(catalog []Skin, id string) (Skin, bool) {
	i := slices.IndexFunc(catalog, func(s Skin) bool { return s.ID == id })
	if i < 0 {
		return Skin{}, false
	}
	return catalog[i], true
}

// VariantForCount maps the number of books on the nightstand to a variant:
// 1 when empty, 2 for one book, 3 for two or three, 4 for four or more.
func VariantForCount(n int) int {
	switch {
	case n <= 0:
		return 1
	case n == 1:
		return 2
	case n <= 3:
		return 3
	default:
		return 4
	}
}

// DisplayVariant picks the skin image to show for the selected skin given how
// many books are on the nightstand. Families without the wanted variant fall
// back to the selected skin itself, and an unknown selection falls back to the
// first catalog entry.
func DisplayVariant(catalog []Skin, selectedID string, nightstandCount int) (Skin, bool) {
	selected, ok := FindSkin(catalog, selectedID)
	if !ok {
		if len(catalog) == 0 {
			return Skin{}, false
		}
		return catalog[0], true
	}
	want := selected.Family() + "-" + strconv.Itoa(VariantForCount(nightstandCount))
	if s, ok := FindSkin(catalog, want); ok {
		return s, true
	}
	return selected, true
}
