package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []Skin {
	return []Skin{
		{ID: "default-1", Name: "Default Nightstand", Category: CategoryNightstand},
		{ID: "spooky-1", Name: "Spooky Nightstand", Category: CategoryNightstand, Requirement: &SkinRequirement{Genre: "Horror", Count: 5}},
		{ID: "fantasy-1", Name: "Fantasy Nightstand", Category: CategoryNightstand, Requirement: &SkinRequirement{Genre: "Fantasy", Count: 5}},
		{ID: "fantasy-2", Name: "Fantasy Nightstand", Category: CategoryNightstand},
		{ID: "fantasy-3", Name: "Fantasy Nightstand", Category: CategoryNightstand},
		{ID: "fantasy-4", Name: "Fantasy Nightstand", Category: CategoryNightstand},
	}
}

func shelved(n int, g string) []Book {
	books := make([]Book, n)
	for i := range books {
		books[i] = Book{ID: g + string(rune('a'+i)), Status: StatusShelf, Genre: g}
	}
	return books
}

func TestSkin_FamilyAndVariant(t *testing.T) {
	assert.Equal(t, "fantasy", Skin{ID: "fantasy-3"}.Family())
	assert.Equal(t, 3, Skin{ID: "fantasy-3"}.Variant())
	assert.Equal(t, "plain", Skin{ID: "plain"}.Family())
	assert.Equal(t, 0, Skin{ID: "plain"}.Variant())
	assert.Equal(t, "dark-wood", Skin{ID: "dark-wood-1"}.Family())
}

func TestGenreCounts_OnlyShelf(t *testing.T) {
	books := append(shelved(2, "Horror"),
		Book{Status: StatusNightstand, Genre: "Horror"},
		Book{Status: StatusBag, Genre: "Horror"},
		Book{Status: StatusShelf, Genre: "horror"},
		Book{Status: StatusShelf},
	)

	counts := GenreCounts(books)

	assert.Equal(t, map[string]int{"horror": 3}, counts)
}

func TestHorrorSkin_IgnoresRelatedGenres(t *testing.T) {
	spooky, ok := FindSkin(testCatalog(), "spooky-1")
	require.True(t, ok)

	var books []Book
	for _, g := range []string{"Gothic", "Scary", "Ghost Stories", "gothic", "scary"} {
		books = append(books, shelved(1, g)...)
	}

	counts := GenreCounts(books)
	assert.Zero(t, counts["horror"])
	assert.False(t, IsUnlocked(spooky, counts))

	states := EvaluateSkins(testCatalog(), books)
	assert.False(t, states[1].Unlocked)
	assert.Equal(t, 0, states[1].Progress)

	// Case and punctuation still fold.
	books = append(shelved(4, "Horror"), Book{ID: "loud", Status: StatusShelf, Genre: " HORROR! "})
	assert.True(t, IsUnlocked(spooky, GenreCounts(books)))
}

func TestHorrorSkin_UnlocksAndRelocks(t *testing.T) {
	catalog := testCatalog()
	spooky, ok := FindSkin(catalog, "spooky-1")
	require.True(t, ok)

	books := shelved(4, "Horror")
	assert.False(t, IsUnlocked(spooky, GenreCounts(books)))

	books = append(books, Book{ID: "fifth", Status: StatusShelf, Genre: "Horror"})
	assert.True(t, IsUnlocked(spooky, GenreCounts(books)))

	books = books[:4]
	assert.False(t, IsUnlocked(spooky, GenreCounts(books)))
}

func TestEvaluateSkins(t *testing.T) {
	states := EvaluateSkins(testCatalog(), shelved(3, "Fantasy"))

	require.Len(t, states, 6)
	assert.True(t, states[0].Unlocked)
	assert.False(t, states[1].Unlocked)
	assert.Equal(t, 0, states[1].Progress)
	assert.False(t, states[2].Unlocked)
	assert.Equal(t, 3, states[2].Progress)
	assert.Equal(t, []string{"default-1", "fantasy-2", "fantasy-3", "fantasy-4"}, UnlockedIDs(states))
}

func TestSelectable(t *testing.T) {
	got := Selectable(testCatalog(), CategoryNightstand)

	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"default-1", "spooky-1", "fantasy-1"}, ids)
	assert.Empty(t, Selectable(testCatalog(), CategoryShelf))
}

func TestDisplayVariant(t *testing.T) {
	catalog := testCatalog()
	tests := []struct {
		name     string
		selected string
		count    int
		want     string
	}{
		{"empty", "fantasy-1", 0, "fantasy-1"},
		{"one book", "fantasy-1", 1, "fantasy-2"},
		{"two books", "fantasy-1", 2, "fantasy-3"},
		{"three books", "fantasy-1", 3, "fantasy-3"},
		{"many books", "fantasy-1", 9, "fantasy-4"},
		{"family without variants", "spooky-1", 4, "spooky-1"},
		{"unknown selection", "missing-1", 2, "default-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DisplayVariant(catalog, tt.selected, tt.count)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.ID)
		})
	}

	_, ok := DisplayVariant(nil, "default-1", 0)
	assert.False(t, ok)
}
