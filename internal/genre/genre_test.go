package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Science Fiction", "science-fiction"},
		{"  Horror  ", "horror"},
		{"Children's", "children-s"},
		{"Health & Wellness", "health-wellness"},
		{"LGBTQ+", "lgbtq"},
		{"Épouvante", "epouvante"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestKey_FoldsAliases(t *testing.T) {
	assert.Equal(t, "science-fiction", Key("Sci-Fi"))
	assert.Equal(t, "science-fiction", Key("science fiction"))
	assert.Equal(t, "thriller", Key("Suspense"))
	assert.Equal(t, "cyberpunk", Key("Cyberpunk"))
	assert.Empty(t, Key(""))
}

func TestSame(t *testing.T) {
	assert.True(t, Same("Horror", "horror"))
	assert.True(t, Same("Sci-Fi", "Science Fiction"))
	assert.False(t, Same("Horror", "Romance"))
	assert.False(t, Same("", ""))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "Science Fiction", Canonical("scifi"))
	assert.Equal(t, "Children's", Canonical("childrens"))
	assert.Equal(t, "Solarpunk", Canonical(" Solarpunk "))
}

func TestFromCategories(t *testing.T) {
	assert.Equal(t, "Fantasy", FromCategories([]string{"Fiction / Fantasy / Epic"}))
	assert.Equal(t, "Horror", FromCategories([]string{"Fiction", "Horror"}))
	assert.Equal(t, "Fiction", FromCategories([]string{"", "Fiction"}))
	assert.Empty(t, FromCategories(nil))
}

func TestKnownGenresHaveDistinctKeys(t *testing.T) {
	seen := map[string]string{}
	for _, name := range Known {
		k := Key(name)
		if prev, ok := seen[k]; ok {
			t.Fatalf("%q and %q share key %q", prev, name, k)
		}
		seen[k] = name
		assert.True(t, IsKnown(name), name)
	}
}
