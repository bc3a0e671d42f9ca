package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUserProfile(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewUserProfile("reader", Avatar{Hair: "curly"}, "", now)

	assert.Equal(t, 1, p.Level())
	assert.Zero(t, p.ExperiencePoints)
	assert.Empty(t, p.FavoriteGenres)
	assert.Equal(t, DefaultNightstandSkinID, p.SelectedNightStandSkinID)
	assert.True(t, p.Owns(CategoryNightstand, DefaultNightstandSkinID))
	assert.Equal(t, now, p.CreatedAt)
}

func TestUserProfile_Apply(t *testing.T) {
	now := time.Now()
	p := NewUserProfile("reader", Avatar{}, "", now.Add(-time.Hour))

	p.Apply(Effect{ExperiencePoints: 10, BooksRead: 1, PagesRead: 412}, now)
	assert.Equal(t, 10, p.ExperiencePoints)
	assert.Equal(t, 1, p.TotalBooksRead)
	assert.Equal(t, 412, p.TotalPagesRead)
	assert.Equal(t, now, p.UpdatedAt)

	p.Apply(Effect{PagesRead: -1000}, now)
	assert.Zero(t, p.TotalPagesRead)
}

func TestUserProfile_Apply_ZeroEffectKeepsTimestamp(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	p := NewUserProfile("reader", Avatar{}, "", created)

	p.Apply(Effect{}, time.Now())

	assert.Equal(t, created, p.UpdatedAt)
}

func TestUserProfile_FavoriteGenres(t *testing.T) {
	p := NewUserProfile("reader", Avatar{}, "", time.Now())

	assert.True(t, p.AddFavoriteGenre("Science Fiction"))
	assert.False(t, p.AddFavoriteGenre("sci-fi"))
	assert.True(t, p.AddFavoriteGenre("Horror"))
	assert.Equal(t, []string{"Science Fiction", "Horror"}, p.FavoriteGenres)

	assert.True(t, p.RemoveFavoriteGenre("science fiction"))
	assert.False(t, p.RemoveFavoriteGenre("Romance"))
	assert.Equal(t, []string{"Horror"}, p.FavoriteGenres)
}

func TestUserProfile_SetPreferredLanguages(t *testing.T) {
	p := NewUserProfile("reader", Avatar{}, "", time.Now())

	p.SetPreferredLanguages([]string{"en", "fr", "", "en"})

	assert.Equal(t, []string{"en", "fr"}, p.PreferredLanguages)
}

func TestUserProfile_GrantAndClone(t *testing.T) {
	p := NewUserProfile("reader", Avatar{}, "", time.Now())

	assert.True(t, p.Grant(CategoryNightstand, "spooky-1"))
	assert.False(t, p.Grant(CategoryNightstand, "spooky-1"))
	assert.False(t, p.Grant("attic", "x"))

	c := p.Clone()
	c.OwnedSkins.NightStandSkins[0] = "mutated"
	c.FavoriteGenres = append(c.FavoriteGenres, "Horror")

	assert.Equal(t, DefaultNightstandSkinID, p.OwnedSkins.NightStandSkins[0])
	assert.Empty(t, p.FavoriteGenres)
}
