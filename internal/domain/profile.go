package domain

import (
	"slices"
	"time"
)

// Skin categories.
const (
	CategoryBag        = "bag"
	CategoryNightstand = "nightstand"
	CategoryShelf      = "shelf"
)

// DefaultNightstandSkinID is the skin every profile starts with.
const DefaultNightstandSkinID = "default-1"

// Avatar is the set of part selections composing the reader's avatar.
type Avatar struct {
	Body       string `json:"body,omitempty"`
	Clothes    string `json:"clothes,omitempty"`
	Face       string `json:"face,omitempty"`
	Hair       string `json:"hair,omitempty"`
	FacialHair string `json:"facialHair,omitempty"`
}

// OwnedSkins lists owned cosmetic ids per category.
type OwnedSkins struct {
	BagSkins        []string `json:"bagSkins"`
	NightStandSkins []string `json:"nightStandSkins"`
	ShelfSkins      []string `json:"shelfSkins"`
}

// UserProfile is the single reader profile of an installation.
//
// Level is deliberately absent: it is always derived from ExperiencePoints.
type UserProfile struct {
	Username  string    `json:"username"`
	Avatar    Avatar    `json:"avatar"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ExperiencePoints int `json:"experiencePoints"`
	TotalBooksRead   int `json:"totalBooksRead"`
	TotalPagesRead   int `json:"totalPagesRead"`
	ReadingStreak    int `json:"readingStreak"`

	FavoriteGenres     []string `json:"favoriteGenres"`
	PreferredLanguages []string `json:"preferredLanguages"`

	SelectedNightStandSkinID string     `json:"selectedNightStandSkinId,omitempty"`
	OwnedSkins               OwnedSkins `json:"ownedSkins"`
}

// NewUserProfile creates a fresh profile: zero stats, level 1, empty preferences.
func NewUserProfile(username string, avatar Avatar, bio string, now time.Time) *UserProfile {
	return &UserProfile{
		Username:                 username,
		Avatar:                   avatar,
		Bio:                      bio,
		CreatedAt:                now,
		UpdatedAt:                now,
		FavoriteGenres:           []string{},
		PreferredLanguages:       []string{},
		SelectedNightStandSkinID: DefaultNightstandSkinID,
		OwnedSkins: OwnedSkins{
			BagSkins:        []string{},
			NightStandSkins: []string{DefaultNightstandSkinID},
			ShelfSkins:      []string{},
		},
	}
}

// Level derives the profile level from its experience points.
func (p *UserProfile) Level() int {
	return LevelForXP(p.ExperiencePoints)
}

// Apply folds a transition effect into the aggregates. The page total never
// goes below zero, which can only happen with hand-edited legacy records.
func (p *UserProfile) Apply(e Effect, now time.Time) {
	if e.IsZero() {
		return
	}
	p.ExperiencePoints += e.ExperiencePoints
	p.TotalBooksRead += e.BooksRead
	p.TotalPagesRead = max(p.TotalPagesRead+e.PagesRead, 0)
	p.UpdatedAt = now
}

// HasFavoriteGenre reports whether genre is already a favorite, ignoring case and punctuation.
func (p *UserProfile) HasFavoriteGenre(genre string) bool {
	return slices.ContainsFunc(p.FavoriteGenres, func(g string) bool {
		return SameGenre(g, genre)
	})
}

// AddFavoriteGenre adds genre, returning false if it was already present.
func (p *UserProfile) AddFavoriteGenre(genre string) bool {
	if p.HasFavoriteGenre(genre) {
		return false
	}
	p.FavoriteGenres = append(p.FavoriteGenres, genre)
	return true
}

// RemoveFavoriteGenre removes genre, returning false if it was not present.
func (p *UserProfile) RemoveFavoriteGenre(genre string) bool {
	before := len(p.FavoriteGenres)
	p.FavoriteGenres = slices.DeleteFunc(p.FavoriteGenres, func(g string) bool {
		return SameGenre(g, genre)
	})
	return len(p.FavoriteGenres) != before
}

// SetPreferredLanguages replaces the language list, dropping duplicates while keeping order.
func (p *UserProfile) SetPreferredLanguages(langs []string) {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		if l != "" && !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	p.PreferredLanguages = out
}

// Owns reports whether the skin id is in the owned list for category.
func (p *UserProfile) Owns(category, skinID string) bool {
	return slices.Contains(p.ownedList(category), skinID)
}

// Grant records ownership of a skin. Returns false if already owned.
func (p *UserProfile) Grant(category, skinID string) bool {
	if p.Owns(category, skinID) {
		return false
	}
	switch category {
	case CategoryBag:
		p.OwnedSkins.BagSkins = append(p.OwnedSkins.BagSkins, skinID)
	case CategoryNightstand:
		p.OwnedSkins.NightStandSkins = append(p.OwnedSkins.NightStandSkins, skinID)
	case CategoryShelf:
		p.OwnedSkins.ShelfSkins = append(p.OwnedSkins.ShelfSkins, skinID)
	default:
		return false
	}
	return true
}

func (p *UserProfile) ownedList(category string) []string {
	switch category {
	case CategoryBag:
		return p.OwnedSkins.BagSkins
	case CategoryNightstand:
		return p.OwnedSkins.NightStandSkins
	case CategoryShelf:
		return p.OwnedSkins.ShelfSkins
	default:
		return nil
	}
}

// Clone returns a deep copy.
func (p *UserProfile) Clone() *UserProfile {
	c := *p
	c.FavoriteGenres = slices.Clone(p.FavoriteGenres)
	c.PreferredLanguages = slices.Clone(p.PreferredLanguages)
	c.OwnedSkins = OwnedSkins{
		BagSkins:        slices.Clone(p.OwnedSkins.BagSkins),
		NightStandSkins: slices.Clone(p.OwnedSkins.NightStandSkins),
		ShelfSkins:      slices.Clone(p.OwnedSkins.ShelfSkins),
	}
	return &c
}
