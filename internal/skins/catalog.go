// Package skins loads the cosmetic catalog from TOML.
package skins

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nightstandapp/nightstand-server/internal/domain"
)

//go:embed skins.toml
var builtin []byte

// Catalog is an immutable, validated list of skins.
type Catalog struct {
	skins []domain.Skin
}

type file struct {
	Skins []domain.Skin `toml:"skin"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("built-in skin catalog: %v", err))
	}
	return c
}

// Load reads the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skin catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("skin catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f file
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if err := validate(f.Skins); err != nil {
		return nil, err
	}
	return &Catalog{skins: f.Skins}, nil
}

func validate(skins []domain.Skin) error {
	if len(skins) == 0 {
		return errors.New("catalog has no skins")
	}
	seen := make(map[string]bool, len(skins))
	for i, s := range skins {
		if s.ID == "" {
			return fmt.Errorf("skin %d: missing id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("skin %s: duplicate id", s.ID)
		}
		seen[s.ID] = true
		switch s.Category {
		case domain.CategoryBag, domain.CategoryNightstand, domain.CategoryShelf:
		default:
			return fmt.Errorf("skin %s: unknown category %q", s.ID, s.Category)
		}
		if r := s.Requirement; r != nil && (r.Genre == "" || r.Count <= 0) {
			return fmt.Errorf("skin %s: requirement needs a genre and a positive count", s.ID)
		}
	}
	return nil
}

// All returns a copy of every skin in catalog order.
func (c *Catalog) All() []domain.Skin {
	out := make([]domain.Skin, len(c.skins))
	copy(out, c.skins)
	return out
}

// Find looks up a skin by id.
func (c *Catalog) Find(id string) (domain.Skin, bool) {
	return domain.FindSkin(c.skins, id)
}

// Selectable returns the skins of category a reader can pick.
func (c *Catalog) Selectable(category string) []domain.Skin {
	return domain.Selectable(c.skins, category)
}

// Len returns the number of skins.
func (c *Catalog) Len() int {
	return len(c.skins)
}
