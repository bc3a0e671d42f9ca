package skins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightstandapp/nightstand-server/internal/domain"
)

func TestDefault(t *testing.T) {
	c := Default()

	require.Equal(t, 8, c.Len())
	first := c.All()[0]
	assert.Equal(t, domain.DefaultNightstandSkinID, first.ID)
	assert.Nil(t, first.Requirement)

	spooky, ok := c.Find("spooky-1")
	require.True(t, ok)
	require.NotNil(t, spooky.Requirement)
	assert.Equal(t, "Horror", spooky.Requirement.Genre)
	assert.Equal(t, 5, spooky.Requirement.Count)

	selectable := c.Selectable(domain.CategoryNightstand)
	assert.Len(t, selectable, 5)
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].ID = "changed"

	_, ok := c.Find(domain.DefaultNightstandSkinID)
	assert.True(t, ok)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skins.toml")
	content := `
[[skin]]
id = "plain-1"
name = "Plain"
category = "shelf"

[[skin]]
id = "oak-1"
name = "Oak"
category = "shelf"
  [skin.requirement]
  genre = "Classics"
  count = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	oak, ok := c.Find("oak-1")
	require.True(t, ok)
	assert.Equal(t, 2, oak.Requirement.Count)
}

func TestLoad_EmptyPathIsBuiltin(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), c.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"empty", ``, "no skins"},
		{"syntax", `[[skin]`, "decode"},
		{"missing id", "[[skin]]\nname = \"x\"\ncategory = \"bag\"\n", "missing id"},
		{"duplicate", "[[skin]]\nid = \"a-1\"\ncategory = \"bag\"\n[[skin]]\nid = \"a-1\"\ncategory = \"bag\"\n", "duplicate"},
		{"category", "[[skin]]\nid = \"a-1\"\ncategory = \"attic\"\n", "unknown category"},
		{"requirement", "[[skin]]\nid = \"a-1\"\ncategory = \"bag\"\n[skin.requirement]\ngenre = \"Horror\"\ncount = 0\n", "positive count"},
		{"unknown key", "[[skin]]\nid = \"a-1\"\ncategory = \"bag\"\ncolour = \"red\"\n", "unknown key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
