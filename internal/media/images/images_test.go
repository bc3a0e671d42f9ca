package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return s
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewStorage(t *testing.T) {
	dir := t.TempDir()
	_, err := NewStorage(dir)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, "covers"))

	_, err = NewStorage("")
	assert.Error(t, err)
}

func TestStorage_Lifecycle(t *testing.T) {
	s := setupTestStorage(t)

	assert.False(t, s.Exists("book-1"))
	_, err := s.Get("book-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save("book-1", []byte("cover")))
	assert.True(t, s.Exists("book-1"))

	data, err := s.Get("book-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("cover"), data)

	hash, err := s.Hash("book-1")
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	require.NoError(t, s.Save("book-1", []byte("newer")))
	again, err := s.Hash("book-1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)

	require.NoError(t, s.Delete("book-1"))
	require.NoError(t, s.Delete("book-1"))
	assert.False(t, s.Exists("book-1"))
}

func TestStorage_RejectsBadInput(t *testing.T) {
	s := setupTestStorage(t)

	assert.Error(t, s.Save("", []byte("x")))
	assert.Error(t, s.Save("book-1", nil))
	assert.Error(t, s.Save("../escape", []byte("x")))
	assert.False(t, s.Exists(".."))
}

func TestStorage_Clear(t *testing.T) {
	s := setupTestStorage(t)
	require.NoError(t, s.Save("book-1", []byte("a")))
	require.NoError(t, s.Save("book-2", []byte("b")))

	require.NoError(t, s.Clear())
	assert.False(t, s.Exists("book-1"))
	assert.False(t, s.Exists("book-2"))

	entries, err := os.ReadDir(filepath.Dir(s.Path("x")))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStorage_ConcurrentSaves(t *testing.T) {
	s := setupTestStorage(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Save("book-1", []byte{byte(i + 1)}))
		}()
	}
	wg.Wait()

	data, err := s.Get("book-1")
	require.NoError(t, err)
	assert.Len(t, data, 1)
}

func TestInspect(t *testing.T) {
	info, err := Inspect(pngBytes(t, 200, 100))
	require.NoError(t, err)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 200, info.Width)
	assert.Equal(t, 100, info.Height)
	assert.NotEmpty(t, info.BlurHash)

	_, err = Inspect([]byte("not an image"))
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	assert.Equal(t, image.Rect(0, 0, 64, 32), thumbnail(img).Bounds())

	tall := image.NewRGBA(image.Rect(0, 0, 10, 1000))
	assert.Equal(t, image.Rect(0, 0, 1, 64), thumbnail(tall).Bounds())

	small := image.NewRGBA(image.Rect(0, 0, 20, 30))
	assert.Same(t, small, thumbnail(small))
}
