package color

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForName(t *testing.T) {
	hex := regexp.MustCompile(`^#[0-9A-F]{6}$`)

	c := ForName("reader")
	assert.Regexp(t, hex, c)
	assert.Equal(t, c, ForName("Reader"))
	assert.Equal(t, c, ForName(" reader "))
	assert.Regexp(t, hex, ForName(""))
}

func TestHSLToRGB(t *testing.T) {
	tests := []struct {
		h, s, l float64
		r, g, b uint8
	}{
		{0, 1, 0.5, 255, 0, 0},
		{120, 1, 0.5, 0, 255, 0},
		{240, 1, 0.5, 0, 0, 255},
		{60, 1, 0.5, 255, 255, 0},
		{0, 0, 0.5, 128, 128, 128},
		{200, 0, 1, 255, 255, 255},
	}
	for _, tt := range tests {
		r, g, b := hslToRGB(tt.h, tt.s, tt.l)
		assert.Equal(t, []uint8{tt.r, tt.g, tt.b}, []uint8{r, g, b}, "hsl(%v, %v, %v)", tt.h, tt.s, tt.l)
	}
}
