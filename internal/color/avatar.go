// Package color derives stable display colors from names.
package color

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

// Avatar palette: a fixed saturation and lightness keep every hue readable.
const (
	saturation = 0.4
	lightness  = 0.65
)

// ForName returns a hex color for name, ignoring case. The same name always
// gets the same color.
func ForName(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	hue := float64(h.Sum32() % 360)

	r, g, b := hslToRGB(hue, saturation, lightness)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// hslToRGB converts hue in degrees and saturation and lightness in [0,1].
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r1, g1, b1 float64
	switch {
	case h < 60:
		r1, g1 = c, x
	case h < 120:
		r1, g1 = x, c
	case h < 180:
		g1, b1 = c, x
	case h < 240:
		g1, b1 = x, c
	case h < 300:
		r1, b1 = x, c
	default:
		r1, b1 = c, x
	}

	scale := func(v float64) uint8 { return uint8(math.Round((v + m) * 255)) }
	return scale(r1), scale(g1), scale(b1)
}
