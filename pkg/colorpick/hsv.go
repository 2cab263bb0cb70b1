// Package colorpick implements the geometry of the HSV colour picker and the
// bounded recent-colour history.
//
// The picker is a square gradient of side S. Saturation grows left to right,
// value falls top to bottom, and the hue slider runs opposite to the hue
// wheel. Colours are kept in integer HSV form (hue 0-359, saturation and
// value 0-255) so that a colour chosen on the square maps back to the exact
// point that produced it.
package colorpick

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	MaxHue   = 359
	MaxValue = 255
)

// HSV is an opaque colour in integer HSV form. H is -1 for achromatic colours.
type HSV struct {
	H int
	S int
	V int
}

// NewHSV returns a colour with every component clamped to its range.
func NewHSV(h, s, v int) HSV {
	if h > MaxHue {
		h = MaxHue
	}
	if h < -1 {
		h = -1
	}
	return HSV{H: h, S: clamp(s, 0, MaxValue), V: clamp(v, 0, MaxValue)}
}

// NRGBA converts the colour to an opaque pixel value.
func (c HSV) NRGBA() color.NRGBA {
	h := c.H
	if h < 0 {
		h = 0
	}
	r, g, b := colorful.Hsv(float64(h), float64(c.S)/MaxValue, float64(c.V)/MaxValue).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// FromNRGBA converts a pixel value to integer HSV, ignoring alpha. Greys
// come back achromatic.
func FromNRGBA(n color.NRGBA) HSV {
	h, s, v := colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}.Hsv()
	hue := int(math.Round(h)) % 360
	sat := int(math.Round(s * MaxValue))
	if sat == 0 {
		hue = -1
	}
	return NewHSV(hue, sat, int(math.Round(v*MaxValue)))
}

// Similar reports whether two colours are close enough to share one slot in
// the recent-colour history.
func (c HSV) Similar(other HSV) bool {
	return c.H == other.H && abs(c.S-other.S) < 3 && abs(c.V-other.V) < 3
}

func (c HSV) String() string {
	return fmt.Sprintf("hsv(%d, %d, %d)", c.H, c.S, c.V)
}

// Hex returns the #rrggbb form of the colour.
func (c HSV) Hex() string {
	n := c.NRGBA()
	return colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}.Hex()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
