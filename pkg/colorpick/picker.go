package colorpick

import "image"

// DefaultSize is the side of the gradient square when none is configured.
const DefaultSize = 32

// Picker holds the hue slider position and the selected point inside the
// gradient square. Points are local to the square, origin top-left.
type Picker struct {
	size  int
	hue   int
	point image.Point

	// OnColorChanged is called when a colour is committed: pointer release,
	// hue slider release, recent swatch activation or reset.
	OnColorChanged func(HSV)
}

// NewPicker creates a picker for a square of the given side, in its reset state.
func NewPicker(size int) *Picker {
	if size < 4 {
		size = DefaultSize
	}
	p := &Picker{size: size}
	p.hue = 0
	p.point = p.defaultPoint()
	return p
}

// defaultPoint sits near the bottom-left (black) corner, nudged inwards so
// the selection marker stays visible.
func (pk *Picker) defaultPoint() image.Point {
	return image.Pt(2, pk.size-3)
}

// Size returns the side of the gradient square.
func (pk *Picker) Size() int { return pk.size }

// Hue returns the slider value, 0-359.
func (pk *Picker) Hue() int { return pk.hue }

// Point returns the selected point.
func (pk *Picker) Point() image.Point { return pk.point }

// Color returns the colour under the current point and hue.
func (pk *Picker) Color() HSV {
	return pk.ColorAt(pk.point, pk.hue)
}

// ColorAt maps a point in the square and a slider value to a colour.
func (pk *Picker) ColorAt(p image.Point, hue int) HSV {
	hue = clamp(hue, 0, MaxHue)
	s := clamp(p.X*MaxValue/pk.size, 0, MaxValue)
	v := MaxValue - clamp(p.Y*MaxValue/pk.size, 0, MaxValue)
	return HSV{H: MaxHue - hue, S: s, V: v}
}

// PointAndHueFor is the inverse of ColorAt. The point returned is the
// smallest one that maps back to c, so colours produced by ColorAt round-trip
// exactly. Other colours land within Step of c.
func (pk *Picker) PointAndHueFor(c HSV) (image.Point, int) {
	hue := 0
	if c.H >= 0 {
		hue = MaxHue - clamp(c.H, 0, MaxHue)
	}
	s := clamp(c.S, 0, MaxValue)
	v := clamp(c.V, 0, MaxValue)
	x := ceilDiv(s*pk.size, MaxValue)
	y := ceilDiv((MaxValue-v)*pk.size, MaxValue)
	return image.Pt(x, y), hue
}

// Step is the largest change in saturation or value between neighbouring
// points of the square, ceil(255/S). Arbitrary colours come back from
// PointAndHueFor within one step.
func (pk *Picker) Step() int {
	return ceilDiv(MaxValue, pk.size)
}

// InBounds reports whether p lies strictly inside the square.
func (pk *Picker) InBounds(p image.Point) bool {
	return 0 < p.X && p.X < pk.size && 0 < p.Y && p.Y < pk.size
}

// Press selects p and commits its colour. Presses outside the square or on
// the current point are ignored.
func (pk *Picker) Press(p image.Point) bool {
	if !pk.InBounds(p) || p == pk.point {
		return false
	}
	pk.point = p
	pk.emit(pk.Color())
	return true
}

// Drag moves the selection without committing. Out-of-bounds input keeps the
// last valid point.
func (pk *Picker) Drag(p image.Point) bool {
	if !pk.InBounds(p) || p == pk.point {
		return false
	}
	pk.point = p
	return true
}

// Release commits the colour under the current point.
func (pk *Picker) Release() HSV {
	c := pk.Color()
	pk.emit(c)
	return c
}

// SetHue moves the hue slider without committing.
func (pk *Picker) SetHue(v int) {
	pk.hue = clamp(v, 0, MaxHue)
}

// ReleaseHue commits the colour after a slider move.
func (pk *Picker) ReleaseHue() HSV {
	return pk.Release()
}

// SelectRecent moves the picker onto c and commits it. The recent list
// itself is left to the owner of the history.
func (pk *Picker) SelectRecent(c HSV) {
	pk.point, pk.hue = pk.PointAndHueFor(c)
	pk.emit(c)
}

// Reset returns to hue 0 and the default point, and commits that colour.
func (pk *Picker) Reset() HSV {
	pk.hue = 0
	pk.point = pk.defaultPoint()
	c := pk.Color()
	pk.emit(c)
	return c
}

func (pk *Picker) emit(c HSV) {
	if pk.OnColorChanged != nil {
		pk.OnColorChanged(c)
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
