package sprite

import (
	"image"
	"image/color"
)

// EditComponent is a single pixel change.
type EditComponent struct {
	Pos image.Point
	Old color.NRGBA
	New color.NRGBA
}

// Edit groups the pixel changes of one stroke on one frame.
type Edit struct {
	FrameIndex int
	Components []EditComponent
}

func (e *Edit) add(c EditComponent) {
	e.Components = append(e.Components, c)
}

func (e *Edit) empty() bool {
	return len(e.Components) == 0
}

// apply writes either the old or the new colour of every component.
func (e *Edit) apply(img *image.NRGBA, undo bool) {
	if undo {
		for i := len(e.Components) - 1; i >= 0; i-- {
			c := e.Components[i]
			img.SetNRGBA(c.Pos.X, c.Pos.Y, c.Old)
		}
		return
	}
	for _, c := range e.Components {
		img.SetNRGBA(c.Pos.X, c.Pos.Y, c.New)
	}
}

func (e *Edit) clone() Edit {
	out := Edit{FrameIndex: e.FrameIndex, Components: make([]EditComponent, len(e.Components))}
	copy(out.Components, e.Components)
	return out
}
