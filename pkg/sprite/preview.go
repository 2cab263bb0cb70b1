package sprite

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Checkerboard shades behind transparent pixels.
var (
	CheckerLight = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	CheckerDark  = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
)

// PreviewOptions controls how frames are rendered for the animation preview.
type PreviewOptions struct {
	// Size is the side of the rendered preview in pixels.
	Size int
	// ActualSize emits frames unscaled.
	ActualSize bool
}

// CheckerAt returns the backdrop colour for pixel (x, y).
func CheckerAt(x, y int) color.NRGBA {
	if (x+y)%2 == 0 {
		return CheckerLight
	}
	return CheckerDark
}

// RenderPreview composites frame over the checkerboard and scales it with
// nearest-neighbour sampling.
func RenderPreview(frame *image.NRGBA, opts PreviewOptions) *image.NRGBA {
	b := frame.Bounds()
	base := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			base.SetNRGBA(x, y, CheckerAt(x, y))
		}
	}
	draw.Draw(base, base.Bounds(), frame, b.Min, draw.Over)

	if opts.ActualSize || opts.Size <= 0 || opts.Size == b.Dx() {
		return base
	}
	out := image.NewNRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	draw.NearestNeighbor.Scale(out, out.Bounds(), base, base.Bounds(), draw.Src, nil)
	return out
}

// Renderer returns a Renderer bound to the options.
func (o PreviewOptions) Renderer() Renderer {
	return func(frame *image.NRGBA) image.Image {
		return RenderPreview(frame, o)
	}
}
