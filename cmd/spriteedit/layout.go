package main

import "image"

const (
	swatchWidth   = 4
	frameTabWidth = 5
	marginX       = 2
	marginY       = 1
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout places the panes in screen cells. Canvas pixels are two cells wide
// and one row tall; the picker and the preview pack two pixel rows per cell
// with half blocks.
type layout struct {
	canvas   rect
	picker   rect
	hue      rect
	swatches rect
	preview  rect
	frames   rect
}

func computeLayout(canvasSize, pickerSize, previewSize int) layout {
	var l layout
	l.canvas = rect{marginX + 1, marginY + 1, canvasSize * 2, canvasSize}

	right := l.canvas.x + l.canvas.w + 3
	l.picker = rect{right, l.canvas.y, pickerSize, (pickerSize + 1) / 2}
	l.hue = rect{right, l.picker.y + l.picker.h + 1, pickerSize, 1}
	l.swatches = rect{right, l.hue.y + 2, 5 * swatchWidth, 1}
	l.preview = rect{right, l.swatches.y + 3, previewSize, (previewSize + 1) / 2}

	l.frames = rect{l.canvas.x, l.canvas.y + l.canvas.h + 2, l.canvas.w, 1}
	return l
}

// canvasPixel maps a screen cell inside the canvas to a pixel.
func (l layout) canvasPixel(x, y int) image.Point {
	return image.Pt((x-l.canvas.x)/2, y-l.canvas.y)
}

// pickerPoint maps a screen cell to the picker square. Each cell covers two
// rows, the lower one is chosen so the bottom edge stays reachable.
func (l layout) pickerPoint(x, y int) image.Point {
	py := (y-l.picker.y)*2 + 1
	if py >= l.picker.w {
		py = l.picker.w - 1
	}
	return image.Pt(x-l.picker.x, py)
}

// hueAt maps a column of the hue bar to 0-359.
func (l layout) hueAt(x int) int {
	if l.hue.w <= 1 {
		return 0
	}
	return clampInt((x-l.hue.x)*359/(l.hue.w-1), 0, 359)
}

// frameTabs is the number of frame tabs that fit in the strip.
func (l layout) frameTabs() int {
	if n := l.frames.w / frameTabWidth; n > 0 {
		return n
	}
	return 1
}

// firstFrameTab scrolls the strip so the current frame stays visible.
func (l layout) firstFrameTab(current int) int {
	if first := current - l.frameTabs() + 1; first > 0 {
		return first
	}
	return 0
}

// frameAt maps a column of the frame strip to a frame index.
func (l layout) frameAt(x, current, count int) (int, bool) {
	if x < l.frames.x {
		return 0, false
	}
	tab := (x - l.frames.x) / frameTabWidth
	i := l.firstFrameTab(current) + tab
	if tab >= l.frameTabs() || i >= count {
		return 0, false
	}
	return i, true
}
