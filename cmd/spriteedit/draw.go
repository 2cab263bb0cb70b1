package main

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/sprite-toolkit/pkg/colorpick"
	"github.com/ha1tch/sprite-toolkit/pkg/sprite"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleTitle      = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleFrame      = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFrameSel   = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleFramePlay  = tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)
	styleLabel      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy).Bold(true)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray) // Help bar on default background
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

const (
	halfBlock = '▀'
	flashTime = 500 // ms
)

func (ed *Editor) layout() layout {
	return computeLayout(ed.session.CanvasSize(), ed.session.Picker().Size(), ed.previewSize())
}

// previewSize is the side of the preview pane in pixels.
func (ed *Editor) previewSize() int {
	if ed.preview != nil {
		return ed.preview.Bounds().Dx()
	}
	return ed.config.PreviewSize
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()
	l := ed.layout()

	ed.drawCanvas(l)
	ed.drawPicker(l)
	ed.drawSwatches(l)
	ed.drawPreview(l)
	ed.drawFrameStrip(l)

	switch ed.mode {
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeHelp:
		ed.drawHelpOverlay(w, h)
	}

	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawCanvas(l layout) {
	c := l.canvas
	title := fmt.Sprintf("Frame %d", ed.session.CurrentFrame())
	ed.drawTitledBox(c.x-1, c.y-1, c.w+2, c.h+2, title)

	frame := ed.session.Frames().CurrentFrame()
	size := ed.session.CanvasSize()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			px := frame.NRGBAAt(x, y)
			bg := blendOverChecker(px, sprite.CheckerAt(x, y))
			style := styleDefault.Background(rgb(bg))
			left, right := ' ', ' '
			if x == ed.cursorX && y == ed.cursorY {
				left, right = '[', ']'
				style = style.Foreground(rgb(contrast(bg)))
			}
			ed.screen.SetContent(c.x+x*2, c.y+y, left, nil, style)
			ed.screen.SetContent(c.x+x*2+1, c.y+y, right, nil, style)
		}
	}
}

func (ed *Editor) drawPicker(l layout) {
	pk := ed.session.Picker()
	p := l.picker
	ed.drawTitledBox(p.x-1, p.y-1, p.w+2, p.h+2, "Colour")

	hue := pk.Hue()
	mark := pk.Point()
	for cy := 0; cy < p.h; cy++ {
		for cx := 0; cx < p.w; cx++ {
			top := pk.ColorAt(image.Pt(cx, cy*2), hue).NRGBA()
			bottom := pk.ColorAt(image.Pt(cx, cy*2+1), hue).NRGBA()
			r, style := halfBlock, styleDefault.Foreground(rgb(top)).Background(rgb(bottom))
			if mark.X == cx && mark.Y/2 == cy {
				r, style = '+', styleDefault.Foreground(rgb(contrast(bottom))).Background(rgb(bottom))
			}
			ed.screen.SetContent(p.x+cx, p.y+cy, r, nil, style)
		}
	}

	// Hue slider
	for i := 0; i < l.hue.w; i++ {
		v := l.hueAt(l.hue.x + i)
		c := colorpick.NewHSV(colorpick.MaxHue-v, colorpick.MaxValue, colorpick.MaxValue).NRGBA()
		r := ' '
		if i == hueColumn(hue, l.hue.w) {
			r = '^'
		}
		ed.screen.SetContent(l.hue.x+i, l.hue.y, r, nil, styleDefault.Background(rgb(c)).Foreground(tcell.ColorBlack))
	}
}

// hueColumn is the slider column closest to hue.
func hueColumn(hue, width int) int {
	if width <= 1 {
		return 0
	}
	return (hue*(width-1) + colorpick.MaxHue/2) / colorpick.MaxHue
}

func (ed *Editor) drawSwatches(l layout) {
	s := l.swatches
	ed.drawString(s.x, s.y-1, "Recent", styleTitle)
	for i, c := range ed.session.RecentColors() {
		style := styleDefault.Background(rgb(c.NRGBA()))
		for j := 0; j < swatchWidth-1; j++ {
			ed.screen.SetContent(s.x+i*swatchWidth+j, s.y, ' ', nil, style)
		}
	}
	tool := ed.session.Tool().String()
	if ed.session.Tool() == sprite.Pen {
		tool += " " + ed.session.PenColor().Hex()
	}
	ed.drawString(s.x+5*swatchWidth+1, s.y, tool, styleLabel)
}

func (ed *Editor) drawPreview(l layout) {
	p := l.preview
	player := ed.session.Player()
	title := "Preview"
	if player.FPS() > 0 {
		title = fmt.Sprintf("Preview %dfps", player.FPS())
	}
	ed.drawTitledBox(p.x-1, p.y-1, p.w+2, p.h+2, title)
	if ed.preview == nil {
		return
	}
	b := ed.preview.Bounds()
	for cy := 0; cy < p.h; cy++ {
		for cx := 0; cx < p.w && cx < b.Dx(); cx++ {
			top := color.NRGBAModel.Convert(ed.preview.At(b.Min.X+cx, b.Min.Y+cy*2)).(color.NRGBA)
			bottom := top
			if cy*2+1 < b.Dy() {
				bottom = color.NRGBAModel.Convert(ed.preview.At(b.Min.X+cx, b.Min.Y+cy*2+1)).(color.NRGBA)
			}
			style := styleDefault.Foreground(rgb(top)).Background(rgb(bottom))
			ed.screen.SetContent(p.x+cx, p.y+cy, halfBlock, nil, style)
		}
	}
}

func (ed *Editor) drawFrameStrip(l layout) {
	f := l.frames
	ed.drawString(f.x, f.y-1, "Frames", styleTitle)
	current := ed.session.CurrentFrame()
	player := ed.session.Player()
	first := l.firstFrameTab(current)
	for tab := 0; tab < l.frameTabs(); tab++ {
		i := first + tab
		if i >= ed.session.FrameCount() {
			break
		}
		style := styleFrame
		switch {
		case i == current:
			style = styleFrameSel
		case player.Running() && i == player.Index():
			style = styleFramePlay
		}
		ed.drawString(f.x+tab*frameTabWidth, f.y, fmt.Sprintf("%3d", i), style)
	}
}

func (ed *Editor) drawTitledBox(x, y, w, h int, title string) {
	ed.drawBox(x, y, w, h, styleBorder)
	if title != "" && len(title)+2 < w {
		titleX := x + (w-len(title)-2)/2
		ed.screen.SetContent(titleX, y, ' ', nil, styleBorder)
		ed.drawString(titleX+1, y, title, styleTitle)
		ed.screen.SetContent(titleX+1+len(title), y, ' ', nil, styleBorder)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	// File info
	fileInfo := "[New]"
	if path := ed.session.Path(); path != "" {
		if len(path) > 30 {
			fileInfo = filepath.Base(path)
		} else {
			fileInfo = path
		}
	}
	if ed.session.Modified() {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	// Canvas info
	info := fmt.Sprintf("%dx%d  frame %d/%d  (%d,%d)",
		ed.session.CanvasSize(), ed.session.CanvasSize(),
		ed.session.CurrentFrame()+1, ed.session.FrameCount(),
		ed.cursorX, ed.cursorY)
	ed.drawString(w/2-len(info)/2, y, info, styleStatus)

	// Message
	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if flashes(ed.messageType) {
			elapsed := time.Now().UnixMilli() - ed.messageFlashStart.Load()
			if flashInverted(elapsed) {
				style = style.Reverse(true)
			}
		}
		ed.drawString(w-len(ed.message)-2, y, ed.message, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, truncate(ed.helpString(), w-2), styleHelp)
}

// flashes reports whether messages of this type flash when shown.
func flashes(t MessageType) bool {
	return t != MsgInfo
}

// flashInverted reports whether a flashing message is drawn inverted
// elapsed milliseconds after it was shown: two inverted phases of 125ms.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashTime {
		return false
	}
	phase := elapsed / (flashTime / 4)
	return phase == 1 || phase == 3
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := 60
	if boxW > w-4 {
		boxW = w - 4
	}
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	for x := boxX + 1; x < boxX+boxW-1; x++ {
		ed.screen.SetContent(x, boxY+1, ' ', nil, styleInput)
	}

	// Keep the tail of long input visible
	room := boxW - 5 - len(ed.inputPrompt)
	input := ed.inputBuffer
	if room > 0 && len(input) > room {
		input = input[len(input)-room:]
	}
	ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	ed.drawString(boxX+2+len(ed.inputPrompt), boxY+1, input+"_", styleInput)
}

var helpLines = []string{
	"Mouse       draw on the canvas, pick in the colour square",
	"Arrows      move cursor        Enter  paint at cursor",
	"p / e       pen / eraser       [ ]    previous / next frame",
	"i           pick colour at cursor (or right click)",
	"a           add frame          d      duplicate frame",
	"x           delete frame       c      clear frame",
	"space       play / stop        + -    animation speed",
	"^Z / ^Y     undo / redo        ^S     save",
	"^O          open               ^N     new project",
	"q           quit",
}

func (ed *Editor) drawHelpOverlay(w, h int) {
	boxW := 64
	boxH := len(helpLines) + 4
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2
	ed.drawTitledBox(boxX, boxY, boxW, boxH, "Keys")
	for x := boxX + 1; x < boxX+boxW-1; x++ {
		for y := boxY + 1; y < boxY+boxH-1; y++ {
			ed.screen.SetContent(x, y, ' ', nil, styleDefault)
		}
	}
	for i, line := range helpLines {
		ed.drawString(boxX+2, boxY+2+i, line, styleLabel)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	// Corners
	ed.screen.SetContent(x, y, '┌', nil, style)
	ed.screen.SetContent(x+w-1, y, '┐', nil, style)
	ed.screen.SetContent(x, y+h-1, '└', nil, style)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, style)

	// Horizontal lines
	for i := 1; i < w-1; i++ {
		ed.screen.SetContent(x+i, y, '─', nil, style)
		ed.screen.SetContent(x+i, y+h-1, '─', nil, style)
	}

	// Vertical lines
	for i := 1; i < h-1; i++ {
		ed.screen.SetContent(x, y+i, '│', nil, style)
		ed.screen.SetContent(x+w-1, y+i, '│', nil, style)
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		ed.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeInput:
		return "Enter: Confirm  Esc: Cancel"
	case ModeHelp:
		return "Any key: Close"
	}
	return "p/e: Pen/Eraser  a/d/x/c: Add/Dup/Del/Clear  Space: Play  +/-: Speed  ^Z/^Y: Undo/Redo  ^S: Save  ?: Help  q: Quit"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		if maxLen < 0 {
			return ""
		}
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func rgb(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// blendOverChecker composites a possibly translucent pixel over the
// checkerboard shade behind it.
func blendOverChecker(px, checker color.NRGBA) color.NRGBA {
	a := uint32(px.A)
	mix := func(fg, bg uint8) uint8 {
		return uint8((uint32(fg)*a + uint32(bg)*(255-a) + 127) / 255)
	}
	return color.NRGBA{R: mix(px.R, checker.R), G: mix(px.G, checker.G), B: mix(px.B, checker.B), A: 255}
}

// contrast picks black or white for text drawn over c.
func contrast(c color.NRGBA) color.NRGBA {
	if int(c.R)*299+int(c.G)*587+int(c.B)*114 > 128000 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
}
