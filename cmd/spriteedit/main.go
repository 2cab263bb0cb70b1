// Command spriteedit is a TUI editor for multi-frame pixel-art sprites.
package main

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/ha1tch/sprite-toolkit/pkg/config"
	"github.com/ha1tch/sprite-toolkit/pkg/errors"
	"github.com/ha1tch/sprite-toolkit/pkg/logging"
	"github.com/ha1tch/sprite-toolkit/pkg/sprite"
	"github.com/ha1tch/sprite-toolkit/pkg/spritefile"
	"github.com/ha1tch/sprite-toolkit/pkg/state"
)

// Mode represents editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeInput
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

// Editor holds all editor state
type Editor struct {
	screen  tcell.Screen
	session *sprite.Session
	config  config.Config
	cfgPath string
	state   *state.Store
	log     *logrus.Entry

	mode        Mode
	message     string
	messageType MessageType
	// messageFlashStart is read by the refresh goroutine.
	messageFlashStart atomic.Int64

	// Keyboard cursor on the canvas, in pixels
	cursorX int
	cursorY int

	// Mouse gesture in progress
	stroking    bool
	pickerDrag  bool
	quitPending bool

	// Latest animation preview frame
	preview image.Image

	// Input prompt
	inputPrompt string
	inputBuffer string
	inputAction func(string)
}

func main() {
	cfgPath := config.Path()
	cfg, cfgErr := config.Load(cfgPath)
	logging.Configure(cfg.LogLevel, cfg.LogFile)
	// The terminal belongs to the screen, so logs only go to a file
	if f, err := logging.OpenFile("spriteedit"); err == nil {
		logging.SetOutput(f)
		defer f.Close()
	} else {
		logging.SetOutput(io.Discard)
	}
	log := logging.NewLogger("spriteedit")
	if cfgErr != nil {
		log.WithError(cfgErr).Warn("using default config")
	}

	ed := &Editor{
		config:  cfg,
		cfgPath: cfgPath,
		log:     log,
	}
	if statePath, err := state.DefaultPath(); err == nil {
		if st, err := state.Open(statePath); err == nil {
			ed.state = st
		} else {
			log.WithError(err).Warn("recent files unavailable")
		}
	}

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()
	ed.screen = screen

	if err := ed.newSession(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Check command line
	if len(os.Args) > 1 {
		if err := ed.session.Open(os.Args[1]); err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
	}

	// Main loop
	ed.run()

	ed.session.Close()
	screen.Fini()
}

// newSession builds the editing session from the config and wires its
// events into the editor.
func (ed *Editor) newSession() error {
	var history sprite.History
	if ed.state != nil {
		history = ed.state
	}
	s, err := sprite.NewSession(sprite.Options{
		CanvasSize:    ed.config.DefaultCanvasSize,
		MaxCanvasSize: ed.config.MaxCanvasSize,
		PickerSize:    ed.config.PickerSize,
		Preview: sprite.PreviewOptions{
			Size:       ed.config.PreviewSize,
			ActualSize: ed.config.ActualSizePreview,
		},
		DefaultFPS: ed.config.DefaultFPS,
		Scheduler:  sprite.TickerScheduler{Post: ed.post},
		History:    history,
		Logger:     ed.log,
	})
	if err != nil {
		return err
	}
	s.Subscribe(ed.handleEvent)
	ed.session = s
	ed.preview = sprite.RenderPreview(s.Frames().CurrentFrame(), sprite.PreviewOptions{
		Size:       ed.config.PreviewSize,
		ActualSize: ed.config.ActualSizePreview,
	})
	return nil
}

// post runs fn on the event loop.
func (ed *Editor) post(fn func()) {
	if err := ed.screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		ed.log.WithError(err).Debug("animation tick dropped")
	}
}

func (ed *Editor) handleEvent(ev sprite.Event) {
	switch ev.Kind {
	case sprite.AnimationFrameReady:
		ed.preview = ev.Image
	case sprite.CanvasSizeChanged:
		ed.cursorX, ed.cursorY = 0, 0
	case sprite.DeletionBlocked:
		ed.showMessage("Stop the animation before deleting a frame", MsgWarning)
	case sprite.SavePathRequired:
		ed.promptSaveAs()
	case sprite.AnimationStarted:
		ed.showMessage(fmt.Sprintf("Playing at %d fps", ed.session.Player().FPS()), MsgInfo)
	case sprite.AnimationStopped:
		ed.showMessage("Animation stopped", MsgInfo)
	}
}

func (ed *Editor) run() {
	// Use a goroutine to send periodic refresh events during any flash animation
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond) // 20fps for smooth flash
		defer ticker.Stop()
		for range ticker.C {
			start := ed.messageFlashStart.Load()
			if start > 0 {
				elapsed := time.Now().UnixMilli() - start
				if elapsed >= 0 && elapsed < 700 {
					ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			// Animation ticks carry a closure; flash refreshes carry nothing
			if fn, ok := ev.Data().(func()); ok {
				fn()
			}
		case nil:
			return
		}
	}
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ed.mode {
	case ModeInput:
		return ed.handleInputKey(ev)
	case ModeHelp:
		ed.mode = ModeCanvas
		return false
	}

	// Global shortcuts (Ctrl or Cmd on macOS)
	mod := ev.Modifiers()
	isCtrlOrCmd := func(key tcell.Key, r rune) bool {
		if ev.Key() == key {
			return true
		}
		return mod&tcell.ModMeta != 0 && ev.Rune() == r
	}

	switch {
	case isCtrlOrCmd(tcell.KeyCtrlZ, 'z'):
		ed.undo()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlY, 'y'):
		ed.redo()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlS, 's'):
		ed.save()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlO, 'o'):
		ed.promptOpen()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlN, 'n'):
		ed.promptNewProject()
		return false
	case ev.Key() == tcell.KeyCtrlC:
		return true
	}

	if ev.Key() != tcell.KeyRune {
		ed.quitPending = false
		return ed.handleCanvasKey(ev)
	}

	r := ev.Rune()
	if r != 'q' {
		ed.quitPending = false
	}
	switch r {
	case 'q':
		if ed.session.Modified() && !ed.quitPending {
			ed.quitPending = true
			ed.showMessage("Unsaved changes - press q again to quit", MsgWarning)
			return false
		}
		return true
	case 'a':
		i := ed.session.CreateFrame()
		ed.showMessage(fmt.Sprintf("Added frame %d", i), MsgSuccess)
	case 'd':
		i := ed.session.DuplicateFrame()
		ed.showMessage(fmt.Sprintf("Duplicated into frame %d", i), MsgSuccess)
	case 'x':
		n := ed.session.FrameCount()
		if err := ed.session.DeleteFrame(); err != nil {
			break
		}
		if ed.session.FrameCount() == n {
			ed.showMessage("Cannot delete the only frame", MsgInfo)
			break
		}
		ed.showMessage("Frame deleted", MsgSuccess)
	case 'c':
		if err := ed.session.ClearFrame(); err == nil {
			ed.showMessage("Frame cleared", MsgSuccess)
		}
	case ' ':
		if !ed.session.ToggleAnimation() && ed.session.Player().FPS() == 0 {
			ed.showMessage("Set a speed with + before playing", MsgWarning)
		}
	case '+', '=':
		ed.changeSpeed(1)
	case '-':
		ed.changeSpeed(-1)
	case 'p':
		ed.session.SetTool(sprite.Pen)
		ed.showMessage("Pen", MsgInfo)
	case 'e':
		ed.session.SetTool(sprite.Eraser)
		ed.showMessage("Eraser", MsgInfo)
	case 'i':
		ed.eyedrop(image.Pt(ed.cursorX, ed.cursorY))
	case '[':
		ed.selectFrame(ed.session.CurrentFrame() - 1)
	case ']':
		ed.selectFrame(ed.session.CurrentFrame() + 1)
	case '?':
		ed.mode = ModeHelp
	}
	return false
}

func (ed *Editor) handleCanvasKey(ev *tcell.EventKey) bool {
	size := ed.session.CanvasSize()
	switch ev.Key() {
	case tcell.KeyUp:
		ed.cursorY = clampInt(ed.cursorY-1, 0, size-1)
	case tcell.KeyDown:
		ed.cursorY = clampInt(ed.cursorY+1, 0, size-1)
	case tcell.KeyLeft:
		ed.cursorX = clampInt(ed.cursorX-1, 0, size-1)
	case tcell.KeyRight:
		ed.cursorX = clampInt(ed.cursorX+1, 0, size-1)
	case tcell.KeyEnter:
		ed.session.BeginEdit()
		if err := ed.session.DrawPixel(image.Pt(ed.cursorX, ed.cursorY)); err != nil {
			ed.showMessage("Error: "+err.Error(), MsgError)
		}
		ed.session.EndEdit()
	case tcell.KeyEscape:
		ed.message = ""
	}
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		if ed.inputAction != nil {
			ed.inputAction(ed.inputBuffer)
		}
		ed.inputBuffer = ""
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		_, n := utf8.DecodeLastRuneInString(ed.inputBuffer)
		ed.inputBuffer = ed.inputBuffer[:len(ed.inputBuffer)-n]
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
	return false
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	mx, my := ev.Position()
	l := ed.layout()
	pressed := ev.Buttons()&tcell.Button1 != 0

	// Right click on the canvas picks up a colour
	if ev.Buttons()&tcell.Button2 != 0 && !ed.stroking && l.canvas.contains(mx, my) {
		ed.eyedrop(l.canvasPixel(mx, my))
		return
	}

	if !pressed {
		if ed.stroking {
			ed.session.EndEdit()
			ed.stroking = false
		}
		if ed.pickerDrag {
			ed.session.ReleasePicker()
			ed.pickerDrag = false
		}
		return
	}

	switch {
	case ed.stroking || (!ed.pickerDrag && l.canvas.contains(mx, my)):
		if !l.canvas.contains(mx, my) {
			return
		}
		if !ed.stroking {
			ed.session.BeginEdit()
			ed.stroking = true
		}
		p := l.canvasPixel(mx, my)
		ed.cursorX, ed.cursorY = p.X, p.Y
		if err := ed.session.DrawPixel(p); err != nil {
			ed.log.WithError(err).Debug("draw rejected")
		}
	case ed.pickerDrag:
		ed.session.DragPicker(l.pickerPoint(mx, my))
	case l.picker.contains(mx, my):
		ed.session.PickColorAt(l.pickerPoint(mx, my))
		ed.pickerDrag = true
	case l.hue.contains(mx, my):
		ed.session.SetHue(l.hueAt(mx))
	case l.swatches.contains(mx, my):
		recent := ed.session.RecentColors()
		if i := (mx - l.swatches.x) / swatchWidth; i < len(recent) {
			ed.session.SelectRecentColor(recent[i])
		}
	case l.frames.contains(mx, my):
		if i, ok := l.frameAt(mx, ed.session.CurrentFrame(), ed.session.FrameCount()); ok {
			ed.selectFrame(i)
		}
	}
}

func (ed *Editor) selectFrame(i int) {
	if i < 0 || i >= ed.session.FrameCount() {
		return
	}
	if err := ed.session.SelectFrame(i); err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
	}
}

func (ed *Editor) eyedrop(p image.Point) {
	if err := ed.session.PickCanvasColor(p); err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
		return
	}
	if ed.session.Tool() == sprite.Eraser {
		ed.showMessage("Eraser", MsgInfo)
		return
	}
	ed.showMessage("Picked "+ed.session.PenColor().Hex(), MsgInfo)
}

func (ed *Editor) changeSpeed(delta int) {
	fps := clampInt(ed.session.Player().FPS()+delta, 0, 60)
	ed.session.SetAnimationSpeed(fps)
	if fps == 0 {
		ed.showMessage("Animation disabled", MsgInfo)
		return
	}
	ed.showMessage(fmt.Sprintf("%d fps", fps), MsgInfo)
}

func (ed *Editor) undo() {
	if _, ok := ed.session.Undo(); !ok {
		ed.showMessage("Nothing to undo", MsgInfo)
		return
	}
	ed.showMessage("Undo", MsgInfo)
}

func (ed *Editor) redo() {
	if _, ok := ed.session.Redo(); !ok {
		ed.showMessage("Nothing to redo", MsgInfo)
		return
	}
	ed.showMessage("Redo", MsgInfo)
}

// File operations

func (ed *Editor) save() {
	err := ed.session.Save()
	if errors.Is(err, errors.ErrCodeNoSavePath) {
		// SavePathRequired has opened the prompt
		return
	}
	ed.afterSave(err)
}

func (ed *Editor) promptSaveAs() {
	ed.prompt("Save as: ", ed.suggestPath(), func(path string) {
		if strings.TrimSpace(path) == "" {
			return
		}
		ed.afterSave(ed.session.SaveAs(path))
	})
}

func (ed *Editor) afterSave(err error) {
	if err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
		return
	}
	ed.rememberDir(ed.session.Path())
	ed.showMessage("Saved: "+ed.session.Path(), MsgSuccess)
}

func (ed *Editor) promptOpen() {
	initial := ed.config.LastDir + string(filepath.Separator)
	if ed.state != nil && len(ed.state.State.RecentFiles) > 0 {
		initial = ed.state.State.RecentFiles[0]
	}
	ed.prompt("Open: ", initial, func(path string) {
		if err := ed.session.Open(path); err != nil {
			ed.showMessage("Error: "+err.Error(), MsgError)
			return
		}
		ed.rememberDir(path)
		ed.showMessage("Loaded: "+path, MsgSuccess)
	})
}

func (ed *Editor) promptNewProject() {
	initial := strconv.Itoa(ed.config.DefaultCanvasSize)
	ed.prompt(fmt.Sprintf("Canvas size (1-%d): ", ed.session.MaxCanvasSize()), initial, func(text string) {
		size, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			ed.showMessage("Not a number: "+text, MsgError)
			return
		}
		if err := ed.session.NewProject(size); err != nil {
			ed.showMessage("Error: "+err.Error(), MsgError)
			return
		}
		ed.showMessage(fmt.Sprintf("New %dx%d project", size, size), MsgSuccess)
	})
}

func (ed *Editor) prompt(label, initial string, action func(string)) {
	ed.mode = ModeInput
	ed.inputPrompt = label
	ed.inputBuffer = initial
	ed.inputAction = action
}

func (ed *Editor) suggestPath() string {
	if p := ed.session.Path(); p != "" {
		return p
	}
	return filepath.Join(ed.config.LastDir, "sprite"+spritefile.Extension)
}

// rememberDir stores the directory of path as the last used one.
func (ed *Editor) rememberDir(path string) {
	dir := filepath.Dir(path)
	if dir == ed.config.LastDir {
		return
	}
	ed.config.LastDir = dir
	if err := config.Save(ed.cfgPath, ed.config); err != nil {
		ed.log.WithError(err).Warn("config not saved")
	}
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart.Store(time.Now().UnixMilli())
	// Trigger immediate refresh for flash animation
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
