// Package sprite is the editing core of the sprite editor: the frame list,
// the pixel-diff undo history, animation playback, and the Session that ties
// them to the colour picker and the project file.
//
// Everything here runs on the caller's goroutine. Views call Session methods
// and listen on its Bus; the only timer is the animation Scheduler, whose
// ticks must be posted back onto the same loop.
package sprite

import (
	"image"
	"image/color"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ha1tch/sprite-toolkit/pkg/colorpick"
	"github.com/ha1tch/sprite-toolkit/pkg/errors"
	"github.com/ha1tch/sprite-toolkit/pkg/logging"
	"github.com/ha1tch/sprite-toolkit/pkg/spritefile"
)

// Tool is the active drawing tool.
type Tool int

const (
	Pen Tool = iota
	Eraser
)

func (t Tool) String() string {
	if t == Eraser {
		return "eraser"
	}
	return "pen"
}

// History records projects that were opened or saved.
type History interface {
	Touch(path string) error
}

// Options configures a Session. Zero values select the defaults.
type Options struct {
	CanvasSize    int
	MaxCanvasSize int
	PickerSize    int
	Preview       PreviewOptions
	DefaultFPS    int
	Scheduler     Scheduler
	History       History
	Logger        *logrus.Entry
}

const (
	defaultCanvasSize  = 16
	defaultMaxCanvas   = 32
	defaultPreviewSize = 32
)

// Session is one open project and its editing state.
type Session struct {
	ID string

	bus     *Bus
	frames  *FrameStore
	journal *Journal
	player  *Player
	picker  *colorpick.Picker
	recent  *colorpick.Recent

	tool       Tool
	maxSize    int
	defaultFPS int
	path       string
	modified   bool
	history    History
	log        *logrus.Entry
}

// NewSession creates a session holding a blank single-frame project.
func NewSession(opts Options) (*Session, error) {
	if opts.MaxCanvasSize <= 0 {
		opts.MaxCanvasSize = defaultMaxCanvas
	}
	if opts.CanvasSize == 0 {
		opts.CanvasSize = defaultCanvasSize
		if opts.CanvasSize > opts.MaxCanvasSize {
			opts.CanvasSize = opts.MaxCanvasSize
		}
	}
	if opts.CanvasSize < 1 || opts.CanvasSize > opts.MaxCanvasSize {
		return nil, errors.InvalidCanvasSize(opts.CanvasSize, opts.MaxCanvasSize)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = idleScheduler{}
	}
	if opts.Preview.Size == 0 {
		opts.Preview.Size = defaultPreviewSize
	}

	id := uuid.NewString()
	log := opts.Logger
	if log == nil {
		log = logging.NewLogger("session")
	}

	s := &Session{
		ID:         id,
		bus:        &Bus{},
		recent:     colorpick.NewRecent(colorpick.DefaultRecentCapacity),
		picker:     colorpick.NewPicker(opts.PickerSize),
		maxSize:    opts.MaxCanvasSize,
		defaultFPS: opts.DefaultFPS,
		history:    opts.History,
		log:        log.WithField("session", id),
	}
	s.frames = NewFrameStore(opts.CanvasSize)
	s.journal = NewJournal(s.frames)
	s.player = NewPlayer(s.frames, opts.Scheduler, s.bus)
	s.player.SetRenderer(opts.Preview.Renderer())
	s.frames.SetObserver(s.journal)
	s.frames.SetGuard(s.player)
	s.picker.OnColorChanged = s.colorCommitted

	s.resetEditor()
	s.log.WithField("size", opts.CanvasSize).Debug("session created")
	return s, nil
}

// Bus returns the event bus views subscribe to.
func (s *Session) Bus() *Bus { return s.bus }

// Subscribe is shorthand for Bus().Subscribe.
func (s *Session) Subscribe(fn Listener) func() { return s.bus.Subscribe(fn) }

func (s *Session) Frames() *FrameStore           { return s.frames }
func (s *Session) Journal() *Journal             { return s.journal }
func (s *Session) Player() *Player               { return s.player }
func (s *Session) Picker() *colorpick.Picker     { return s.picker }
func (s *Session) CanvasSize() int               { return s.frames.CanvasSize() }
func (s *Session) MaxCanvasSize() int            { return s.maxSize }
func (s *Session) CurrentFrame() int             { return s.frames.Current() }
func (s *Session) FrameCount() int               { return s.frames.Len() }
func (s *Session) Path() string                  { return s.path }
func (s *Session) Modified() bool                { return s.modified }
func (s *Session) Tool() Tool                    { return s.tool }
func (s *Session) RecentColors() []colorpick.HSV { return s.recent.Swatches() }

// Close stops playback.
func (s *Session) Close() {
	if s.player.Running() {
		s.player.Toggle()
	}
}

// Frames

// CreateFrame appends a transparent frame and selects it.
func (s *Session) CreateFrame() int {
	i := s.frames.CreateFrame()
	s.modified = true
	s.log.WithField("frame", i).Debug("frame created")
	s.framesChanged()
	return i
}

// DuplicateFrame appends a copy of the current frame and selects it.
func (s *Session) DuplicateFrame() int {
	src := s.frames.Current()
	i := s.frames.DuplicateCurrent()
	s.modified = true
	s.log.WithFields(logrus.Fields{"frame": i, "source": src}).Debug("frame duplicated")
	s.framesChanged()
	return i
}

// DeleteFrame removes the current frame. Deleting the only frame does
// nothing; deleting during playback is refused with DeletionBlocked.
func (s *Session) DeleteFrame() error {
	at := s.frames.Current()
	removed, err := s.frames.DeleteCurrent()
	if err != nil {
		s.log.WithError(err).Warn("frame deletion refused")
		s.bus.Emit(Event{Kind: DeletionBlocked})
		return err
	}
	if !removed {
		return nil
	}
	s.modified = true
	s.log.WithField("frame", at).Debug("frame deleted")
	s.framesChanged()
	return nil
}

// SelectFrame makes frame i current.
func (s *Session) SelectFrame(i int) error {
	if err := s.frames.Select(i); err != nil {
		s.log.WithError(err).Warn("frame selection rejected")
		return err
	}
	s.bus.Emit(Event{Kind: CurrentFrameChanged, Index: i})
	return nil
}

// ClearFrame makes the current frame transparent and forgets its edits.
func (s *Session) ClearFrame() error {
	i := s.frames.Current()
	if err := s.frames.Clear(i); err != nil {
		return err
	}
	s.journal.ClearForFrame(i)
	s.modified = true
	s.log.WithField("frame", i).Debug("frame cleared")
	s.frameUpdated(i)
	return nil
}

// ClearEditsOnFrame drops the undo and redo entries made on frame i.
func (s *Session) ClearEditsOnFrame(i int) {
	s.journal.ClearForFrame(i)
}

func (s *Session) framesChanged() {
	s.bus.Emit(Event{Kind: FramesChanged, Count: s.frames.Len()})
	s.bus.Emit(Event{Kind: CurrentFrameChanged, Index: s.frames.Current()})
}

func (s *Session) frameUpdated(i int) {
	s.bus.Emit(Event{Kind: FrameUpdated, Index: i})
	if !s.player.Running() && s.player.Index() == i {
		s.player.Refresh()
	}
}

// Editing

// BeginEdit starts a stroke on the current frame.
func (s *Session) BeginEdit() {
	s.journal.BeginEdit(s.frames.Current())
}

// AddEditComponent records a pixel change in the stroke in progress and
// writes the new colour into the stroke's frame.
func (s *Session) AddEditComponent(pos image.Point, oldColor, newColor color.NRGBA) error {
	i, ok := s.journal.CurrentFrame()
	if !ok {
		err := errors.NoActiveEdit()
		s.log.WithError(err).Warn("edit component dropped")
		return err
	}
	img, err := s.frames.Frame(i)
	if err != nil {
		return err
	}
	if !pos.In(img.Rect) {
		return errors.OutOfRange("pixel", pos.X+pos.Y*img.Rect.Dx(), img.Rect.Dx()*img.Rect.Dy()).
			WithDetail("x", pos.X).
			WithDetail("y", pos.Y)
	}
	if err := s.journal.AddComponent(pos, oldColor, newColor); err != nil {
		return err
	}
	img.SetNRGBA(pos.X, pos.Y, newColor)
	s.modified = true
	s.frameUpdated(i)
	return nil
}

// DrawPixel paints p with the active tool as part of the stroke in progress.
// Painting a pixel with the colour it already has records nothing.
func (s *Session) DrawPixel(p image.Point) error {
	i, ok := s.journal.CurrentFrame()
	if !ok {
		err := errors.NoActiveEdit()
		s.log.WithError(err).Warn("draw outside edit")
		return err
	}
	img, err := s.frames.Frame(i)
	if err != nil {
		return err
	}
	if !p.In(img.Rect) {
		return errors.OutOfRange("pixel", p.X+p.Y*img.Rect.Dx(), img.Rect.Dx()*img.Rect.Dy()).
			WithDetail("x", p.X).
			WithDetail("y", p.Y)
	}
	old := img.NRGBAAt(p.X, p.Y)
	c := s.ToolColor()
	if old == c {
		return nil
	}
	return s.AddEditComponent(p, old, c)
}

// EndEdit finishes the stroke and reports whether it was committed.
func (s *Session) EndEdit() bool {
	committed := s.journal.EndEdit()
	if committed {
		s.log.WithField("undo", s.journal.UndoDepth()).Debug("edit committed")
	}
	return committed
}

// Undo reverts the last edit.
func (s *Session) Undo() (int, bool) {
	i, ok := s.journal.Undo()
	if ok {
		s.modified = true
		s.log.WithField("frame", i).Debug("undo")
		s.frameUpdated(i)
	}
	return i, ok
}

// Redo reapplies the last undone edit.
func (s *Session) Redo() (int, bool) {
	i, ok := s.journal.Redo()
	if ok {
		s.modified = true
		s.log.WithField("frame", i).Debug("redo")
		s.frameUpdated(i)
	}
	return i, ok
}

// Tools and colour

// SetTool selects the drawing tool.
func (s *Session) SetTool(t Tool) {
	s.tool = t
}

// ToolColor returns the colour the active tool paints with.
func (s *Session) ToolColor() color.NRGBA {
	if s.tool == Eraser {
		return color.NRGBA{}
	}
	if c, ok := s.recent.Last(); ok {
		return c.NRGBA()
	}
	return color.NRGBA{A: 0xff}
}

// PenColor returns the most recent colour.
func (s *Session) PenColor() colorpick.HSV {
	c, _ := s.recent.Last()
	return c
}

// PickColorAt presses the picker square at p.
func (s *Session) PickColorAt(p image.Point) bool {
	return s.picker.Press(p)
}

// DragPicker moves the picker selection without committing.
func (s *Session) DragPicker(p image.Point) bool {
	return s.picker.Drag(p)
}

// ReleasePicker commits the colour under the picker selection.
func (s *Session) ReleasePicker() {
	s.picker.Release()
}

// SetHue moves the hue slider and commits the resulting colour.
func (s *Session) SetHue(v int) {
	s.picker.SetHue(v)
	s.picker.ReleaseHue()
}

// SelectRecentColor re-selects a colour from the recent list.
func (s *Session) SelectRecentColor(c colorpick.HSV) {
	s.picker.SelectRecent(c)
}

// PickCanvasColor takes the colour of pixel p on the current frame. A
// transparent pixel selects the eraser.
func (s *Session) PickCanvasColor(p image.Point) error {
	frame := s.frames.CurrentFrame()
	if !p.In(frame.Rect) {
		return errors.OutOfRange("pixel", p.X+p.Y*frame.Rect.Dx(), frame.Rect.Dx()*frame.Rect.Dy()).
			WithDetail("x", p.X).
			WithDetail("y", p.Y)
	}
	px := frame.NRGBAAt(p.X, p.Y)
	if px.A == 0 {
		s.SetTool(Eraser)
		return nil
	}
	s.picker.SelectRecent(colorpick.FromNRGBA(px))
	return nil
}

func (s *Session) colorCommitted(c colorpick.HSV) {
	s.recent.Add(c)
	s.tool = Pen
	s.log.WithField("color", c.String()).Debug("color selected")
	s.bus.Emit(Event{Kind: RecentColorsChanged, Colors: s.recent.Swatches()})
	s.bus.Emit(Event{Kind: ColorChanged, Color: c})
}

// Animation

// ToggleAnimation starts or stops playback and reports whether it runs.
func (s *Session) ToggleAnimation() bool {
	running := s.player.Toggle()
	s.log.WithField("running", running).Debug("animation toggled")
	return running
}

// SetAnimationSpeed sets the playback rate in frames per second.
func (s *Session) SetAnimationSpeed(fps int) {
	s.player.SetSpeed(fps)
	s.log.WithFields(logrus.Fields{"fps": fps, "interval_ms": s.player.Interval().Milliseconds()}).Debug("animation speed")
}

// Project

// NewProject replaces the project with a single blank frame of the given
// size.
func (s *Session) NewProject(size int) error {
	if size < 1 || size > s.maxSize {
		err := errors.InvalidCanvasSize(size, s.maxSize)
		s.log.WithError(err).Warn("new project rejected")
		return err
	}
	if err := s.replace(spritefile.Blank(size, 1)); err != nil {
		return err
	}
	s.path = ""
	s.log.WithField("size", size).Info("new project")
	return nil
}

// LoadProject replaces the project with one decoded from data. On failure
// the current project is kept.
func (s *Session) LoadProject(data []byte) error {
	p, err := spritefile.ParseJSON(data)
	if err != nil {
		s.log.WithError(err).Warn("project load failed")
		return err
	}
	return s.replace(p)
}

// SaveProject serialises the project.
func (s *Session) SaveProject() ([]byte, error) {
	return spritefile.ToJSON(s.Project(), true)
}

// Project returns a copy of the project.
func (s *Session) Project() *spritefile.Project {
	p := &spritefile.Project{Size: s.frames.CanvasSize()}
	for _, f := range s.frames.Frames() {
		dst := image.NewNRGBA(f.Rect)
		copy(dst.Pix, f.Pix)
		p.Frames = append(p.Frames, dst)
	}
	return p
}

// Open loads the project at path.
func (s *Session) Open(path string) error {
	p, err := spritefile.ReadFile(path)
	if err != nil {
		s.log.WithError(err).WithField("path", path).Warn("open failed")
		return err
	}
	if err := s.replace(p); err != nil {
		return err
	}
	s.path = path
	s.touch(path)
	s.log.WithFields(logrus.Fields{"path": path, "frames": len(p.Frames)}).Info("project opened")
	return nil
}

// Save writes the project to the path it was last opened from or saved to.
func (s *Session) Save() error {
	if s.path == "" {
		s.bus.Emit(Event{Kind: SavePathRequired})
		return errors.NoSavePath()
	}
	return s.SaveAs(s.path)
}

// SaveAs writes the project to path, adding the .ssp extension if missing,
// and remembers the path.
func (s *Session) SaveAs(path string) error {
	path = spritefile.WithExtension(path)
	if err := spritefile.WriteFile(path, s.Project()); err != nil {
		s.log.WithError(err).WithField("path", path).Error("save failed")
		return err
	}
	s.path = path
	s.modified = false
	s.touch(path)
	s.log.WithField("path", path).Info("project saved")
	return nil
}

func (s *Session) touch(path string) {
	if s.history == nil {
		return
	}
	if err := s.history.Touch(path); err != nil {
		s.log.WithError(err).Warn("recent files not updated")
	}
}

func (s *Session) replace(p *spritefile.Project) error {
	if err := s.frames.ReplaceAll(p.Frames, p.Size); err != nil {
		return err
	}
	s.resetEditor()
	return nil
}

// resetEditor brings playback, colours, tool and history back to their
// initial state after the frame list was replaced.
func (s *Session) resetEditor() {
	s.journal.ClearAll()
	s.player.Reset()
	s.recent.Clear()
	s.picker.Reset()
	s.tool = Pen
	s.modified = false
	if s.defaultFPS > 0 {
		s.player.SetSpeed(s.defaultFPS)
	}

	s.bus.Emit(Event{Kind: CanvasSizeChanged, Size: s.frames.CanvasSize()})
	s.framesChanged()
	for i := 0; i < s.frames.Len(); i++ {
		s.bus.Emit(Event{Kind: FrameUpdated, Index: i})
	}
}

type idleScheduler struct{}

func (idleScheduler) Every(time.Duration, func()) func() { return func() {} }
