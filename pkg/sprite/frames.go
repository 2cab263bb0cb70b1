package sprite

import (
	"image"
	"image/draw"

	"github.com/ha1tch/sprite-toolkit/pkg/errors"
)

// IndexObserver is told about every change to the shape of the frame list,
// synchronously and before the change becomes visible through Current.
type IndexObserver interface {
	OnFrameInserted(at int)
	OnFrameRemoved(at int)
	OnFramesReplaced()
}

// PlaybackGuard reports whether animation playback is active. Frames cannot
// be deleted while it is.
type PlaybackGuard interface {
	Running() bool
}

// FrameStore owns the ordered frames of a project and the current selection.
// It always holds at least one frame.
type FrameStore struct {
	size     int
	frames   []*image.NRGBA
	current  int
	observer IndexObserver
	guard    PlaybackGuard
}

// NewFrameStore creates a store with a single transparent frame.
func NewFrameStore(size int) *FrameStore {
	return &FrameStore{
		size:   size,
		frames: []*image.NRGBA{blankFrame(size)},
	}
}

// SetObserver installs the index observer.
func (fs *FrameStore) SetObserver(o IndexObserver) { fs.observer = o }

// SetGuard installs the playback guard.
func (fs *FrameStore) SetGuard(g PlaybackGuard) { fs.guard = g }

func (fs *FrameStore) Len() int        { return len(fs.frames) }
func (fs *FrameStore) CanvasSize() int { return fs.size }
func (fs *FrameStore) Current() int    { return fs.current }

// Frame returns frame i. The image is shared, not copied.
func (fs *FrameStore) Frame(i int) (*image.NRGBA, error) {
	if i < 0 || i >= len(fs.frames) {
		return nil, errors.OutOfRange("frame", i, len(fs.frames))
	}
	return fs.frames[i], nil
}

// CurrentFrame returns the selected frame.
func (fs *FrameStore) CurrentFrame() *image.NRGBA {
	return fs.frames[fs.current]
}

// Frames returns the frame list. The images are shared.
func (fs *FrameStore) Frames() []*image.NRGBA {
	out := make([]*image.NRGBA, len(fs.frames))
	copy(out, fs.frames)
	return out
}

// CreateFrame appends a transparent frame and selects it.
func (fs *FrameStore) CreateFrame() int {
	return fs.insert(blankFrame(fs.size))
}

// DuplicateCurrent appends a copy of the current frame and selects it.
func (fs *FrameStore) DuplicateCurrent() int {
	src := fs.frames[fs.current]
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return fs.insert(dst)
}

func (fs *FrameStore) insert(img *image.NRGBA) int {
	at := len(fs.frames)
	if fs.observer != nil {
		fs.observer.OnFrameInserted(at)
	}
	fs.frames = append(fs.frames, img)
	fs.current = at
	return at
}

// DeleteCurrent removes the selected frame and selects the one before it.
// The only frame is never removed. It fails while playback is running.
func (fs *FrameStore) DeleteCurrent() (bool, error) {
	if fs.guard != nil && fs.guard.Running() {
		return false, errors.AnimationRunning()
	}
	if len(fs.frames) <= 1 {
		return false, nil
	}
	at := fs.current
	fs.frames = append(fs.frames[:at], fs.frames[at+1:]...)
	if fs.observer != nil {
		fs.observer.OnFrameRemoved(at)
	}
	if at > 0 {
		fs.current = at - 1
	} else {
		fs.current = 0
	}
	return true, nil
}

// Select makes frame i current.
func (fs *FrameStore) Select(i int) error {
	if i < 0 || i >= len(fs.frames) {
		return errors.OutOfRange("frame", i, len(fs.frames))
	}
	fs.current = i
	return nil
}

// ReplaceAll swaps in a whole new frame list, as on project new or open.
func (fs *FrameStore) ReplaceAll(frames []*image.NRGBA, size int) error {
	if len(frames) == 0 {
		return errors.MalformedProject("no frames")
	}
	for i, f := range frames {
		if f == nil || f.Rect.Dx() != size || f.Rect.Dy() != size {
			return errors.MalformedProject("frame size mismatch").WithDetail("frame", i)
		}
	}
	fs.size = size
	fs.frames = frames
	fs.current = 0
	if fs.observer != nil {
		fs.observer.OnFramesReplaced()
	}
	return nil
}

// Clear fills frame i with transparent pixels.
func (fs *FrameStore) Clear(i int) error {
	img, err := fs.Frame(i)
	if err != nil {
		return err
	}
	draw.Draw(img, img.Rect, image.Transparent, image.Point{}, draw.Src)
	return nil
}

func blankFrame(size int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, size, size))
}
