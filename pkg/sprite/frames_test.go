package sprite

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/sprite-toolkit/pkg/errors"
)

type recordingObserver struct {
	calls []string
	// current is FrameStore.Current at the time of the last insert callback.
	current int
	fs      *FrameStore
}

func (o *recordingObserver) OnFrameInserted(at int) {
	o.calls = append(o.calls, "insert")
	o.current = o.fs.Current()
}
func (o *recordingObserver) OnFrameRemoved(at int) { o.calls = append(o.calls, "remove") }
func (o *recordingObserver) OnFramesReplaced()     { o.calls = append(o.calls, "replace") }

type fixedGuard bool

func (g fixedGuard) Running() bool { return bool(g) }

func TestNewFrameStore(t *testing.T) {
	fs := NewFrameStore(8)
	assert.Equal(t, 1, fs.Len())
	assert.Equal(t, 0, fs.Current())
	assert.Equal(t, 8, fs.CanvasSize())
	assert.Equal(t, image.Rect(0, 0, 8, 8), fs.CurrentFrame().Rect)
	assert.Equal(t, 0, countOpaque(fs.CurrentFrame()))
}

func TestCreateFrameNotifiesBeforeSelecting(t *testing.T) {
	fs := NewFrameStore(4)
	obs := &recordingObserver{fs: fs}
	fs.SetObserver(obs)

	i := fs.CreateFrame()
	assert.Equal(t, 1, i)
	assert.Equal(t, 1, fs.Current())
	assert.Equal(t, []string{"insert"}, obs.calls)
	assert.Equal(t, 0, obs.current, "observer runs before the new frame is current")
}

func TestDuplicateIsDeepCopy(t *testing.T) {
	fs := NewFrameStore(4)
	fs.CurrentFrame().SetNRGBA(1, 2, red)

	i := fs.DuplicateCurrent()
	dup, err := fs.Frame(i)
	require.NoError(t, err)
	orig, err := fs.Frame(0)
	require.NoError(t, err)

	assert.Equal(t, red, dup.NRGBAAt(1, 2))
	dup.SetNRGBA(0, 0, black)
	assert.Equal(t, transparent, orig.NRGBAAt(0, 0))
}

func TestDeleteCurrent(t *testing.T) {
	tests := []struct {
		name        string
		frames      int
		selected    int
		running     bool
		wantRemoved bool
		wantLen     int
		wantCurrent int
		wantCode    errors.ErrorCode
	}{
		{"single frame is kept", 1, 0, false, false, 1, 0, ""},
		{"middle frame", 3, 1, false, true, 2, 0, ""},
		{"last frame", 3, 2, false, true, 2, 1, ""},
		{"first frame", 3, 0, false, true, 2, 0, ""},
		{"blocked while running", 3, 2, true, false, 3, 2, errors.ErrCodeAnimationRunning},
		{"blocked while running, single frame", 1, 0, true, false, 1, 0, errors.ErrCodeAnimationRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFrameStore(2)
			for i := 1; i < tt.frames; i++ {
				fs.CreateFrame()
			}
			require.NoError(t, fs.Select(tt.selected))
			fs.SetGuard(fixedGuard(tt.running))

			removed, err := fs.DeleteCurrent()
			assert.Equal(t, tt.wantRemoved, removed)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.Equal(t, tt.wantLen, fs.Len())
			assert.Equal(t, tt.wantCurrent, fs.Current())
		})
	}
}

func TestDeleteRemovesTheSelectedImage(t *testing.T) {
	fs := NewFrameStore(2)
	fs.CreateFrame()
	fs.CreateFrame()
	first, _ := fs.Frame(0)
	last, _ := fs.Frame(2)

	require.NoError(t, fs.Select(1))
	_, err := fs.DeleteCurrent()
	require.NoError(t, err)

	frames := fs.Frames()
	require.Len(t, frames, 2)
	assert.Same(t, first, frames[0])
	assert.Same(t, last, frames[1])
}

func TestSelectOutOfRange(t *testing.T) {
	fs := NewFrameStore(2)
	fs.CreateFrame()

	for _, i := range []int{-1, 2, 100} {
		err := fs.Select(i)
		assert.True(t, errors.Is(err, errors.ErrCodeOutOfRange), "Select(%d)", i)
		assert.Equal(t, 1, fs.Current())
	}
	_, err := fs.Frame(5)
	assert.True(t, errors.Is(err, errors.ErrCodeOutOfRange))
}

func TestReplaceAll(t *testing.T) {
	fs := NewFrameStore(2)
	obs := &recordingObserver{fs: fs}
	fs.SetObserver(obs)
	fs.CreateFrame()

	frames := []*image.NRGBA{blankFrame(5), blankFrame(5), blankFrame(5)}
	require.NoError(t, fs.ReplaceAll(frames, 5))
	assert.Equal(t, 3, fs.Len())
	assert.Equal(t, 0, fs.Current())
	assert.Equal(t, 5, fs.CanvasSize())
	assert.Equal(t, []string{"insert", "replace"}, obs.calls)

	err := fs.ReplaceAll([]*image.NRGBA{blankFrame(5), blankFrame(4)}, 5)
	assert.True(t, errors.Is(err, errors.ErrCodeMalformedProject))
	assert.Equal(t, 3, fs.Len(), "failed replace keeps the old frames")

	err = fs.ReplaceAll(nil, 5)
	assert.True(t, errors.Is(err, errors.ErrCodeMalformedProject))
}

func TestClear(t *testing.T) {
	fs := NewFrameStore(3)
	fs.CurrentFrame().SetNRGBA(2, 2, red)
	require.NoError(t, fs.Clear(0))
	assert.Equal(t, 0, countOpaque(fs.CurrentFrame()))
	assert.Error(t, fs.Clear(1))
}

func countOpaque(img *image.NRGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}
