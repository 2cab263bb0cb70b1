package sprite

import (
	"image"
	"image/color"

	"github.com/ha1tch/sprite-toolkit/pkg/errors"
)

// Canvas gives the journal write access to frames by index.
type Canvas interface {
	Frame(i int) (*image.NRGBA, error)
}

// Journal is the pixel-diff undo/redo history. Each recorded edit remembers
// the frame it was made on; frame indices are kept valid as frames are
// inserted and removed.
type Journal struct {
	canvas  Canvas
	undo    []Edit
	redo    []Edit
	current *Edit
}

// NewJournal creates an empty journal writing into canvas.
func NewJournal(canvas Canvas) *Journal {
	return &Journal{canvas: canvas}
}

// BeginEdit starts recording a new edit on frameIndex. The redo history is
// discarded, as is any edit still in progress.
func (j *Journal) BeginEdit(frameIndex int) {
	j.redo = nil
	j.current = &Edit{FrameIndex: frameIndex}
}

// AddComponent records one pixel change in the edit in progress.
func (j *Journal) AddComponent(pos image.Point, oldColor, newColor color.NRGBA) error {
	if j.current == nil {
		return errors.NoActiveEdit()
	}
	j.current.add(EditComponent{Pos: pos, Old: oldColor, New: newColor})
	return nil
}

// EndEdit finishes the edit in progress. Empty edits are discarded. It
// reports whether an edit was committed.
func (j *Journal) EndEdit() bool {
	e := j.current
	j.current = nil
	if e == nil || e.empty() {
		return false
	}
	j.undo = append(j.undo, *e)
	return true
}

// Recording reports whether an edit is in progress.
func (j *Journal) Recording() bool { return j.current != nil }

// CurrentFrame returns the frame targeted by the edit in progress.
func (j *Journal) CurrentFrame() (int, bool) {
	if j.current == nil {
		return 0, false
	}
	return j.current.FrameIndex, true
}

// Undo reverts the most recent edit and returns the frame it touched.
func (j *Journal) Undo() (int, bool) {
	return j.step(&j.undo, &j.redo, true)
}

// Redo reapplies the most recently undone edit and returns the frame it
// touched.
func (j *Journal) Redo() (int, bool) {
	return j.step(&j.redo, &j.undo, false)
}

func (j *Journal) step(from, to *[]Edit, undo bool) (int, bool) {
	if len(*from) == 0 {
		return 0, false
	}
	e := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	img, err := j.canvas.Frame(e.FrameIndex)
	if err != nil {
		// stale entry, drop it
		return 0, false
	}
	e.apply(img, undo)
	*to = append(*to, e)
	return e.FrameIndex, true
}

// OnFrameInserted shifts every edit at or after at by one.
func (j *Journal) OnFrameInserted(at int) {
	shift := func(e *Edit) {
		if e.FrameIndex >= at {
			e.FrameIndex++
		}
	}
	for i := range j.undo {
		shift(&j.undo[i])
	}
	for i := range j.redo {
		shift(&j.redo[i])
	}
	if j.current != nil {
		shift(j.current)
	}
}

// OnFrameRemoved drops the edits made on frame at and shifts later ones down.
func (j *Journal) OnFrameRemoved(at int) {
	j.undo = removeFrame(j.undo, at)
	j.redo = removeFrame(j.redo, at)
	if j.current != nil {
		switch {
		case j.current.FrameIndex == at:
			j.current = nil
		case j.current.FrameIndex > at:
			j.current.FrameIndex--
		}
	}
}

// OnFramesReplaced forgets all history.
func (j *Journal) OnFramesReplaced() {
	j.ClearAll()
}

// ClearForFrame drops the stacked edits made on frame i. Other frames'
// indices are unchanged.
func (j *Journal) ClearForFrame(i int) {
	j.undo = filterEdits(j.undo, func(e Edit) bool { return e.FrameIndex != i })
	j.redo = filterEdits(j.redo, func(e Edit) bool { return e.FrameIndex != i })
}

// ClearAll empties both stacks and abandons any edit in progress.
func (j *Journal) ClearAll() {
	j.undo = nil
	j.redo = nil
	j.current = nil
}

func (j *Journal) UndoDepth() int { return len(j.undo) }
func (j *Journal) RedoDepth() int { return len(j.redo) }

// UndoEdits returns a copy of the undo stack, oldest first.
func (j *Journal) UndoEdits() []Edit { return cloneEdits(j.undo) }

// RedoEdits returns a copy of the redo stack, oldest first.
func (j *Journal) RedoEdits() []Edit { return cloneEdits(j.redo) }

func removeFrame(edits []Edit, at int) []Edit {
	out := edits[:0]
	for _, e := range edits {
		if e.FrameIndex == at {
			continue
		}
		if e.FrameIndex > at {
			e.FrameIndex--
		}
		out = append(out, e)
	}
	return out
}

func filterEdits(edits []Edit, keep func(Edit) bool) []Edit {
	out := edits[:0]
	for _, e := range edits {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func cloneEdits(edits []Edit) []Edit {
	out := make([]Edit, len(edits))
	for i := range edits {
		out[i] = edits[i].clone()
	}
	return out
}
