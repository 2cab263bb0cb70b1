package errors

import "fmt"

// OutOfRange creates an error for an index outside [0, limit).
func OutOfRange(what string, index, limit int) *Error {
	return New(ErrCodeOutOfRange, fmt.Sprintf("%s index %d out of range [0, %d)", what, index, limit)).
		WithDetail("index", index).
		WithDetail("limit", limit)
}

// NoActiveEdit creates the error returned when a component arrives outside an edit.
func NoActiveEdit() *Error {
	return New(ErrCodeNoActiveEdit, "no edit in progress")
}

// AnimationRunning creates the error returned when a frame deletion is attempted
// during playback.
func AnimationRunning() *Error {
	return New(ErrCodeAnimationRunning, "cannot delete a frame while the animation is running")
}

// MalformedProject creates a project data error.
func MalformedProject(reason string) *Error {
	return New(ErrCodeMalformedProject, fmt.Sprintf("malformed project data: %s", reason))
}

// InvalidCanvasSize creates an error for a canvas size outside [1, max].
func InvalidCanvasSize(size, max int) *Error {
	return New(ErrCodeInvalidCanvasSize, fmt.Sprintf("canvas size %d outside 1-%d", size, max)).
		WithDetail("size", size).
		WithDetail("max", max)
}

// NoSavePath creates the error returned by a plain save before any path is known.
func NoSavePath() *Error {
	return New(ErrCodeNoSavePath, "no save path set")
}

// IO wraps a filesystem failure.
func IO(op, path string, err error) *Error {
	return Wrap(err, ErrCodeIO, fmt.Sprintf("%s %s", op, path)).
		WithDetail("path", path)
}
