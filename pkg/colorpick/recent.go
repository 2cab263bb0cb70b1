package colorpick

// DefaultRecentCapacity is the number of swatches shown by the editor.
const DefaultRecentCapacity = 5

// Recent is a bounded most-recently-used colour list, oldest first.
type Recent struct {
	colors   []HSV
	capacity int
}

// NewRecent creates an empty list holding at most capacity colours.
func NewRecent(capacity int) *Recent {
	if capacity <= 0 {
		capacity = DefaultRecentCapacity
	}
	return &Recent{colors: make([]HSV, 0, capacity), capacity: capacity}
}

// Add records c as the most recent colour. A similar colour already in the
// list is removed first; when the list is full the oldest entry is dropped.
func (r *Recent) Add(c HSV) {
	for i, existing := range r.colors {
		if existing.Similar(c) {
			r.colors = append(r.colors[:i], r.colors[i+1:]...)
			break
		}
	}
	if len(r.colors) == r.capacity {
		r.colors = r.colors[1:]
	}
	r.colors = append(r.colors, c)
}

// Last returns the most recent colour.
func (r *Recent) Last() (HSV, bool) {
	if len(r.colors) == 0 {
		return HSV{}, false
	}
	return r.colors[len(r.colors)-1], true
}

// Colors returns a copy of the list, oldest first.
func (r *Recent) Colors() []HSV {
	out := make([]HSV, len(r.colors))
	copy(out, r.colors)
	return out
}

// Swatches returns the colours in display order, most recent first.
func (r *Recent) Swatches() []HSV {
	out := make([]HSV, len(r.colors))
	for i, c := range r.colors {
		out[len(r.colors)-1-i] = c
	}
	return out
}

// Len returns the number of colours held.
func (r *Recent) Len() int { return len(r.colors) }

// Capacity returns the maximum number of colours held.
func (r *Recent) Capacity() int { return r.capacity }

// Clear empties the list.
func (r *Recent) Clear() {
	r.colors = r.colors[:0]
}
