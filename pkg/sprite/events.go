package sprite

import (
	"fmt"
	"image"

	"github.com/ha1tch/sprite-toolkit/pkg/colorpick"
)

// Kind identifies an editor notification.
type Kind int

const (
	FrameUpdated Kind = iota
	CurrentFrameChanged
	AnimationFrameReady
	AnimationStarted
	AnimationStopped
	RecentColorsChanged
	ColorChanged
	DeletionBlocked
	FramesChanged
	CanvasSizeChanged
	SavePathRequired
)

var kindNames = [...]string{
	"FrameUpdated",
	"CurrentFrameChanged",
	"AnimationFrameReady",
	"AnimationStarted",
	"AnimationStopped",
	"RecentColorsChanged",
	"ColorChanged",
	"DeletionBlocked",
	"FramesChanged",
	"CanvasSizeChanged",
	"SavePathRequired",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Event is a notification from the core to the view. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind  Kind
	Index int
	Count int
	Size  int
	// Image is the rendered preview for AnimationFrameReady.
	Image image.Image
	// Color is the committed colour for ColorChanged.
	Color colorpick.HSV
	// Colors is the recent list, most recent first, for RecentColorsChanged.
	Colors []colorpick.HSV
}

// Listener receives events synchronously on the event loop.
type Listener func(Event)

// Bus fans events out to its listeners in subscription order.
type Bus struct {
	next      int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn Listener) (unsubscribe func()) {
	b.next++
	id := b.next
	b.listeners = append(b.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, s := range b.listeners {
			if s.id == id {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers ev to every listener.
func (b *Bus) Emit(ev Event) {
	for _, s := range b.listeners {
		s.fn(ev)
	}
}

// ChannelListener forwards events to ch without blocking. Events are dropped
// when ch is full.
func ChannelListener(ch chan<- Event) Listener {
	return func(ev Event) {
		select {
		case ch <- ev:
		default:
		}
	}
}
