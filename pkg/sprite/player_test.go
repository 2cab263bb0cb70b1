package sprite

import (
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler keeps the last scheduled callback so tests can fire ticks.
type manualScheduler struct {
	fn        func()
	interval  time.Duration
	scheduled int
	cancelled int
}

func (m *manualScheduler) Every(d time.Duration, fn func()) func() {
	m.fn = fn
	m.interval = d
	m.scheduled++
	return func() { m.cancelled++ }
}

func (m *manualScheduler) fire() {
	if m.fn != nil {
		m.fn()
	}
}

type eventLog struct {
	events []Event
}

func (l *eventLog) listen(ev Event) { l.events = append(l.events, ev) }

func (l *eventLog) kinds() []Kind {
	out := make([]Kind, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Kind
	}
	return out
}

func (l *eventLog) frames() []int {
	var out []int
	for _, ev := range l.events {
		if ev.Kind == AnimationFrameReady {
			out = append(out, ev.Index)
		}
	}
	return out
}

func (l *eventLog) reset() { l.events = nil }

func newPlayerFixture(frames int) (*Player, *manualScheduler, *eventLog, *FrameStore) {
	fs := NewFrameStore(2)
	for i := 1; i < frames; i++ {
		fs.CreateFrame()
	}
	bus := &Bus{}
	log := &eventLog{}
	bus.Subscribe(log.listen)
	sched := &manualScheduler{}
	return NewPlayer(fs, sched, bus), sched, log, fs
}

func TestToggleNeedsPositiveSpeed(t *testing.T) {
	p, sched, log, _ := newPlayerFixture(2)

	assert.False(t, p.Toggle())
	assert.False(t, p.Running())
	assert.Equal(t, 0, sched.scheduled)
	assert.Empty(t, log.events)
}

func TestSetSpeedInterval(t *testing.T) {
	tests := []struct {
		fps  int
		want time.Duration
	}{
		{1, time.Second},
		{3, 333 * time.Millisecond},
		{6, 167 * time.Millisecond},
		{10, 100 * time.Millisecond},
		{0, 0},
		{-4, 0},
	}

	for _, tt := range tests {
		p, _, _, _ := newPlayerFixture(1)
		p.SetSpeed(tt.fps)
		if got := p.Interval(); got != tt.want {
			t.Errorf("SetSpeed(%d): interval = %v, want %v", tt.fps, got, tt.want)
		}
	}
}

func TestPlaybackCycle(t *testing.T) {
	p, sched, log, _ := newPlayerFixture(3)
	p.SetSpeed(10)

	require.True(t, p.Toggle())
	assert.Equal(t, 100*time.Millisecond, sched.interval)
	assert.Equal(t, []Kind{AnimationStarted}, log.kinds())

	for i := 0; i < 5; i++ {
		sched.fire()
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1}, log.frames())
	assert.Equal(t, 2, p.Index())

	log.reset()
	assert.False(t, p.Toggle())
	assert.Equal(t, []Kind{AnimationStopped, AnimationFrameReady}, log.kinds())
	assert.Equal(t, []int{0}, log.frames())
	assert.Equal(t, 0, p.Index())
	assert.Equal(t, 1, sched.cancelled)
}

func TestStaleTickIgnored(t *testing.T) {
	p, sched, log, _ := newPlayerFixture(2)
	p.SetSpeed(5)
	p.Toggle()
	stale := sched.fn
	p.Toggle()
	log.reset()

	stale()
	assert.Empty(t, log.events)

	// restarting schedules a fresh callback; the old one stays dead
	p.Toggle()
	log.reset()
	stale()
	assert.Empty(t, log.frames())
	sched.fire()
	assert.Equal(t, []int{0}, log.frames())
}

func TestSetSpeedWhileRunningReschedules(t *testing.T) {
	p, sched, log, _ := newPlayerFixture(2)
	p.SetSpeed(2)
	p.Toggle()
	old := sched.fn

	p.SetSpeed(20)
	assert.True(t, p.Running())
	assert.Equal(t, 2, sched.scheduled)
	assert.Equal(t, 1, sched.cancelled)
	assert.Equal(t, 50*time.Millisecond, sched.interval)

	log.reset()
	old()
	assert.Empty(t, log.frames())
	sched.fire()
	assert.Equal(t, []int{0}, log.frames())
}

func TestSetSpeedZeroStops(t *testing.T) {
	p, sched, log, _ := newPlayerFixture(2)
	p.SetSpeed(12)
	p.Toggle()
	sched.fire()
	log.reset()

	p.SetSpeed(0)
	assert.False(t, p.Running())
	assert.Equal(t, time.Duration(0), p.Interval())
	assert.Equal(t, []Kind{AnimationStopped, AnimationFrameReady}, log.kinds())

	assert.False(t, p.Toggle(), "cannot start until a positive speed is set")
	p.SetSpeed(1)
	assert.True(t, p.Toggle())
}

func TestResetPlayer(t *testing.T) {
	p, sched, log, _ := newPlayerFixture(3)
	p.SetSpeed(8)
	p.Toggle()
	sched.fire()
	sched.fire()
	log.reset()

	p.Reset()
	assert.False(t, p.Running())
	assert.Equal(t, 0, p.Index())
	assert.Equal(t, 0, p.FPS())
	assert.Equal(t, time.Duration(0), p.Interval())
	assert.Equal(t, []Kind{AnimationStopped, AnimationFrameReady}, log.kinds())
	assert.Equal(t, []int{0}, log.frames())
}

func TestTickReadsLiveFrames(t *testing.T) {
	p, sched, log, fs := newPlayerFixture(1)
	p.SetSpeed(10)
	p.Toggle()

	fs.CurrentFrame().SetNRGBA(0, 0, red)
	sched.fire()

	require.Len(t, log.frames(), 1)
	img := log.events[len(log.events)-1].Image.(*image.NRGBA)
	assert.Equal(t, red, img.NRGBAAt(0, 0))
}

func TestPlayerGuardsDeletion(t *testing.T) {
	p, _, _, fs := newPlayerFixture(2)
	fs.SetGuard(p)
	p.SetSpeed(4)
	p.Toggle()

	_, err := fs.DeleteCurrent()
	assert.Error(t, err)
	assert.Equal(t, 2, fs.Len())
}

func TestTickerSchedulerPostsTicks(t *testing.T) {
	var mu sync.Mutex
	posted := 0
	ran := make(chan struct{}, 10)
	sched := TickerScheduler{Post: func(fn func()) {
		mu.Lock()
		posted++
		mu.Unlock()
		fn()
	}}

	cancel := sched.Every(time.Millisecond, func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	defer cancel()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within 2s")
	}
	mu.Lock()
	assert.GreaterOrEqual(t, posted, 1)
	mu.Unlock()
}
