package sprite

import (
	"context"
	"image"
	"math"
	"time"
)

// FrameSource is the read side of the frame list used by playback.
type FrameSource interface {
	Len() int
	Frame(i int) (*image.NRGBA, error)
}

// Scheduler calls fn every d until cancelled.
type Scheduler interface {
	Every(d time.Duration, fn func()) (cancel func())
}

// TickerScheduler drives ticks from a time.Ticker goroutine. Each tick is
// handed to Post so that it runs on the owner's event loop; with a nil Post
// fn runs on the ticker goroutine.
type TickerScheduler struct {
	Post func(func())
}

// Every implements Scheduler.
func (s TickerScheduler) Every(d time.Duration, fn func()) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.Post != nil {
					s.Post(fn)
				} else {
					fn()
				}
			}
		}
	}()
	return cancel
}

// Renderer turns a frame into the image shown in the preview.
type Renderer func(*image.NRGBA) image.Image

// Player is the animation preview state machine. It is Stopped or Running;
// while running it emits one frame per tick and wraps around the frame list.
type Player struct {
	source   FrameSource
	sched    Scheduler
	bus      *Bus
	render   Renderer
	running  bool
	index    int
	fps      int
	interval time.Duration
	cancel   func()
	gen      int
}

// NewPlayer creates a stopped player with playback disabled.
func NewPlayer(source FrameSource, sched Scheduler, bus *Bus) *Player {
	return &Player{source: source, sched: sched, bus: bus}
}

// SetRenderer replaces the preview renderer. A nil renderer emits frames as
// they are.
func (p *Player) SetRenderer(r Renderer) { p.render = r }

func (p *Player) Running() bool           { return p.running }
func (p *Player) Index() int              { return p.index }
func (p *Player) FPS() int                { return p.fps }
func (p *Player) Interval() time.Duration { return p.interval }

// Toggle starts or stops playback and reports whether it is now running.
// Playback cannot start while the interval is zero.
func (p *Player) Toggle() bool {
	if p.running {
		p.stop()
		return false
	}
	if p.interval <= 0 {
		return false
	}
	p.running = true
	p.schedule()
	p.emit(Event{Kind: AnimationStarted})
	return true
}

// SetSpeed sets frames per second. Zero or less disables playback and stops
// it if running; otherwise a running player switches to the new rate at once.
func (p *Player) SetSpeed(fps int) {
	if fps <= 0 {
		p.fps = 0
		p.interval = 0
		if p.running {
			p.stop()
		}
		return
	}
	p.fps = fps
	p.interval = time.Duration(math.Round(1000/float64(fps))) * time.Millisecond
	if p.running {
		p.schedule()
	}
}

// Tick emits the frame at the preview index and advances it.
func (p *Player) Tick() {
	n := p.source.Len()
	if n == 0 {
		return
	}
	if p.index >= n {
		p.index = 0
	}
	p.emitFrame(p.index)
	p.index = (p.index + 1) % n
}

// Reset stops playback, disables it and shows frame 0.
func (p *Player) Reset() {
	if p.running {
		p.cancelSchedule()
		p.running = false
		p.emit(Event{Kind: AnimationStopped})
	}
	p.fps = 0
	p.interval = 0
	p.index = 0
	p.emitFrame(0)
}

// Refresh re-emits the frame at the preview index without advancing, so a
// stopped preview follows edits.
func (p *Player) Refresh() {
	if p.running {
		return
	}
	p.emitFrame(p.index)
}

func (p *Player) stop() {
	p.cancelSchedule()
	p.running = false
	p.index = 0
	p.emit(Event{Kind: AnimationStopped})
	p.emitFrame(0)
}

func (p *Player) schedule() {
	p.cancelSchedule()
	p.gen++
	gen := p.gen
	p.cancel = p.sched.Every(p.interval, func() {
		if gen != p.gen || !p.running {
			return
		}
		p.Tick()
	})
}

func (p *Player) cancelSchedule() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
}

func (p *Player) emitFrame(i int) {
	img, err := p.source.Frame(i)
	if err != nil {
		return
	}
	var out image.Image = img
	if p.render != nil {
		out = p.render(img)
	}
	p.emit(Event{Kind: AnimationFrameReady, Index: i, Image: out})
}

func (p *Player) emit(ev Event) {
	if p.bus != nil {
		p.bus.Emit(ev)
	}
}
