// Package player provides the playback clocks that drive a session: a
// real-time player with transport controls and a deterministic frame clock
// for offline rendering.
package player

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTail is how long playback keeps running past the last event so the
// final notes and particles can settle.
const DefaultTail = 3.0

// Tick is handed to every tick callback.
type Tick struct {
	Time     float64 // animation time since the clock started, seconds
	Delta    float64 // seconds since the previous tick
	Playback float64 // playback position in the recording, seconds
	Playing  bool
}

// Clock is a source of frame ticks.
type Clock interface {
	PlaybackTime() float64
	Playing() bool
	// RequestTick registers fn to run on every tick until cancel is called.
	RequestTick(fn func(Tick)) (cancel func())
}

// State is the transport state of a Player.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

type callbacks struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(Tick)
}

func (c *callbacks) add(fn func(Tick)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fns == nil {
		c.fns = make(map[int]func(Tick))
	}
	id := c.next
	c.next++
	c.fns[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.fns, id)
		c.mu.Unlock()
	}
}

// fire runs the callbacks in registration order.
func (c *callbacks) fire(t Tick) {
	c.mu.Lock()
	fns := make([]func(Tick), 0, len(c.fns))
	for id := 0; id < c.next; id++ {
		if fn, ok := c.fns[id]; ok {
			fns = append(fns, fn)
		}
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(t)
	}
}

// Options configure a Player.
type Options struct {
	FPS  int
	Tail float64
}

// Player is a real-time clock with play, pause, reset and seek. It stops by
// itself once playback passes the end of the recording plus the tail.
type Player struct {
	mu       sync.Mutex
	log      logrus.FieldLogger
	duration float64
	tail     float64
	interval time.Duration
	now      func() time.Time

	state  State
	offset float64   // playback position at anchor
	anchor time.Time // wall time the current play span started
	start  time.Time
	last   time.Time

	cbs callbacks
}

// New creates a stopped player for a recording of the given duration.
func New(duration float64, opts Options, log logrus.FieldLogger) *Player {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Tail < 0 {
		opts.Tail = 0
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Player{
		log:      log,
		duration: duration,
		tail:     opts.Tail,
		interval: time.Second / time.Duration(opts.FPS),
		now:      time.Now,
	}
}

func (p *Player) end() float64 { return p.duration + p.tail }

// position must be called with mu held. It stops playback once the end is
// reached.
func (p *Player) position(now time.Time) float64 {
	switch p.state {
	case Playing:
		t := p.offset + now.Sub(p.anchor).Seconds()
		if t >= p.end() {
			p.log.WithField("time", t).Debug("playback finished")
			p.state = Stopped
			p.offset = 0
			return 0
		}
		return t
	case Paused:
		return p.offset
	default:
		return 0
	}
}

// PlaybackTime is the current position in the recording.
func (p *Player) PlaybackTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position(p.now())
}

// Playing reports whether playback is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position(p.now())
	return p.state == Playing
}

// State returns the transport state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position(p.now())
	return p.state
}

// Progress is the fraction of the recording played so far, 0 when stopped.
func (p *Player) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.position(p.now())
	if p.state == Stopped || p.duration <= 0 {
		return 0
	}
	return min(1, t/p.duration)
}

// Play starts playback from the beginning when stopped and toggles pause
// otherwise. It returns the new state.
func (p *Player) Play() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	t := p.position(now)
	switch p.state {
	case Stopped:
		p.state = Playing
		p.offset = 0
		p.anchor = now
	case Playing:
		p.state = Paused
		p.offset = t
	case Paused:
		p.state = Playing
		p.anchor = now
	}
	p.log.WithFields(logrus.Fields{"state": p.state, "time": p.offset}).Debug("transport")
	return p.state
}

// SetDuration switches the player to a recording of a different length and
// stops it.
func (p *Player) SetDuration(d float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duration = d
	p.state = Stopped
	p.offset = 0
}

// Duration of the recording being played.
func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// Reset stops playback and rewinds to the beginning.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Stopped
	p.offset = 0
}

// Seek moves the playback position, clamped to the playable range. A stopped
// player is paused at the new position.
func (p *Player) Seek(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > p.end() {
		t = p.end()
	}
	p.offset = t
	p.anchor = p.now()
	if p.state == Stopped {
		p.state = Paused
	}
}

// RequestTick registers fn to be called on every tick of Run.
func (p *Player) RequestTick(fn func(Tick)) func() {
	return p.cbs.add(fn)
}

func (p *Player) tick(now time.Time) {
	p.mu.Lock()
	if p.start.IsZero() {
		p.start = now
		p.last = now
	}
	t := Tick{
		Time:     now.Sub(p.start).Seconds(),
		Delta:    now.Sub(p.last).Seconds(),
		Playback: p.position(now),
		Playing:  p.state == Playing,
	}
	p.last = now
	p.mu.Unlock()
	p.cbs.fire(t)
}

// Run drives the tick callbacks until ctx is done. Callbacks run one after
// another on the calling goroutine.
func (p *Player) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(p.now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.tick(p.now())
		}
	}
}
