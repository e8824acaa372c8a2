// Package session owns the one active playback session: the reconstructed
// notes of the loaded recording, the particle population and the zoom level.
package session

import (
	"errors"
	"io"
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"

	"pianoviz/canvas"
	"pianoviz/layout"
	"pianoviz/notes"
	"pianoviz/particles"
	"pianoviz/renderer"
)

// ErrClosed is returned by Tick once the session has been closed. The tick
// is skipped.
var ErrClosed = errors.New("session closed")

var discard = func() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}()

// Options configure a session.
type Options struct {
	Particles particles.Params
	Style     renderer.Style
	// Visible is the preferred visible span in seconds. A shorter recording
	// is shown whole.
	Visible      float64
	EmitAttempts int
}

// DefaultOptions returns the stock visual setup.
func DefaultOptions() Options {
	return Options{
		Particles:    particles.DefaultParams(),
		Style:        renderer.DefaultStyle(),
		Visible:      10,
		EmitAttempts: particles.EmitAttempts,
	}
}

// Session is safe for concurrent use. Ticks are serialized; a Load between
// two ticks swaps the whole state at once.
type Session struct {
	mu      sync.Mutex
	log     logrus.FieldLogger
	opts    Options
	state   *State
	name    string
	visible float64
	recon   notes.Reconstruction
	frames  uint64
	closed  bool
}

// New creates a session and loads rec into it.
func New(rec notes.Recording, opts Options, log logrus.FieldLogger) *Session {
	if log == nil {
		log = discard
	}
	if opts.EmitAttempts <= 0 {
		opts.EmitAttempts = particles.EmitAttempts
	}
	s := &Session{log: log, opts: opts}
	s.Load(rec)
	return s
}

func (s *Session) newState(r notes.Reconstruction) *State {
	return &State{
		Notes:     r.Notes,
		Duration:  r.Duration,
		Particles: particles.New(s.opts.Particles),
		Rand:      rand.New(rand.NewSource(s.opts.Particles.Seed)),
		Style:     s.opts.Style,
		Attempts:  s.opts.EmitAttempts,
	}
}

// Load replaces the current recording. The notes are fully reconstructed
// before the swap, so no tick ever sees a partial note list. Live particles
// are dropped along with the old notes.
func (s *Session) Load(rec notes.Recording) notes.Reconstruction {
	log := s.log.WithField("recording", rec.Name)
	r := notes.Reconstruct(rec.Events, log)
	if rec.Duration > r.Duration {
		r.Duration = rec.Duration
	}
	st := s.newState(r)

	s.mu.Lock()
	s.state = st
	s.name = rec.Name
	s.recon = r
	s.visible = layout.DefaultVisibleDuration(s.opts.Visible, r.Duration)
	s.frames = 0
	s.mu.Unlock()

	log.WithFields(logrus.Fields{
		"notes":     len(r.Notes),
		"duration":  r.Duration,
		"anomalies": len(r.Anomalies),
	}).Info("recording loaded")
	return r
}

// Tick renders one frame. It returns ErrClosed after Close and
// renderer.ErrSurfaceUnavailable, with the state untouched, when surf
// cannot be drawn on.
func (s *Session) Tick(in Input, surf canvas.Surface) (FrameInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return FrameInfo{}, ErrClosed
	}
	info, err := Render(s.state, in, surf, s.log)
	if err == nil {
		s.frames++
	}
	return info, err
}

// View builds the view state for a frame at playback time t on a surface of
// the given size, using the current zoom.
func (s *Session) View(t float64, width, height int) layout.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return layout.ViewState{
		PlaybackTime:    t,
		VisibleDuration: s.visible,
		Width:           width,
		Height:          height,
	}
}

// ZoomIn narrows the visible span and returns the new value.
func (s *Session) ZoomIn() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = layout.ZoomIn(s.visible)
	return s.visible
}

// ZoomOut widens the visible span and returns the new value.
func (s *Session) ZoomOut() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = layout.ZoomOut(s.visible, s.state.Duration)
	return s.visible
}

// Visible is the current visible span in seconds.
func (s *Session) Visible() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Duration of the loaded recording.
func (s *Session) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Duration
}

// Notes returns the reconstructed notes of the loaded recording. The slice
// is shared and must not be modified.
func (s *Session) Notes() []notes.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Notes
}

// Info describes the loaded recording.
type Info struct {
	Name      string  `json:"name"`
	Notes     int     `json:"notes"`
	Duration  float64 `json:"duration"`
	Anomalies int     `json:"anomalies"`
	Visible   float64 `json:"visible"`
	Particles int     `json:"particles"`
	Frames    uint64  `json:"frames"`
	Closed    bool    `json:"closed"`
}

// Info returns a snapshot of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		Name:      s.name,
		Notes:     len(s.state.Notes),
		Duration:  s.state.Duration,
		Anomalies: len(s.recon.Anomalies),
		Visible:   s.visible,
		Particles: s.state.Particles.Len(),
		Frames:    s.frames,
		Closed:    s.closed,
	}
}

// Close tears the session down and drops every live particle. Later ticks
// are skipped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.state.Particles.Reset()
	s.log.WithField("frames", s.frames).Debug("session closed")
}
