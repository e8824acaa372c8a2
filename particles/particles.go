// Package particles is a bounded particle system pushed around by gravity
// and a smooth noise field.
package particles

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"pianoviz/canvas"
)

// Vec is a 2D vector in pixels or pixels per second.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f} }
func (v Vec) finite() bool { return finite(v.X) && finite(v.Y) }
func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Params are the global simulation parameters.
type Params struct {
	Gravity       Vec     `json:"gravity"`
	NoiseStrength float64 `json:"noiseStrength"`
	NoiseScale    float64 `json:"noiseScale"` // noise cycles per pixel
	NoiseSpeed    float64 `json:"noiseSpeed"` // noise cycles per second
	StartSize     float64 `json:"startSize"`
	Lifetime      float64 `json:"lifetime"`
	MaxParticles  int     `json:"maxParticles"`
	// MaxStep bounds a single integration step so a stalled clock does not
	// fling particles across the frame.
	MaxStep float64 `json:"maxStep"`
	Seed    int64   `json:"seed"`
}

// DefaultParams returns the parameters the visualizer ships with.
func DefaultParams() Params {
	return Params{
		Gravity:       Vec{0, 5},
		NoiseStrength: 30,
		NoiseScale:    0.005,
		NoiseSpeed:    0.1,
		StartSize:     2,
		Lifetime:      4,
		MaxParticles:  5000,
		MaxStep:       0.25,
	}
}

// A Particle is a single live particle.
type Particle struct {
	Pos      Vec
	Vel      Vec
	Color    canvas.Color
	Age      float64
	Lifetime float64

	seed float64 // offsets the particle into its own slice of the noise field
}

// Remaining is the fraction of the lifetime still ahead of the particle.
func (p *Particle) Remaining() float64 {
	if p.Lifetime <= 0 {
		return 0
	}
	return math.Max(0, 1-p.Age/p.Lifetime)
}

// System owns every live particle. It is not safe for concurrent use; the
// frame loop drives it from a single goroutine.
type System struct {
	params Params
	noise  opensimplex.Noise
	live   []Particle
	serial uint64
}

// New creates an empty system.
func New(p Params) *System {
	if p.MaxParticles < 0 {
		p.MaxParticles = 0
	}
	if p.MaxStep <= 0 {
		p.MaxStep = DefaultParams().MaxStep
	}
	return &System{
		params: p,
		noise:  opensimplex.New(p.Seed),
		live:   make([]Particle, 0, min(p.MaxParticles, 1024)),
	}
}

// Params returns the parameters the system was created with.
func (s *System) Params() Params { return s.params }

// Len is the number of live particles.
func (s *System) Len() int { return len(s.live) }

// Particles returns a copy of the live particles.
func (s *System) Particles() []Particle {
	return append([]Particle(nil), s.live...)
}

// Reset drops every live particle.
func (s *System) Reset() {
	s.live = s.live[:0]
}

// Emit adds a particle. It does nothing and returns false when the system is
// at capacity or the input is not finite.
func (s *System) Emit(pos, vel Vec, c canvas.Color) bool {
	if len(s.live) >= s.params.MaxParticles || !pos.finite() || !vel.finite() {
		return false
	}
	s.serial++
	s.live = append(s.live, Particle{
		Pos:      pos,
		Vel:      vel,
		Color:    c,
		Lifetime: s.params.Lifetime,
		seed:     math.Mod(float64(s.serial)*0.618033988749895, 1) * 1000,
	})
	return true
}

// Update advances the simulation by dt seconds at time now and removes
// particles that reached the end of their lifetime.
func (s *System) Update(now, dt float64) {
	if !finite(dt) || dt < 0 {
		dt = 0
	}
	if dt > s.params.MaxStep {
		dt = s.params.MaxStep
	}
	if !finite(now) {
		now = 0
	}
	n := 0
	for i := range s.live {
		p := &s.live[i]
		force := s.params.Gravity.Add(s.Force(p.Pos, now, p.seed))
		p.Vel = p.Vel.Add(force.Scale(dt))
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Age += dt
		if p.Age >= p.Lifetime {
			continue
		}
		s.live[n] = *p
		n++
	}
	s.live = s.live[:n]
}

// Force samples the noise field at a position and time. It is smooth in
// both and bounded by NoiseStrength.
func (s *System) Force(pos Vec, now, seed float64) Vec {
	if s.params.NoiseStrength == 0 {
		return Vec{}
	}
	v := s.noise.Eval3(pos.X*s.params.NoiseScale, pos.Y*s.params.NoiseScale, now*s.params.NoiseSpeed+seed)
	a := v * 2 * math.Pi
	return Vec{math.Cos(a), math.Sin(a)}.Scale(s.params.NoiseStrength)
}

// Draw renders each particle as a dot that shrinks and fades out linearly
// over its lifetime.
func (s *System) Draw(surf canvas.Surface) {
	for i := range s.live {
		p := &s.live[i]
		f := p.Remaining()
		if f <= 0 {
			continue
		}
		surf.FillCircle(p.Pos.X, p.Pos.Y, s.params.StartSize*f, p.Color.WithAlpha(p.Color.A*f))
	}
}
