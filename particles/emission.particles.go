package particles

import (
	"math/rand"

	"pianoviz/canvas"
)

// EmitAttempts is the number of stochastic emission trials per active key
// and frame.
const EmitAttempts = 5

const (
	spreadX   = 5.0  // horizontal launch speed range, px/s
	maxLaunch = 80.0 // upward launch speed, px/s
)

// KeySource describes where an active key emits from: the top edge of its
// column on the keyboard strip.
type KeySource struct {
	X, Width, Y float64
	// Intensity in [0,1] is the chance that each trial emits; it is high at
	// the attack and tapers while the note is held.
	Intensity float64
	Color     canvas.Color
}

// EmitForKey runs the emission trials for one key and returns how many
// particles were created.
func (s *System) EmitForKey(rng *rand.Rand, attempts int, k KeySource) int {
	emitted := 0
	for i := 0; i < attempts; i++ {
		if rng.Float64() >= k.Intensity {
			continue
		}
		pos := Vec{k.X + k.Width*rng.Float64(), k.Y}
		vel := Vec{spreadX * (rng.Float64() - 0.5), -maxLaunch * rng.Float64()}
		if s.Emit(pos, vel, k.Color) {
			emitted++
		}
	}
	return emitted
}
