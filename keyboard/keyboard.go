// Package keyboard derives the per-key illumination of the virtual keyboard
// from the note list and the playback time.
package keyboard

import (
	"math"

	"pianoviz/layout"
	"pianoviz/notes"
)

// GlowRadius is the farthest distance, in semitones, at which an active key
// lights up its neighbours.
const GlowRadius = 4

const (
	attackLightness = 0.9
	steadyLightness = 0.5
	lightnessRamp   = 0.5 // seconds
)

// KeyState is the derived state of one key for one frame.
type KeyState struct {
	Active    bool
	Elapsed   float64 // seconds since the press, active keys only
	Velocity  int
	Progress  float64 // fraction of the note that has sounded
	Lightness float64 // HSL lightness of an active key
	Intensity float64 // playing intensity in [0,1], high at the attack

	// Glow is the neighbour illumination of an inactive key and GlowSource
	// the pitch it comes from, or -1.
	Glow       float64
	GlowSource int
}

// Keys holds the state of every MIDI pitch; only 21..109 are rendered.
type Keys [128]KeyState

// Illuminate evaluates the key model for one frame. It keeps no state
// between calls.
func Illuminate(ns []notes.Note, playbackTime float64) Keys {
	var keys Keys
	var onsets [128]float64
	for i := range keys {
		keys[i].GlowSource = -1
	}
	for _, n := range ns {
		if n.Pitch < 0 || n.Pitch > 127 || !n.Contains(playbackTime) {
			continue
		}
		k := &keys[n.Pitch]
		if k.Active && onsets[n.Pitch] > n.OnTime {
			continue
		}
		onsets[n.Pitch] = n.OnTime
		elapsed := playbackTime - n.OnTime
		*k = KeyState{
			Active:     true,
			Elapsed:    elapsed,
			Velocity:   n.Velocity,
			Progress:   progress(n, playbackTime),
			Lightness:  Lightness(elapsed),
			Intensity:  Falloff(n.Pitch, n.Velocity, elapsed),
			GlowSource: -1,
		}
	}
	for p := layout.LowestKey; p <= layout.LastRendered; p++ {
		if keys[p].Active {
			continue
		}
		if src, d := nearestActive(&keys, p); src >= 0 {
			keys[p].GlowSource = src
			keys[p].Glow = GlowIntensity(d)
		}
	}
	return keys
}

// nearestActive sweeps outwards from pitch, below before above at each
// distance, and returns the first active key found.
func nearestActive(keys *Keys, pitch int) (int, int) {
	for d := 1; d <= GlowRadius; d++ {
		if dn := pitch - d; dn >= layout.LowestKey && keys[dn].Active {
			return dn, d
		}
		if up := pitch + d; up <= layout.LastRendered && keys[up].Active {
			return up, d
		}
	}
	return -1, 0
}

// GlowIntensity is the neighbour glow at a distance in semitones.
func GlowIntensity(distance int) float64 {
	if distance <= 0 || distance >= GlowRadius {
		return 0
	}
	f := 1 - float64(distance)/GlowRadius
	return f * f
}

// Lightness ramps linearly from the bright attack value down to the steady
// value and stays there.
func Lightness(elapsed float64) float64 {
	f := math.Min(1, math.Max(0, elapsed/lightnessRamp))
	return steadyLightness + (attackLightness-steadyLightness)*(1-f)
}

// Falloff approximates how loud a struck key still is: proportional to the
// velocity at the attack and decaying exponentially, faster for higher
// pitches.
func Falloff(pitch, velocity int, elapsed float64) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	tau := 1.5 * math.Pow(2, float64(60-pitch)/24)
	tau = math.Max(0.2, math.Min(4, tau))
	v := math.Max(0, math.Min(127, float64(velocity))) / 127
	return v * math.Exp(-elapsed/tau)
}

func progress(n notes.Note, t float64) float64 {
	d := n.Duration()
	if d <= 0 {
		return 1
	}
	return math.Min(1, math.Max(0, (t-n.OnTime)/d))
}
