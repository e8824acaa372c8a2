package session

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"pianoviz/canvas"
	"pianoviz/keyboard"
	"pianoviz/layout"
	"pianoviz/notes"
	"pianoviz/particles"
	"pianoviz/renderer"
)

// State is everything a playback session carries from one tick to the next.
// Notes is frozen once the state is built; only the particle population and
// the random source change between ticks.
type State struct {
	Notes     []notes.Note
	Duration  float64
	Particles *particles.System
	Rand      *rand.Rand
	Style     renderer.Style
	Attempts  int
	// Keys is the key state of the most recent tick.
	Keys keyboard.Keys
}

// Input is what the host clock hands to a tick.
type Input struct {
	Time  float64 // monotonic animation time, seconds
	Delta float64 // seconds since the previous tick
	View  layout.ViewState
}

// FrameInfo summarizes one rendered tick.
type FrameInfo struct {
	View    layout.ViewState
	Keys    keyboard.Keys
	Emitted int
	Stats   renderer.Stats
	Issues  []layout.Issue
}

// Render is the per-frame tick. It derives the key state from the notes and
// the playback time, emits particles for active keys, advances the
// simulation and composites the frame onto surf.
//
// When surf is not available nothing in st changes and
// renderer.ErrSurfaceUnavailable is returned.
func Render(st *State, in Input, surf canvas.Surface, log logrus.FieldLogger) (FrameInfo, error) {
	var info FrameInfo
	if !canvas.Available(surf) {
		return info, renderer.ErrSurfaceUnavailable
	}
	if log == nil {
		log = discard
	}
	view, issues := layout.Sanitize(in.View)
	for _, is := range issues {
		log.WithFields(logrus.Fields{
			"param": string(is.Kind),
			"value": is.Value,
		}).Warn("degenerate view parameter replaced")
	}
	info.View = view
	info.Issues = issues
	info.Keys = keyboard.Illuminate(st.Notes, view.PlaybackTime)
	st.Keys = info.Keys
	info.Emitted = emit(st, &info.Keys, view)
	st.Particles.Update(in.Time, in.Delta)

	stats, err := renderer.RenderFrame(surf, renderer.Frame{
		Notes:     st.Notes,
		View:      view,
		Keys:      &info.Keys,
		Particles: st.Particles,
		Style:     st.Style,
	})
	info.Stats = stats
	return info, err
}

func emit(st *State, keys *keyboard.Keys, view layout.ViewState) int {
	w := layout.KeyWidth(view.Width)
	y := layout.Boundary(view.Height, st.Style.KeyboardHeight)
	n := 0
	for p := layout.LowestKey; p <= layout.LastRendered; p++ {
		k := keys[p]
		if !k.Active {
			continue
		}
		n += st.Particles.EmitForKey(st.Rand, st.Attempts, particles.KeySource{
			X:         layout.PitchToX(p, view.Width),
			Width:     w,
			Y:         y,
			Intensity: k.Intensity,
			Color:     canvas.HSLA(layout.SemitoneHue(p), 1, 0.5, 0.5),
		})
	}
	return n
}
