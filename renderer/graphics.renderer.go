package renderer

import (
	"fmt"
	"math"

	"pianoviz/canvas"
	"pianoviz/keyboard"
	"pianoviz/layout"
	"pianoviz/notes"
)

func keyGeometry(f *Frame, pitch int) (x, w float64) {
	return layout.PitchToX(pitch, f.View.Width), layout.KeyWidth(f.View.Width)
}

func boundary(f *Frame) float64 {
	return layout.Boundary(f.View.Height, f.Style.KeyboardHeight)
}

func timeY(f *Frame, t float64) float64 {
	return layout.TimeToY(t, f.View, f.Style.KeyboardHeight)
}

// drawScreenAxes lays out a faint column per white key and a gridline on
// every C and F.
func drawScreenAxes(s canvas.Surface, f *Frame, _ *Stats) {
	h := float64(f.View.Height)
	for p := layout.LowestKey; p <= layout.LastRendered; p++ {
		if layout.IsBlackKey(p) {
			continue
		}
		x, w := keyGeometry(f, p)
		s.FillRect(canvas.Rect{X: x, Y: 0, W: w, H: h}, columnColor)
		if layout.IsOctaveLine(p) {
			s.Line(x, 0, x, h, gridlineColor, gridlineWidth)
		}
	}
}

func prepareScreen(s canvas.Surface, f *Frame, _ *Stats) {
	s.FillRect(canvas.Rect{W: float64(f.View.Width), H: float64(f.View.Height)}, f.Style.Background.WithAlpha(1))
}

func noteColor(f *Frame, n notes.Note) canvas.Color {
	hue := layout.SemitoneHue(n.Pitch)
	k := f.Keys[n.Pitch]
	if k.Active && n.Contains(f.View.PlaybackTime) {
		return canvas.HSL(hue, 1, k.Lightness)
	}
	return canvas.HSL(hue, 0.5+float64(n.Velocity)/254, baseLightness)
}

func drawFallingNotes(s canvas.Surface, f *Frame, st *Stats) {
	h := float64(f.View.Height)
	longSpan := f.View.VisibleDuration / longNoteShare
	for _, n := range f.Notes {
		if n.Pitch < layout.LowestKey || n.Pitch > layout.LastRendered {
			continue
		}
		bottom := timeY(f, n.OnTime)
		top := timeY(f, n.OffTime)
		if bottom < 0 || top > h {
			continue
		}
		x, w := keyGeometry(f, n.Pitch)
		c := noteColor(f, n)
		st.NotesDrawn++
		if n.Duration() > longSpan {
			st.LongNotesDrawn++
			s.FillPath(longNotePath(f, n, x, w, bottom, top), c)
			continue
		}
		height := math.Max(bottom-top, minNoteHeight)
		s.FillRect(canvas.Rect{X: x, Y: bottom - height, W: w, H: height}, c)
	}
}

// longNotePath outlines a long note: a square head at the onset and a tail
// tapering to a point at the release.
func longNotePath(f *Frame, n notes.Note, x, w, bottom, top float64) canvas.Path {
	head := timeY(f, n.OnTime+f.View.VisibleDuration/noteHeadShare)
	mid := head + (top-head)*0.5
	return canvas.Path{}.
		MoveTo(x+w, head).
		LineTo(x+w, bottom).
		LineTo(x, bottom).
		LineTo(x, head).
		LineTo(x+w, head).
		QuadTo(x+w*0.5, mid, x+w*0.5, top).
		QuadTo(x+w*0.5, mid, x, head).
		Close()
}

func drawKeyboard(s canvas.Surface, f *Frame, st *Stats) {
	for p := layout.LowestKey; p <= layout.LastRendered; p++ {
		if !layout.IsBlackKey(p) {
			drawKeyboardKey(s, f, p)
		}
		if f.Keys[p].Active {
			st.ActiveKeys++
		}
	}
	for p := layout.LowestKey; p <= layout.LastRendered; p++ {
		if layout.IsBlackKey(p) {
			drawKeyboardBlackKey(s, f, p)
		}
	}
	if f.Style.Labels {
		drawCNotesNotation(s, f)
	}
}

// keyHue is the hue of the key itself, or of the key it borrows its glow
// from.
func keyHue(k keyboard.KeyState, pitch int) float64 {
	if !k.Active && k.GlowSource >= 0 {
		return layout.SemitoneHue(k.GlowSource)
	}
	return layout.SemitoneHue(pitch)
}

func unlitKeyColor(k keyboard.KeyState, pitch int, shade float64) canvas.Color {
	sat := 0.0
	if k.GlowSource >= 0 {
		sat = 1
	}
	alpha := glowAlphaScale*k.Glow + glowAlphaFloor
	return canvas.HSL(keyHue(k, pitch), sat, shade*alpha)
}

func drawKeyboardKey(s canvas.Surface, f *Frame, p int) {
	k := f.Keys[p]
	x, w := keyGeometry(f, p)
	y := boundary(f)
	if k.Active {
		s.FillRect(canvas.Rect{X: x, Y: y, W: w, H: f.Style.KeyboardHeight}, canvas.HSL(keyHue(k, p), 1, 0.5))
		return
	}
	s.FillRect(canvas.Rect{X: x, Y: y, W: w - keyBorder, H: f.Style.KeyboardHeight}, unlitKeyColor(k, p, 1))
	s.StrokeRect(canvas.Rect{X: x, Y: y, W: w, H: f.Style.KeyboardHeight}, canvas.KeyBorder, keyBorder)
}

func drawKeyboardBlackKey(s canvas.Surface, f *Frame, p int) {
	k := f.Keys[p]
	x, w := keyGeometry(f, p)
	c := unlitKeyColor(k, p, blackKeyShade)
	if k.Active {
		c = canvas.HSL(keyHue(k, p), 1, 0.5)
	}
	s.FillRect(canvas.Rect{X: x, Y: boundary(f), W: w, H: f.Style.KeyboardHeight}, c)
}

func drawCNotesNotation(s canvas.Surface, f *Frame) {
	_, w := keyGeometry(f, layout.LowestKey)
	size := math.Min(w/2, f.Style.KeyboardHeight*0.6)
	if size < 4 {
		return
	}
	for p := 24; p <= layout.HighestKey; p += 12 {
		x, _ := keyGeometry(f, p)
		alpha := 0.5
		if p == 60 {
			alpha = 0.8
		}
		s.Text(fmt.Sprintf("C%d", layout.Octave(p)), x+w/6, float64(f.View.Height)-f.Style.KeyboardHeight*0.25, size, canvas.White.WithAlpha(alpha))
	}
}

// drawKeyGlow fades the key color out upwards above every active key. The
// glow is strongest right after the attack.
func drawKeyGlow(s canvas.Surface, f *Frame, _ *Stats) {
	y := boundary(f)
	for p := layout.LowestKey; p <= layout.LastRendered; p++ {
		k := f.Keys[p]
		if !k.Active {
			continue
		}
		x, w := keyGeometry(f, p)
		hue := layout.SemitoneHue(p)
		s.FillVerticalGradient(
			canvas.Rect{X: x, Y: y - f.Style.GlowHeight, W: w, H: f.Style.GlowHeight},
			canvas.HSLA(hue, 1, 0.5, 0),
			canvas.HSLA(hue, 1, 0.5, k.Intensity),
		)
	}
}

func drawParticles(s canvas.Surface, f *Frame, st *Stats) {
	if f.Particles == nil {
		return
	}
	st.Particles = f.Particles.Len()
	f.Particles.Draw(s)
}
