// Package renderer composites one frame of the visualizer: the reference
// grid, the falling note bars, the keyboard strip, the key glow and the
// particle layer, always in that order.
package renderer

import (
	"errors"

	"pianoviz/canvas"
	"pianoviz/keyboard"
	"pianoviz/layout"
	"pianoviz/notes"
	"pianoviz/particles"
)

// ErrSurfaceUnavailable is returned when there is nothing to draw on yet.
// Nothing is drawn and the caller can retry on the next tick.
var ErrSurfaceUnavailable = errors.New("drawing surface unavailable")

// Layer names, reported to surfaces implementing canvas.LayerMarker.
const (
	LayerGrid       = "grid"
	LayerBackground = "background"
	LayerNotes      = "notes"
	LayerKeyboard   = "keyboard"
	LayerGlow       = "glow"
	LayerParticles  = "particles"
)

// Frame is everything one composite reads. The renderer never modifies it.
type Frame struct {
	Notes     []notes.Note
	View      layout.ViewState
	Keys      *keyboard.Keys
	Particles *particles.System
	Style     Style
}

// Stats describes what a composite drew.
type Stats struct {
	NotesDrawn     int
	LongNotesDrawn int
	ActiveKeys     int
	Particles      int
}

type layer struct {
	name string
	draw func(s canvas.Surface, f *Frame, st *Stats)
}

var layers = []layer{
	{LayerGrid, drawScreenAxes},
	{LayerBackground, prepareScreen},
	{LayerNotes, drawFallingNotes},
	{LayerKeyboard, drawKeyboard},
	{LayerGlow, drawKeyGlow},
	{LayerParticles, drawParticles},
}

// Layers returns the compositing order.
func Layers() []string {
	names := make([]string, len(layers))
	for i, l := range layers {
		names[i] = l.name
	}
	return names
}

// RenderFrame composites f onto s. The view is sanitized first so degenerate
// parameters cannot put non-finite coordinates on the surface.
func RenderFrame(s canvas.Surface, f Frame) (Stats, error) {
	var st Stats
	if !canvas.Available(s) {
		return st, ErrSurfaceUnavailable
	}
	f.View, _ = layout.Sanitize(f.View)
	if f.Keys == nil {
		keys := keyboard.Illuminate(f.Notes, f.View.PlaybackTime)
		f.Keys = &keys
	}
	marker, _ := s.(canvas.LayerMarker)
	for _, l := range layers {
		if marker != nil {
			marker.BeginLayer(l.name)
		}
		l.draw(s, &f, &st)
	}
	return st, nil
}
