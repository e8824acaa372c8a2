// Package layout maps pitch and time onto the pixel space of a frame.
//
// All functions are pure: the same arguments always give the same result,
// and degenerate view parameters are guarded so that no NaN or Inf reaches
// the drawing primitives.
package layout

import "math"

const (
	LowestKey  = 21  // A0
	HighestKey = 108 // C8
	// LastRendered is one past the 88-key range; the piano-roll keeps a key
	// of margin on the right.
	LastRendered = 109
	KeyCount     = 88
)

// MinVisibleDuration replaces a non-positive or non-finite visible duration.
const MinVisibleDuration = 1.0

// ViewState is supplied by the host for every frame.
type ViewState struct {
	PlaybackTime    float64
	VisibleDuration float64
	Width           int
	Height          int
}

// IssueKind names a guarded degenerate view parameter.
type IssueKind string

const (
	BadVisibleDuration IssueKind = "visible-duration"
	BadPlaybackTime    IssueKind = "playback-time"
	BadSize            IssueKind = "size"
)

// An Issue describes a view parameter that was replaced during Sanitize.
type Issue struct {
	Kind  IssueKind
	Value float64
}

// Sanitize returns a copy of v that is safe to map with, and the list of
// parameters it had to replace.
func Sanitize(v ViewState) (ViewState, []Issue) {
	var issues []Issue
	if !finite(v.VisibleDuration) || v.VisibleDuration <= 0 {
		issues = append(issues, Issue{BadVisibleDuration, v.VisibleDuration})
		v.VisibleDuration = MinVisibleDuration
	}
	if !finite(v.PlaybackTime) {
		issues = append(issues, Issue{BadPlaybackTime, v.PlaybackTime})
		v.PlaybackTime = 0
	}
	if v.Width <= 0 {
		issues = append(issues, Issue{BadSize, float64(v.Width)})
		v.Width = 1
	}
	if v.Height <= 0 {
		issues = append(issues, Issue{BadSize, float64(v.Height)})
		v.Height = 1
	}
	return v, issues
}

// KeyWidth is the horizontal extent of one key column.
func KeyWidth(width int) float64 {
	return float64(width) / KeyCount
}

// PitchToX returns the left edge of the column for pitch. A0 starts at 0 and
// C8 ends at width.
func PitchToX(pitch, width int) float64 {
	return float64(pitch-LowestKey) * KeyWidth(width)
}

// Boundary is the y coordinate of the top edge of the keyboard strip.
func Boundary(height int, keyboardHeight float64) float64 {
	b := float64(height) - keyboardHeight
	if b < 0 || !finite(b) {
		return 0
	}
	return b
}

// TimeToY maps a recording time onto the piano-roll. The playback time lands
// exactly on the keyboard boundary and playbackTime+visibleDuration lands at
// the top, so upcoming notes fall towards the keyboard.
func TimeToY(t float64, v ViewState, keyboardHeight float64) float64 {
	v, _ = Sanitize(v)
	b := Boundary(v.Height, keyboardHeight)
	if t == v.PlaybackTime {
		return b
	}
	y := b - b*(t-v.PlaybackTime)/v.VisibleDuration
	if !finite(y) {
		if t > v.PlaybackTime {
			return -math.MaxFloat32
		}
		return math.MaxFloat32
	}
	return y
}

// DefaultVisibleDuration picks the initial zoom for a recording: the
// preferred span, but never more than the whole recording.
func DefaultVisibleDuration(preferred, total float64) float64 {
	if !finite(preferred) || preferred <= 0 {
		preferred = MinVisibleDuration
	}
	if finite(total) && total > 0 && total < preferred {
		return total
	}
	return preferred
}

const (
	zoomFactor  = 1.5
	minZoomSpan = 5.0
)

// ZoomOut widens the visible span while it is shorter than the recording.
func ZoomOut(visible, total float64) float64 {
	if visible < total {
		return visible * zoomFactor
	}
	return visible
}

// ZoomIn narrows the visible span down to a floor of a few seconds.
func ZoomIn(visible float64) float64 {
	if visible > minZoomSpan {
		return visible / zoomFactor
	}
	return visible
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
