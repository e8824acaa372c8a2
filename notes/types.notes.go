package notes

import "fmt"

// EventKind distinguishes presses from releases in a raw event stream.
type EventKind uint8

const (
	NoteOn EventKind = iota + 1
	NoteOff
)

func (k EventKind) String() string {
	switch k {
	case NoteOn:
		return "noteOn"
	case NoteOff:
		return "noteOff"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// A RawEvent is a single captured key press or release. Time is in seconds
// from the start of the recording.
type RawEvent struct {
	Kind     EventKind
	Pitch    int
	Velocity int
	Time     float64
}

// On returns a press event.
func On(pitch, velocity int, t float64) RawEvent {
	return RawEvent{Kind: NoteOn, Pitch: pitch, Velocity: velocity, Time: t}
}

// Off returns a release event.
func Off(pitch int, t float64) RawEvent {
	return RawEvent{Kind: NoteOff, Pitch: pitch, Time: t}
}

// A Note is a bounded interval of one sounding pitch.
type Note struct {
	Pitch    int
	Velocity int
	OnTime   float64
	OffTime  float64
}

// Duration returns the length of the note in seconds.
func (n Note) Duration() float64 {
	return n.OffTime - n.OnTime
}

// Contains reports whether t lies within the closed interval of the note.
func (n Note) Contains(t float64) bool {
	return t >= n.OnTime && t <= n.OffTime
}

func (n Note) String() string {
	return fmt.Sprintf("%s v=%d [%.3f, %.3f]", NoteName(n.Pitch), n.Velocity, n.OnTime, n.OffTime)
}

// A Recording is an ordered event stream plus its total duration, as handed
// over by whatever loaded it.
type Recording struct {
	Name     string
	Events   []RawEvent
	Duration float64
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the human-readable version of a pitch, e.g. "C4" for 60.
func NoteName(pitch int) string {
	if pitch < 0 || pitch > 127 {
		return fmt.Sprintf("pitch(%d)", pitch)
	}
	return fmt.Sprintf("%s%d", noteNames[pitch%12], pitch/12-1)
}
