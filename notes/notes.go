// Package notes turns a raw stream of key presses and releases into bounded
// note intervals.
package notes

import (
	"io"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// AnomalyKind classifies a malformed part of an event stream.
type AnomalyKind string

const (
	DuplicatePress  AnomalyKind = "duplicate-press"
	OrphanRelease   AnomalyKind = "orphan-release"
	MissingRelease  AnomalyKind = "missing-release"
	TimeReversed    AnomalyKind = "time-reversed"
	PitchOutOfRange AnomalyKind = "pitch-out-of-range"
)

// An Anomaly is a recovered irregularity in the input stream. None of them
// abort reconstruction.
type Anomaly struct {
	Kind  AnomalyKind
	Pitch int
	Time  float64
	Index int // position of the offending event, -1 at end of stream
}

// Reconstruction is the result of matching presses to releases.
//
// Notes are in the order their closing event was processed, not by onset.
// Use SortByOnTime when onset order is needed.
type Reconstruction struct {
	Notes     []Note
	Duration  float64
	Anomalies []Anomaly
}

type openNote struct {
	note Note
	seq  int
	ok   bool
}

type reconstructor struct {
	log       logrus.FieldLogger
	open      [128]openNote
	seq       int
	notes     []Note
	anomalies []Anomaly
}

// Reconstruct groups the note on and note off events of a stream into
// notes. It is deterministic and never fails; irregularities are recovered
// locally, reported to log and returned in Anomalies.
func Reconstruct(events []RawEvent, log logrus.FieldLogger) Reconstruction {
	if log == nil {
		log = discardLogger()
	}
	r := reconstructor{log: log}
	var last float64
	for i, e := range events {
		switch {
		case e.Pitch < 0 || e.Pitch > 127:
			r.report(Anomaly{Kind: PitchOutOfRange, Pitch: e.Pitch, Time: e.Time, Index: i})
		case e.Kind == NoteOn && e.Velocity > 0:
			r.press(i, e)
		case e.Kind == NoteOn, e.Kind == NoteOff:
			r.release(i, e)
		}
		last = e.Time
	}
	r.flush(last)
	if last < 0 || math.IsNaN(last) || math.IsInf(last, 0) {
		last = 0
	}
	return Reconstruction{
		Notes:     r.notes,
		Duration:  last,
		Anomalies: r.anomalies,
	}
}

func (r *reconstructor) press(i int, e RawEvent) {
	if cur := &r.open[e.Pitch]; cur.ok {
		r.report(Anomaly{Kind: DuplicatePress, Pitch: e.Pitch, Time: e.Time, Index: i})
		r.close(i, e.Pitch, e.Time)
	}
	r.open[e.Pitch] = openNote{
		note: Note{
			Pitch:    e.Pitch,
			Velocity: clampVelocity(e.Velocity),
			OnTime:   e.Time,
		},
		seq: r.seq,
		ok:  true,
	}
	r.seq++
}

func (r *reconstructor) release(i int, e RawEvent) {
	if !r.open[e.Pitch].ok {
		r.report(Anomaly{Kind: OrphanRelease, Pitch: e.Pitch, Time: e.Time, Index: i})
		return
	}
	r.close(i, e.Pitch, e.Time)
}

// close ends the open note on pitch at t and appends it to the output.
func (r *reconstructor) close(i, pitch int, t float64) {
	cur := &r.open[pitch]
	n := cur.note
	if t < n.OnTime || math.IsNaN(t) {
		r.report(Anomaly{Kind: TimeReversed, Pitch: pitch, Time: t, Index: i})
		t = n.OnTime
	}
	n.OffTime = t
	r.notes = append(r.notes, n)
	*cur = openNote{}
}

// flush closes the stragglers at the time of the last event, in the order
// they were opened.
func (r *reconstructor) flush(last float64) {
	var pending []openNote
	for _, o := range r.open {
		if o.ok {
			pending = append(pending, o)
		}
	}
	sort.Slice(pending, func(a, b int) bool { return pending[a].seq < pending[b].seq })
	for _, o := range pending {
		r.report(Anomaly{Kind: MissingRelease, Pitch: o.note.Pitch, Time: last, Index: -1})
		r.close(-1, o.note.Pitch, last)
	}
}

func (r *reconstructor) report(a Anomaly) {
	r.anomalies = append(r.anomalies, a)
	r.log.WithFields(logrus.Fields{
		"kind":  string(a.Kind),
		"pitch": a.Pitch,
		"note":  NoteName(a.Pitch),
		"time":  a.Time,
		"index": a.Index,
	}).Warn("malformed note stream")
}

func clampVelocity(v int) int {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return v
}

// SortByOnTime orders notes by onset, keeping the closing order for notes
// that start together.
func SortByOnTime(ns []Note) {
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].OnTime < ns[j].OnTime })
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
