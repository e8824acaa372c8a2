package notes

import (
	"reflect"
	"testing"
)

func TestReconstructPairs(t *testing.T) {
	events := []RawEvent{
		On(60, 100, 0.5),
		On(64, 90, 0.75),
		Off(60, 1.0),
		On(67, 80, 1.25),
		Off(64, 1.5),
		Off(67, 2.0),
		On(60, 70, 2.5),
		Off(60, 3.0),
	}
	r := Reconstruct(events, nil)
	want := []Note{
		{60, 100, 0.5, 1.0},
		{64, 90, 0.75, 1.5},
		{67, 80, 1.25, 2.0},
		{60, 70, 2.5, 3.0},
	}
	if !reflect.DeepEqual(r.Notes, want) {
		t.Errorf("notes = %v, want %v", r.Notes, want)
	}
	if len(r.Anomalies) != 0 {
		t.Errorf("anomalies = %v, want none", r.Anomalies)
	}
	if r.Duration != 3.0 {
		t.Errorf("duration = %v, want 3", r.Duration)
	}
}

func TestReconstructAnomalies(t *testing.T) {
	type testcase struct {
		name      string
		events    []RawEvent
		notes     []Note
		anomalies []AnomalyKind
	}
	cases := []testcase{
		{
			name:      "duplicate press",
			events:    []RawEvent{On(60, 100, 1), On(60, 80, 2), Off(60, 3)},
			notes:     []Note{{60, 100, 1, 2}, {60, 80, 2, 3}},
			anomalies: []AnomalyKind{DuplicatePress},
		},
		{
			name:      "duplicate press left open",
			events:    []RawEvent{On(60, 100, 1), On(60, 80, 2)},
			notes:     []Note{{60, 100, 1, 2}, {60, 80, 2, 2}},
			anomalies: []AnomalyKind{DuplicatePress, MissingRelease},
		},
		{
			name:      "orphan release",
			events:    []RawEvent{Off(61, 0.5), On(60, 100, 1), Off(60, 2)},
			notes:     []Note{{60, 100, 1, 2}},
			anomalies: []AnomalyKind{OrphanRelease},
		},
		{
			name:      "unterminated at end",
			events:    []RawEvent{On(60, 100, 5)},
			notes:     []Note{{60, 100, 5, 5}},
			anomalies: []AnomalyKind{MissingRelease},
		},
		{
			name:      "stragglers close in press order",
			events:    []RawEvent{On(72, 10, 1), On(48, 20, 2), On(60, 30, 3), Off(60, 4)},
			notes:     []Note{{60, 30, 3, 4}, {72, 10, 1, 4}, {48, 20, 2, 4}},
			anomalies: []AnomalyKind{MissingRelease, MissingRelease},
		},
		{
			name:      "zero velocity press releases",
			events:    []RawEvent{On(60, 100, 1), On(60, 0, 2)},
			notes:     []Note{{60, 100, 1, 2}},
			anomalies: nil,
		},
		{
			name:      "time runs backwards",
			events:    []RawEvent{On(60, 100, 2), Off(60, 1)},
			notes:     []Note{{60, 100, 2, 2}},
			anomalies: []AnomalyKind{TimeReversed},
		},
		{
			name:      "pitch out of range",
			events:    []RawEvent{On(128, 100, 1), Off(-1, 2)},
			notes:     nil,
			anomalies: []AnomalyKind{PitchOutOfRange, PitchOutOfRange},
		},
		{
			name:      "velocity clamped",
			events:    []RawEvent{On(60, 300, 1), Off(60, 2)},
			notes:     []Note{{60, 127, 1, 2}},
			anomalies: nil,
		},
	}
	for _, c := range cases {
		r := Reconstruct(c.events, nil)
		if !reflect.DeepEqual(r.Notes, c.notes) {
			t.Errorf("%s: notes = %v, want %v", c.name, r.Notes, c.notes)
		}
		var kinds []AnomalyKind
		for _, a := range r.Anomalies {
			kinds = append(kinds, a.Kind)
		}
		if !reflect.DeepEqual(kinds, c.anomalies) {
			t.Errorf("%s: anomalies = %v, want %v", c.name, kinds, c.anomalies)
		}
	}
}

func TestReconstructInvariants(t *testing.T) {
	events := []RawEvent{
		On(60, 100, 0), On(62, 100, 0.1), On(60, 90, 0.2), Off(62, 0.15),
		Off(62, 0.3), On(64, 50, 0.3), Off(60, 0.25), On(64, 40, 0.4),
	}
	r := Reconstruct(events, nil)
	for _, n := range r.Notes {
		if n.OffTime < n.OnTime {
			t.Errorf("note %v ends before it starts", n)
		}
	}
	again := Reconstruct(events, nil)
	if !reflect.DeepEqual(r, again) {
		t.Errorf("reconstruction is not deterministic:\n%v\n%v", r, again)
	}
}

func TestReconstructEmpty(t *testing.T) {
	r := Reconstruct(nil, nil)
	if len(r.Notes) != 0 || r.Duration != 0 {
		t.Errorf("empty stream: %+v", r)
	}
}

func TestSortByOnTime(t *testing.T) {
	ns := []Note{{64, 1, 2, 3}, {60, 1, 1, 4}, {62, 1, 2, 2.5}}
	SortByOnTime(ns)
	want := []Note{{60, 1, 1, 4}, {64, 1, 2, 3}, {62, 1, 2, 2.5}}
	if !reflect.DeepEqual(ns, want) {
		t.Errorf("sorted = %v, want %v", ns, want)
	}
}

func TestNoteName(t *testing.T) {
	type testcase struct {
		pitch int
		name  string
	}
	cases := []testcase{
		{21, "A0"}, {60, "C4"}, {61, "C#4"}, {108, "C8"}, {200, "pitch(200)"},
	}
	for _, c := range cases {
		if got := NoteName(c.pitch); got != c.name {
			t.Errorf("NoteName(%d) = %q, want %q", c.pitch, got, c.name)
		}
	}
}
