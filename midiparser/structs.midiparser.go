package midiparser

import (
	"errors"
	"fmt"
	"math"

	"pianoviz/notes"
)

var errUnsupported = errors.New("unsupported message type")

// Document is the JSON form of a recording.
type Document struct {
	Title    string    `json:"title,omitempty"`
	Duration float64   `json:"duration"`
	Messages []Message `json:"messages"`
}

// Message is one recorded event. Only note messages are used; other types
// such as pedal changes are skipped.
type Message struct {
	Type     string  `json:"type"`
	Pitch    int     `json:"pitch"`
	Velocity int     `json:"velocity"`
	Time     float64 `json:"time"`
}

func (m Message) event() (notes.RawEvent, error) {
	if math.IsNaN(m.Time) || math.IsInf(m.Time, 0) {
		return notes.RawEvent{}, fmt.Errorf("%w: time %v", errBadMessage, m.Time)
	}
	switch m.Type {
	case "noteOn":
		return notes.On(m.Pitch, m.Velocity, m.Time), nil
	case "noteOff":
		return notes.Off(m.Pitch, m.Time), nil
	default:
		return notes.RawEvent{}, fmt.Errorf("%w: %q", errUnsupported, m.Type)
	}
}

// NewDocument is the inverse of ParseJSON, used to export recordings.
func NewDocument(rec notes.Recording) Document {
	doc := Document{Title: rec.Name, Duration: rec.Duration}
	for _, ev := range rec.Events {
		m := Message{Pitch: ev.Pitch, Time: ev.Time}
		switch ev.Kind {
		case notes.NoteOn:
			m.Type = "noteOn"
			m.Velocity = ev.Velocity
		case notes.NoteOff:
			m.Type = "noteOff"
		default:
			continue
		}
		doc.Messages = append(doc.Messages, m)
	}
	return doc
}
