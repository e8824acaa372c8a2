// Package midiparser reads recordings from disk: Standard MIDI Files and the
// JSON recording documents produced by the recorder.
package midiparser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2/smf"

	"pianoviz/notes"
)

var (
	ErrUnknownFormat = errors.New("unknown recording format")
	ErrNoNotes       = errors.New("recording has no note events")
	errBadMessage    = errors.New("bad message")
)

// Parser turns recording files into raw note event streams.
type Parser struct {
	log logrus.FieldLogger
}

// New returns a parser logging to log, or to nowhere when log is nil.
func New(log logrus.FieldLogger) *Parser {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	return &Parser{log: log}
}

// Load reads path, choosing the decoder by file extension.
func (p *Parser) Load(path string) (notes.Recording, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi", ".smf":
		return p.ParseFile(path)
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return notes.Recording{}, err
		}
		defer f.Close()
		rec, err := p.ParseJSON(f)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", path, err)
		}
		if rec.Name == "" {
			rec.Name = recordingName(path)
		}
		return rec, nil
	default:
		return notes.Recording{}, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

// ParseFile reads a Standard MIDI File.
func (p *Parser) ParseFile(path string) (notes.Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return notes.Recording{}, err
	}
	rec, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		return rec, fmt.Errorf("%s: %w", path, err)
	}
	rec.Name = recordingName(path)
	return rec, nil
}

// Parse reads a Standard MIDI File from r. Note events of all tracks and
// channels are merged into one stream ordered by time; events at the same
// instant keep their file order. Times are in seconds and follow the tempo
// map of the file.
func (p *Parser) Parse(r io.Reader) (notes.Recording, error) {
	var rec notes.Recording
	var evs []notes.RawEvent
	var last float64

	rd := smf.ReadTracksFrom(r).Do(func(ev smf.TrackEvent) {
		t := float64(ev.AbsMicroSeconds) / 1_000_000
		last = math.Max(last, t)
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteStart(&ch, &key, &vel):
			evs = append(evs, notes.On(int(key), int(vel), t))
		case ev.Message.GetNoteEnd(&ch, &key):
			evs = append(evs, notes.Off(int(key), t))
		}
	})
	if err := rd.Error(); err != nil {
		return rec, fmt.Errorf("reading midi: %w", err)
	}
	if len(evs) == 0 {
		return rec, ErrNoNotes
	}
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].Time < evs[j].Time })

	rec.Events = evs
	rec.Duration = evs[len(evs)-1].Time
	p.log.WithFields(logrus.Fields{
		"events":   len(evs),
		"duration": rec.Duration,
		"end":      last,
	}).Debug("parsed midi file")
	return rec, nil
}

// ParseJSON reads a recording document. The duration is at least the time
// of the last message.
func (p *Parser) ParseJSON(r io.Reader) (notes.Recording, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return notes.Recording{}, fmt.Errorf("decoding recording: %w", err)
	}
	rec := notes.Recording{Name: doc.Title, Duration: doc.Duration}
	skipped := 0
	for i, m := range doc.Messages {
		ev, err := m.event()
		if err != nil {
			if !errors.Is(err, errUnsupported) {
				return notes.Recording{}, fmt.Errorf("message %d: %w", i, err)
			}
			skipped++
			continue
		}
		rec.Events = append(rec.Events, ev)
	}
	if len(rec.Events) == 0 {
		return rec, ErrNoNotes
	}
	for _, ev := range rec.Events {
		rec.Duration = math.Max(rec.Duration, ev.Time)
	}
	if skipped > 0 {
		p.log.WithField("skipped", skipped).Debug("ignored non-note messages")
	}
	return rec, nil
}

func recordingName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
