// Package videogenerator renders a recording offline into an MP4: every
// frame is composited into a PNG, the soundtrack is synthesized with
// timidity and ffmpeg assembles both.
package videogenerator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"pianoviz/midiparser"
	"pianoviz/player"
	"pianoviz/session"
)

var ErrNoInput = errors.New("no input recording")

// Generator renders videos. The zero value is not usable; call New.
type Generator struct {
	log logrus.FieldLogger
	run runner
}

// New returns a generator that runs ffmpeg and timidity from PATH.
func New(log logrus.FieldLogger) *Generator {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	return &Generator{log: log, run: execRunner}
}

// Generate renders o.Input into a video.
func (g *Generator) Generate(ctx context.Context, o Options) (Result, error) {
	executionStartTime := time.Now()
	var res Result
	if o.Input == "" {
		return res, ErrNoInput
	}
	o.setDefaults()
	log := g.log.WithField("input", o.Input)

	rec, err := midiparser.New(log).Load(o.Input)
	if err != nil {
		return res, err
	}
	ses := session.New(rec, o.Session, log)
	defer ses.Close()
	info := ses.Info()
	res.Notes, res.Anomalies = info.Notes, info.Anomalies

	res.Output = o.Output
	if res.Output == "" {
		res.Output = filepath.Join(o.OutputDir, getFileNameWithoutExtension(o.Input)+".mp4")
	}
	if err := os.MkdirAll(filepath.Dir(res.Output), 0755); err != nil {
		return res, err
	}
	if err := os.MkdirAll(o.FramesDir, 0755); err != nil {
		return res, err
	}
	if err := removeFrames(o.FramesDir); err != nil {
		return res, fmt.Errorf("clearing stale frames: %w", err)
	}

	if o.Audio && isMidiFile(o.Input) {
		res.Audio, err = g.convertMidiToWav(ctx, o.Input, o.FramesDir)
		if err != nil {
			log.WithError(err).Warn("rendering without audio")
		}
		defer removeAudioFile(res.Audio)
	}

	clock := player.NewFrameClock(o.FPS, -o.StartDelay)
	res.Frames = clock.Frames(info.Duration + o.Tail)
	log.WithFields(logrus.Fields{
		"frames": res.Frames,
		"size":   fmt.Sprintf("%dx%d", o.Width, o.Height),
		"notes":  res.Notes,
	}).Info("rendering frames")

	if !o.KeepFrames {
		defer func() {
			if err := removeFrames(o.FramesDir); err != nil {
				log.WithError(err).Warn("removing frames")
			}
		}()
	}
	if err := g.createFrames(ctx, &o, ses, clock, res.Frames); err != nil {
		return res, err
	}
	if err := g.createVideoFromFrames(ctx, &o, res.Audio, res.Output, res.Frames); err != nil {
		return res, err
	}

	res.Elapsed = time.Since(executionStartTime)
	log.WithFields(logrus.Fields{
		"output":  res.Output,
		"seconds": res.Elapsed.Seconds(),
	}).Info("video generated")
	return res, nil
}
