package videogenerator

import (
	"time"

	"pianoviz/session"
)

// Options describe one video render.
type Options struct {
	Input  string // .mid, .midi or .json recording
	Output string // defaults to OutputDir/<input name>.mp4

	Width, Height int
	FPS           int
	StartDelay    float64 // seconds shown before playback starts
	Tail          float64 // seconds rendered past the last event

	OutputDir  string
	FramesDir  string
	Workers    int
	Audio      bool
	KeepFrames bool
	Debug      bool // stamp the frame number on every frame

	Session session.Options
}

// Result describes a finished render.
type Result struct {
	Output    string
	Frames    int
	Audio     string
	Notes     int
	Anomalies int
	Elapsed   time.Duration
}
