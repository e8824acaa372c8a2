package videogenerator

import (
	"pianoviz/config"
)

const (
	framePattern       = "fr%05d.png"
	defaultWorkers     = 8
	maxRemoveWorkers   = 100
	progressEverySec   = 30
	debugLabelFontSize = 9
)

// OptionsFromConfig fills render options for input from cfg.
func OptionsFromConfig(cfg *config.Config, input string) Options {
	res := cfg.VideoResolution()
	return Options{
		Input:      input,
		Width:      res.Width(),
		Height:     res.Height(),
		FPS:        cfg.Video.FPS,
		StartDelay: cfg.Video.StartDelay,
		Tail:       cfg.Tail,
		OutputDir:  cfg.Video.OutputDir,
		FramesDir:  cfg.Video.FramesDir,
		Workers:    cfg.Video.Workers,
		Audio:      cfg.Video.Audio,
		KeepFrames: cfg.Video.KeepFrames,
		Session:    cfg.SessionOptions(),
	}
}

func (o *Options) setDefaults() {
	d := config.DefaultConfig()
	if o.Width <= 0 || o.Height <= 0 {
		res := d.VideoResolution()
		o.Width, o.Height = res.Width(), res.Height()
	}
	if o.FPS <= 0 {
		o.FPS = d.Video.FPS
	}
	if o.StartDelay < 0 {
		o.StartDelay = 0
	}
	if o.Tail < 0 {
		o.Tail = 0
	}
	if o.OutputDir == "" {
		o.OutputDir = d.Video.OutputDir
	}
	if o.FramesDir == "" {
		o.FramesDir = d.Video.FramesDir
	}
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.Session.Visible <= 0 {
		o.Session = d.SessionOptions()
	}
}
