package player

// FrameClock is a deterministic clock for offline rendering. Every Step
// advances time by exactly one frame, so playback never drifts from the
// frame count.
type FrameClock struct {
	fps   int
	start float64
	frame int
	cbs   callbacks
}

// NewFrameClock returns a clock at playback time start, stepping 1/fps.
func NewFrameClock(fps int, start float64) *FrameClock {
	if fps <= 0 {
		fps = 60
	}
	return &FrameClock{fps: fps, start: start}
}

// Frame is the index of the next frame.
func (c *FrameClock) Frame() int { return c.frame }

// PlaybackTime is derived from the frame count.
func (c *FrameClock) PlaybackTime() float64 {
	return c.start + float64(c.frame)/float64(c.fps)
}

// Playing is always true; a frame clock only exists while rendering.
func (c *FrameClock) Playing() bool { return true }

// RequestTick registers fn to run on every Step.
func (c *FrameClock) RequestTick(fn func(Tick)) func() {
	return c.cbs.add(fn)
}

// Step runs the callbacks synchronously for the current frame and then
// advances one frame. The first step is at the start time.
func (c *FrameClock) Step() Tick {
	t := Tick{
		Time:     float64(c.frame) / float64(c.fps),
		Delta:    1 / float64(c.fps),
		Playback: c.PlaybackTime(),
		Playing:  true,
	}
	c.frame++
	c.cbs.fire(t)
	return t
}

// Frames is the number of steps needed to go from start to end.
func (c *FrameClock) Frames(end float64) int {
	if end <= c.start {
		return 0
	}
	n := int((end - c.start) * float64(c.fps))
	if c.start+float64(n)/float64(c.fps) < end {
		n++
	}
	return n
}
