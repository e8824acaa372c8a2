package watcher

import "time"

// A delay is a timeout that can be retriggered.
type delay struct {
	timer       *time.Timer
	channel     <-chan time.Time
	lastTrigger time.Time
}

// trigger fires the delay dt from now, postponing a pending one.
func (d *delay) trigger(dt time.Duration) {
	if d.channel != nil {
		d.lastTrigger = time.Now().Add(dt)
		return
	}
	if d.timer == nil {
		d.timer = time.NewTimer(dt)
	} else {
		d.timer.Reset(dt)
	}
	d.channel = d.timer.C
	d.lastTrigger = time.Time{}
}

// remainingTime is how long a postponed trigger still has to wait after the
// timer fired.
func (d *delay) remainingTime() time.Duration {
	if d.lastTrigger.IsZero() {
		return 0
	}
	return time.Until(d.lastTrigger)
}

func (d *delay) stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.channel = nil
}
