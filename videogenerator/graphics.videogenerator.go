package videogenerator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"pianoviz/canvas"
	"pianoviz/player"
	"pianoviz/session"
)

// createFrames steps the session through every frame and saves each one as
// a PNG. The simulation runs in frame order on this goroutine; encoding and
// writing happen on a bounded pool of surfaces, so a surface is only drawn
// on again once its previous frame is on disk.
func (g *Generator) createFrames(ctx context.Context, o *Options, ses *session.Session, clock *player.FrameClock, totalFrames int) error {
	workers := min(o.Workers, max(totalFrames, 1))
	surfaces := make(chan *canvas.GGSurface, workers)
	for i := 0; i < workers; i++ {
		surfaces <- canvas.NewGGSurface(o.Width, o.Height)
	}

	var wg sync.WaitGroup
	var finishedFrames atomic.Uint64
	var saveErr error
	var errOnce sync.Once
	failed := make(chan struct{})
	startTime := time.Now()

	var surf *canvas.GGSurface
	var tickErr error
	cancel := clock.RequestTick(func(tk player.Tick) {
		view := ses.View(tk.Playback, o.Width, o.Height)
		_, tickErr = ses.Tick(session.Input{Time: tk.Time, Delta: tk.Delta, View: view}, surf)
	})
	defer cancel()

	for i := 0; i < totalFrames; i++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case <-failed:
			wg.Wait()
			return saveErr
		case surf = <-surfaces:
		}

		clock.Step()
		if tickErr != nil {
			wg.Wait()
			return fmt.Errorf("frame %d: %w", i, tickErr)
		}
		if o.Debug {
			surf.Text(fmt.Sprintf("FRAME %05d", i+1), 30, 30, debugLabelFontSize, canvas.White)
		}

		wg.Add(1)
		go func(s *canvas.GGSurface, i int) {
			defer wg.Done()
			if err := s.Context().SavePNG(framePath(o.FramesDir, i)); err != nil {
				errOnce.Do(func() {
					saveErr = fmt.Errorf("saving frame %d: %w", i, err)
					close(failed)
				})
			}
			f := finishedFrames.Add(1)
			if int(f)%(o.FPS*progressEverySec) == 0 {
				g.log.WithFields(logrus.Fields{
					"frames": fmt.Sprintf("%d/%d", f, totalFrames),
					"avg":    time.Since(startTime).Seconds() / float64(f),
				}).Info("rendering")
			}
			surfaces <- s
		}(surf, i)
	}

	wg.Wait()
	select {
	case <-failed:
		return saveErr
	default:
	}
	if n := finishedFrames.Load(); int(n) != totalFrames {
		return errors.New("frame count mismatch")
	}
	return nil
}
