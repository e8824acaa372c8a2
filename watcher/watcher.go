// Package watcher reloads a recording whenever its file changes on disk.
package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"pianoviz/notes"
)

// ReloadDelay collapses the burst of events an editor or a recorder causes
// while writing a file into a single reload.
const ReloadDelay = 200 * time.Millisecond

// Update is the result of one reload.
type Update struct {
	Recording notes.Recording
	Err       error
}

// LoadFunc reads a recording from path.
type LoadFunc func(path string) (notes.Recording, error)

type watcher struct {
	path   string
	load   LoadFunc
	log    logrus.FieldLogger
	output chan<- Update
	delay  delay
	wait   time.Duration
}

// Watch reports a reloaded recording on the returned channel after every
// change to path. The channel is closed when ctx is done or watching fails;
// a watch failure is sent as a final Update.
func Watch(ctx context.Context, path string, load LoadFunc, log logrus.FieldLogger) (<-chan Update, error) {
	return watch(ctx, path, load, log, ReloadDelay)
}

func watch(ctx context.Context, path string, load LoadFunc, log logrus.FieldLogger, wait time.Duration) (<-chan Update, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: many programs save by replacing the file, which
	// drops a watch on the file itself.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	ch := make(chan Update, 1)
	w := watcher{
		path:   abs,
		load:   load,
		log:    log.WithField("path", path),
		output: ch,
		wait:   wait,
	}
	go w.watch(ctx, fw)
	return ch, nil
}

func (w *watcher) watch(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.output)
	defer fw.Close()
	if err := w.watchFunc(ctx, fw); err != nil && !errors.Is(err, context.Canceled) {
		w.output <- Update{Err: err}
	}
}

func (w *watcher) watchFunc(ctx context.Context, fw *fsnotify.Watcher) error {
	defer w.delay.stop()
	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				return errors.New("watcher channel closed")
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.WithField("op", ev.Op.String()).Debug("recording changed")
			w.delay.trigger(w.wait)
		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("watcher channel closed")
			}
			return err
		case <-w.delay.channel:
			w.delay.channel = nil
			if rem := w.delay.remainingTime(); rem > 0 {
				w.delay.trigger(rem)
				continue
			}
			rec, err := w.load(w.path)
			if err != nil {
				w.log.WithError(err).Warn("reload failed")
			}
			select {
			case w.output <- Update{Recording: rec, Err: err}:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
