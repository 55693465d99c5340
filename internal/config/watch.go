package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"apple2/internal/debug"
)

// Watcher reloads a profile file whenever it changes on disk and
// delivers the new profile on Updates. Reload errors (a transient
// truncated write, a momentarily missing file) are logged and
// swallowed rather than closing the channel, so one bad write does
// not end the watch.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	updates chan Profile
	logger  *debug.Logger
	done    chan struct{}
}

// Watch starts watching path and reloads it on write and create
// events; other events (rename, remove, chmod) are ignored. Call Close
// when done.
func Watch(path string, logger *debug.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching config file %s: %w", path, err)
	}

	w := &Watcher{
		path:    path,
		fsw:     fsw,
		updates: make(chan Profile, 1),
		logger:  logger,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Updates delivers a freshly reloaded profile after each on-disk
// change. The channel is buffered; a reader that falls behind sees
// only the most recent edit once it catches up.
func (w *Watcher) Updates() <-chan Profile { return w.updates }

func (w *Watcher) run() {
	defer close(w.updates)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p, err := Load(w.path)
			if err != nil {
				if w.logger != nil {
					w.logger.LogSystemf(debug.LogLevelWarning, "config reload failed: %v", err)
				}
				continue
			}
			select {
			case w.updates <- p:
			default:
				// Drain the stale pending value and replace it.
				select {
				case <-w.updates:
				default:
				}
				w.updates <- p
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogSystemf(debug.LogLevelWarning, "config watcher error: %v", err)
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher and releases its underlying file handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
