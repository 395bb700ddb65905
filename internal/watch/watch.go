// Package watch re-runs a callback whenever a source file changes, for the
// CLI's -watch flag. Grounded on the teacher's
// internal/runtime/vfs/watch_fsnotify.go FSNotifyWatcher, here watching one
// source file directly instead of backing a virtual filesystem.
package watch

import (
	"github.com/fsnotify/fsnotify"
)

// Watcher watches a single file path and invokes a callback once for every
// Write or Create event on it. Events are not coalesced: a save that fires
// several events (many editors truncate-then-write, firing Write twice)
// runs the callback once per event.
type Watcher struct {
	w    *fsnotify.Watcher
	errC chan error
	done chan struct{}
}

// New starts watching path. The returned Watcher must be closed with Close.
func New(path string, onChange func()) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	fw := &Watcher{w: w, errC: make(chan error, 1), done: make(chan struct{})}
	go fw.loop(onChange)
	return fw, nil
}

func (fw *Watcher) loop(onChange func()) {
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				onChange()
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.errC <- err:
			default:
			}
		case <-fw.done:
			return
		}
	}
}

// Errors returns a channel of watcher-internal errors (e.g. the watched
// file's directory was removed), buffered to one: a caller that isn't
// reading it doesn't block the watch loop.
func (fw *Watcher) Errors() <-chan error {
	return fw.errC
}

// Close stops the watch loop and releases the underlying OS resources.
func (fw *Watcher) Close() error {
	close(fw.done)
	return fw.w.Close()
}
