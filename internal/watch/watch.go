// Package watch follows a case directory and reports time snapshots as the
// solver writes them.
package watch

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mesh-intelligence/parafoam/pkg/foam"
)

// Snapshot is one newly observed time directory.
type Snapshot struct {
	Label string // the literal time label, e.g. "0.3"
	Path  string
}

// Watcher reports new time directories in a case. Snapshots already present
// when Start is called are not reported. Not safe for concurrent Start/Stop.
type Watcher struct {
	Dir       string
	Snapshots <-chan Snapshot

	snapshots chan Snapshot
	done      chan struct{}
	fsw       *fsnotify.Watcher
	seen      map[string]bool
}

// New creates a watcher for the given case directory.
func New(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan Snapshot, 16)
	return &Watcher{
		Dir:       dir,
		Snapshots: ch,
		snapshots: ch,
		done:      make(chan struct{}),
		fsw:       fsw,
		seen:      make(map[string]bool),
	}, nil
}

// Start records the snapshots already on disk as seen and begins following
// new ones.
func (w *Watcher) Start() error {
	labels, err := foam.Times(w.Dir)
	if err != nil {
		return err
	}
	for _, label := range labels {
		w.seen[label] = true
	}
	if err := w.fsw.Add(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop ends the watch; the snapshot channel closes once the loop drains.
func (w *Watcher) Stop() {
	w.fsw.Close()
	<-w.done
	close(w.snapshots)
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			w.emit(event.Name)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// watch errors are not fatal for a progress display
		}
	}
}

func (w *Watcher) emit(path string) {
	label := filepath.Base(path)
	if _, ok := foam.ParseTime(label); !ok {
		return
	}
	if w.seen[label] {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.seen[label] = true
	select {
	case w.snapshots <- Snapshot{Label: label, Path: path}:
	default:
		// drop rather than stall the event loop when the consumer lags
	}
}
