// Package watch reports changes to chat export files.
package watch

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/Zuo-Peng/wa-stats/internal/scan"
)

type Op string

const (
	OpWrite  Op = "write"
	OpCreate Op = "create"
	OpRemove Op = "remove"
)

type Event struct {
	Path string
	Op   Op
}

type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan Event
	log     *slog.Logger
}

// New watches root and every directory below it. Events for files that are
// not chat exports are dropped.
func New(root string, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		events:  make(chan Event, 100),
		log:     log,
	}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}

	go w.processEvents()
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	// recursively add directories
	return filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return w.watcher.Add(p)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer close(w.events)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.log.Warn("watch dir", "path", ev.Name, "err", err)
					}
					continue
				}
			}
			if !scan.IsChatFile(ev.Name) {
				continue
			}
			op, ok := translate(ev.Op)
			if !ok {
				continue
			}
			w.log.Debug("chat changed", "path", ev.Name, "op", op)
			w.events <- Event{Path: ev.Name, Op: op}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// log and keep running
			w.log.Warn("watch", "err", err)
		}
	}
}

func translate(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpRemove, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return "", false
	}
}

// Events is closed after Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
