package codebase

import (
	"context"
	"time"

	"github.com/viant/afs/storage"
)

// FileWatcher polls the root directory and feeds changed files into the
// codebase. OnChange, when set, receives the paths updated or removed by
// each poll. Ignore, when set, excludes files whose content is owned by
// someone else, such as buffers open in an editor.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	OnChange     func(paths []string)
	Ignore       func(path string) bool
}

func NewFileWatcher(c *Codebase) *FileWatcher {
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *FileWatcher) scan() {
	ctx := context.Background()
	currentFiles := make(map[string]bool)
	var changed []string

	err := w.codebase.walk(ctx, w.codebase.RootDir(), func(path string, obj storage.Object) {
		if w.codebase.kindOf(path) == OtherFile {
			return
		}
		currentFiles[path] = true

		lastMod, known := w.modTimes[path]
		if known && !obj.ModTime().After(lastMod) {
			return
		}
		w.modTimes[path] = obj.ModTime()
		if !known && w.codebase.GetFile(path) != nil {
			// Loaded by ScanAll before the first poll.
			return
		}
		if w.Ignore != nil && w.Ignore(path) {
			return
		}
		if err := w.codebase.ScanFile(ctx, path); err != nil {
			log.Warningf("rescanning %s: %s", path, err)
			return
		}
		changed = append(changed, path)
	})
	if err != nil {
		log.Warningf("polling %s: %s", w.codebase.RootDir(), err)
		return
	}

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			changed = append(changed, path)
		}
	}
	if len(changed) > 0 && w.OnChange != nil {
		w.OnChange(changed)
	}
}
