// Package watch re-runs the workflow when the source file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"firecalls/internal/datasource"
	"firecalls/internal/datasource/file"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls a run function each time the content of a local file changes.
type Watcher struct {
	src      *file.Local
	debounce time.Duration
	run      func(context.Context) error

	stamp file.Stamp
	sum   uint64
	runs  int
}

// New returns a Watcher for src. A non-positive debounce uses DefaultDebounce.
func New(src *file.Local, debounce time.Duration, run func(context.Context) error) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{src: src, debounce: debounce, run: run}
}

// Runs returns how many times the run function has been called.
func (w *Watcher) Runs() int { return w.runs }

// Run watches the directory holding the file, so replacing the file by
// rename is seen too, and blocks until ctx is done. The content at start is
// the baseline; run is only called for later changes. Errors returned by run
// are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	path := filepath.Clean(w.src.Path())
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(path), err)
	}
	if _, err := w.changed(ctx); err != nil {
		log.Printf("watch: baseline: %v", err)
	}
	log.Printf("watch: watching path=%s", path)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != path || (!evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create)) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)
		case <-timer.C:
			ok, err := w.changed(ctx)
			if err != nil {
				log.Printf("watch: %v", err)
				continue
			}
			if !ok {
				continue
			}
			w.runs++
			log.Printf("watch: change detected path=%s run=%d", path, w.runs)
			if err := w.run(ctx); err != nil {
				log.Printf("watch: run %d failed: %v", w.runs, err)
			}
		}
	}
}

// changed reports whether the file content differs from the last check.
// The stamp short-circuits the content hash when size and mtime are equal.
func (w *Watcher) changed(ctx context.Context) (bool, error) {
	st, err := w.src.Stat()
	if err != nil {
		return false, err
	}
	if st.Size == w.stamp.Size && st.ModTime.Equal(w.stamp.ModTime) {
		return false, nil
	}
	sum, _, err := datasource.Fingerprint(ctx, w.src)
	if err != nil {
		return false, err
	}
	w.stamp = st
	if sum == w.sum {
		return false, nil
	}
	w.sum = sum
	return true, nil
}
