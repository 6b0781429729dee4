package main

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/flx/internal/debug"
	flxerrors "github.com/standardbeagle/flx/internal/errors"
)

const defaultWatchDebounce = 100 * time.Millisecond

// inputWatcher reports when a file matched by the input globs is created,
// written, removed or renamed. Only directories that exist when the
// watcher starts are watched.
type inputWatcher struct {
	globs    []string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

func newInputWatcher(globs []string, debounce time.Duration) (*inputWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	iw := &inputWatcher{debounce: debounce, watcher: watcher}
	for _, g := range globs {
		iw.globs = append(iw.globs, filepath.Clean(g))
	}

	for _, dir := range watchDirs(iw.globs) {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, flxerrors.NewInputError("watch", dir, err)
		}
		debug.LogWatch("watching %s\n", dir)
	}
	return iw, nil
}

// watchDirs returns the directories whose entries can change what the
// globs match: each glob's literal base and the directory of every
// current match.
func watchDirs(globs []string) []string {
	var dirs []string
	add := func(dir string) {
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	for _, g := range globs {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(g))
		add(filepath.FromSlash(base))

		matches, err := doublestar.FilepathGlob(g, doublestar.WithFilesOnly())
		if err != nil {
			continue
		}
		for _, m := range matches {
			add(filepath.Dir(m))
		}
	}
	return dirs
}

// relevant reports whether ev can change the input lines.
func (iw *inputWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	for _, g := range iw.globs {
		if ok, _ := doublestar.PathMatch(g, name); ok {
			return true
		}
	}
	return false
}

// run calls onChange once per burst of relevant events, after the burst has
// been quiet for the debounce interval. It returns nil when ctx is done and
// the first error onChange returns otherwise. The watcher is closed on return.
func (iw *inputWatcher) run(ctx context.Context, onChange func() error) error {
	defer iw.watcher.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-iw.watcher.Events:
			if !ok {
				return nil
			}
			if !iw.relevant(ev) {
				continue
			}
			debug.LogWatch("input changed: %s %s\n", ev.Op, ev.Name)
			if timer == nil {
				timer = time.NewTimer(iw.debounce)
			} else {
				timer.Reset(iw.debounce)
			}
			fire = timer.C

		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return nil
			}
			debug.LogWatch("watcher error: %v\n", err)

		case <-fire:
			fire = nil
			if err := onChange(); err != nil {
				return err
			}
		}
	}
}
