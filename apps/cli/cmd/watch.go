package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/unitspec/packages/core/config"
)

// watchLoop re-runs tests when files under its paths change. Bursts of
// events are debounced and re-runs are throttled by a token bucket.
type watchLoop struct {
	paths    []string
	debounce time.Duration
	limiter  *rate.Limiter
	ignored  []string
	out      io.Writer
	run      func()
}

func newWatchLoop(cfg *config.Config, out io.Writer, run func()) (*watchLoop, error) {
	paths := cfg.Watch.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	limit := rate.Inf
	if cfg.Watch.Rate > 0 {
		limit = rate.Limit(cfg.Watch.Rate)
	}
	burst := cfg.Watch.Burst
	if burst <= 0 {
		burst = config.DefaultWatchBurst
	}

	debounce := cfg.Watch.Debounce
	if debounce <= 0 {
		debounce = config.DefaultWatchDebounce
	}

	w := &watchLoop{
		debounce: debounce,
		limiter:  rate.NewLimiter(limit, burst),
		out:      out,
		run:      run,
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("cannot watch %s: %w", p, err)
		}
		w.paths = append(w.paths, absPath(p))
	}
	return w, nil
}

// ignore drops events for the given files, which the run itself writes.
func (w *watchLoop) ignore(paths ...string) {
	for _, p := range paths {
		if p = strings.TrimPrefix(strings.TrimPrefix(p, "sqlite://"), "sqlite:"); p != "" {
			w.ignored = append(w.ignored, absPath(p))
		}
	}
}

func (w *watchLoop) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	name := absPath(ev.Name)
	for _, p := range w.ignored {
		// sqlite also writes p-journal and p-wal
		if strings.HasPrefix(name, p) {
			return false
		}
	}
	return true
}

func (w *watchLoop) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// Run blocks until ctx is done.
func (w *watchLoop) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, p := range w.paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("cannot watch %s: %w", p, err)
		}
		if !info.IsDir() {
			err = watcher.Add(p)
		} else {
			err = w.addTree(watcher, p)
		}
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	fmt.Fprintf(w.out, "\nWatching for changes... (press Ctrl+C to stop)\n")

	// never fires until the first relevant event
	debounce := time.NewTimer(time.Duration(math.MaxInt64))
	defer debounce.Stop()
	var changed string

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addTree(watcher, event.Name)
				}
			}
			changed = event.Name
			debounce.Reset(w.debounce)

		case <-debounce.C:
			if !w.limiter.Allow() {
				fmt.Fprintf(w.out, "\nChange to %s ignored: re-running too often\n", changed)
				continue
			}
			fmt.Fprintf(w.out, "\n\nFile changed: %s\nRe-running tests...\n\n", changed)
			w.run()
			fmt.Fprintf(w.out, "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w.out, "watcher error: %v\n", err)
		}
	}
}
