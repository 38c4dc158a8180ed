// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/bibcheck/internal/logging"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 300 * time.Millisecond

// Watch calls fn whenever one of paths changes, until ctx is done. Bursts
// of events closer together than debounce collapse into one call. fn never
// runs concurrently with itself.
func Watch(ctx context.Context, paths []string, debounce time.Duration, fn func(ctx context.Context, changed []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files instead of writing them in place, so the
	// parent directories are watched and events filtered by name.
	wanted := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs := absPath(p)
		wanted[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}

	log := logging.FromContext(ctx)
	fire := make(chan struct{}, 1)
	var timer *time.Timer
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := absPath(ev.Name)
			if !wanted[name] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			pending[name] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			changed := make([]string, 0, len(pending))
			for _, p := range paths {
				if pending[absPath(p)] {
					changed = append(changed, p)
				}
			}
			clear(pending)
			log.Debug("files changed", "files", changed)
			fn(ctx, changed)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher error", "error", err)
		}
	}
}
