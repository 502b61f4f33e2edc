package runmode

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/skiffworks/skiff/pkg/log"
)

// watchDebounce coalesces editor write bursts into one restart.
const watchDebounce = 500 * time.Millisecond

// Watch runs the module and restarts it whenever the module file
// changes. Returns when ctx is cancelled or the runtime fails.
func Watch(ctx context.Context, cfg Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file, which would
	// drop a watch on the file itself
	if err := watcher.Add(filepath.Dir(cfg.ModulePath)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	for {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			done <- Start(runCtx, cfg)
		}()

		outcome, err := waitForChange(ctx, watcher, cfg.ModulePath, done)
		cancel()
		if outcome != runnerExited {
			// Stop the current instance before moving on
			<-done
		}

		switch outcome {
		case fileChanged:
			log.Info("Module changed, restarting: %s", cfg.ModulePath)
		case runnerExited:
			return err
		default: // stopped or watch failure
			return err
		}
	}
}

type watchOutcome int

const (
	stopped watchOutcome = iota // context cancelled or watcher closed
	fileChanged
	runnerExited
)

// waitForChange blocks until the module file changes, the context is
// cancelled, or the runner exits on its own.
func waitForChange(ctx context.Context, watcher *fsnotify.Watcher, path string, done <-chan error) (watchOutcome, error) {
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return stopped, nil

		case err := <-done:
			return runnerExited, err

		case ev, ok := <-watcher.Events:
			if !ok {
				return stopped, nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce = time.After(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return stopped, nil
			}
			return stopped, fmt.Errorf("watch error: %w", err)

		case <-debounce:
			return fileChanged, nil
		}
	}
}
