// Package watch monitors a seed plan file and triggers re-application
// when it changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PlanWatcher monitors a plan file for changes and invokes a callback
// after a debounce window.
type PlanWatcher struct {
	planPath     string
	onChange     func()
	watcher      *fsnotify.Watcher
	stopChan     chan struct{}
	changeChan   chan struct{}
	debounceTime time.Duration
}

// NewPlanWatcher creates a watcher for the given plan file. onChange is
// invoked from a watcher goroutine after changes settle.
func NewPlanWatcher(planPath string, onChange func()) (*PlanWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Resolve absolute path for consistent watching
	absPath, err := filepath.Abs(planPath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve plan path: %w", err)
	}

	return &PlanWatcher{
		planPath:     absPath,
		onChange:     onChange,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		changeChan:   make(chan struct{}, 1),
		debounceTime: 500 * time.Millisecond, // Debounce rapid editor writes
	}, nil
}

// Start begins monitoring the plan file.
func (w *PlanWatcher) Start(ctx context.Context) error {
	// Watch the directory containing the plan file (more reliable than
	// watching the file directly; editors often replace the file).
	planDir := filepath.Dir(w.planPath)
	if err := w.watcher.Add(planDir); err != nil {
		return fmt.Errorf("failed to watch plan directory %s: %w", planDir, err)
	}

	slog.Info("Starting plan watcher", "plan_path", w.planPath)

	go w.watchLoop(ctx)
	go w.applyLoop(ctx)

	return nil
}

// Stop stops the watcher.
func (w *PlanWatcher) Stop() {
	slog.Info("Stopping plan watcher")
	close(w.stopChan)
	if err := w.watcher.Close(); err != nil {
		slog.Error("Error closing file watcher", "error", err)
	}
}

// watchLoop filters file system events down to the plan file.
func (w *PlanWatcher) watchLoop(ctx context.Context) {
	planFile := filepath.Base(w.planPath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != planFile {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Plan file changed", "event", event.Op.String())
			select {
			case w.changeChan <- struct{}{}:
			default: // A change is already pending
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Plan watcher error", "error", err)
		}
	}
}

// applyLoop debounces change signals and invokes the callback.
func (w *PlanWatcher) applyLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-w.changeChan:
			timer := time.NewTimer(w.debounceTime)
		settle:
			for {
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-w.stopChan:
					timer.Stop()
					return
				case <-w.changeChan:
					// More changes arrived; restart the window.
					if !timer.Stop() {
						<-timer.C
					}
					timer.Reset(w.debounceTime)
				case <-timer.C:
					break settle
				}
			}
			w.onChange()
		}
	}
}
