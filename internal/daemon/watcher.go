// Calendar file watching for prompt dispatch of newly scheduled posts.
package daemon

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"socialmcp/internal/calendar"
)

// DefaultDebounceWindow coalesces rapid calendar writes into one check.
const DefaultDebounceWindow = 500 * time.Millisecond

// FallbackTimerInterval is the safety net check interval in watching mode.
const FallbackTimerInterval = 60 * time.Second

// Debouncer coalesces rapid file change events using a trailing-edge debounce.
// The callback fires only after no triggers have occurred for the duration.
type Debouncer struct {
	timer    *time.Timer
	duration time.Duration
	mu       sync.Mutex
}

// NewDebouncer creates a new Debouncer with the specified duration.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
	}
}

// Trigger schedules the callback to be called after the debounce window.
// If Trigger is called again before the window expires, the timer is reset.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, callback)
}

// Stop cancels any pending timer. Should be called when shutting down.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// FileWatcher watches the .socialmcp/ directory so the scheduler reacts to
// calendar changes without waiting for the next poll tick.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	stateDir  string // Path to .socialmcp/
	stopChan  chan struct{}
	logger    io.Writer // nil = no logging
}

// log writes a formatted message to the logger if configured.
func (fw *FileWatcher) log(format string, args ...interface{}) {
	if fw.logger != nil {
		fmt.Fprintf(fw.logger, "[scheduler] "+format+"\n", args...)
	}
}

// NewFileWatcher creates a FileWatcher for the given state root.
// Creates the .socialmcp/ directory if it doesn't exist.
func NewFileWatcher(stateRoot string) (*FileWatcher, error) {
	if err := calendar.EnsureStateDir(stateRoot); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(DefaultDebounceWindow),
		stateDir:  filepath.Join(stateRoot, calendar.RootDir),
		stopChan:  make(chan struct{}),
	}, nil
}

// SetLogger sets the logger for the file watcher.
func (fw *FileWatcher) SetLogger(logger io.Writer) {
	fw.logger = logger
}

// AddWatches adds the watch on the .socialmcp/ state directory.
func (fw *FileWatcher) AddWatches() error {
	if err := fw.watcher.Add(fw.stateDir); err != nil {
		return err
	}
	fw.log("Watching directory: %s", fw.stateDir)
	return nil
}

// isCalendarEvent checks if the event is a Write/Create on the calendar file.
func (fw *FileWatcher) isCalendarEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if filepath.Dir(event.Name) != fw.stateDir {
		return false
	}
	return strings.HasSuffix(event.Name, ".jsonl")
}

// Run starts the file watcher event loop.
// It calls processFunc when the calendar changes (debounced) and on every
// fallback tick. Returns when Close() is called or an error occurs.
func (fw *FileWatcher) Run(processFunc func()) error {
	fallbackTicker := time.NewTicker(FallbackTimerInterval)
	defer fallbackTicker.Stop()

	fw.log("Starting file watcher event loop (fallback interval: %v)", FallbackTimerInterval)

	for {
		select {
		case <-fw.stopChan:
			fw.log("Received stop signal, shutting down file watcher")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if fw.isCalendarEvent(event) {
				fw.log("Calendar change detected: %s (%s)", filepath.Base(event.Name), event.Op)
				fw.debouncer.Trigger(processFunc)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.log("Watcher error: %v", err)
			// Return error so the caller can fall back to polling
			return err

		case <-fallbackTicker.C:
			fw.log("Fallback timer tick: running dispatch check")
			processFunc()
		}
	}
}

// Close stops the file watcher and releases resources.
func (fw *FileWatcher) Close() error {
	close(fw.stopChan)
	fw.debouncer.Stop()
	return fw.watcher.Close()
}
