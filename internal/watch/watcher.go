// Package watch re-parses NCL files when they change on disk.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/foundation/utils/filex"
	"github.com/msto63/nclpost/internal/batch"
)

// Handler receives the result of every debounced re-parse
type Handler func(*batch.Result)

// Options configures a Watcher
type Options struct {
	Logger *mdwlog.Logger

	// Parse is used for every re-parse; its Logger is replaced by the
	// watcher's logger when unset
	Parse batch.Options

	// Debounce is how long a file must stay quiet before it is parsed
	Debounce time.Duration

	// Extensions limits directory watches to these file types
	// (default batch.DefaultExtensions)
	Extensions []string
}

// Stats tracks watcher activity
type Stats struct {
	Events        int
	Parses        int
	Unchanged     int
	Failures      int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
}

// Watcher watches files and directories for NCL changes
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	handler     Handler
	opts        Options
	logger      *mdwlog.Logger
	files       map[string]bool
	hashes      map[string]string
	debounceMap map[string]time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// New creates a Watcher that calls handler after each re-parse
func New(handler Handler, opts Options) (*Watcher, error) {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.Parse.Logger == nil {
		opts.Parse.Logger = opts.Logger
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 250 * time.Millisecond
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = batch.DefaultExtensions
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to create file watcher").
			WithCode(mdwerror.CodeIO).
			WithOperation("watch.New")
	}

	return &Watcher{
		watcher:     fw,
		handler:     handler,
		opts:        opts,
		logger:      opts.Logger.WithField("component", "ncl-watch"),
		files:       make(map[string]bool),
		hashes:      make(map[string]string),
		debounceMap: make(map[string]time.Time),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Add watches a file or a directory. Single files are watched through
// their parent directory so editors that replace the file on save are
// still seen.
func (w *Watcher) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return mdwerror.Wrap(err, "cannot watch path").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("watch.Add").
			WithDetail("path", path)
	}

	dir := path
	if !info.IsDir() {
		dir = filepath.Dir(path)
		w.mu.Lock()
		w.files[filepath.Clean(path)] = true
		w.mu.Unlock()
	}

	if err := w.watcher.Add(dir); err != nil {
		return mdwerror.Wrap(err, "failed to add watch").
			WithCode(mdwerror.CodeIO).
			WithOperation("watch.Add").
			WithDetail("path", dir)
	}
	w.logger.Debug("Watching", mdwlog.Fields{"path": path})
	return nil
}

// Start runs the event loop in a goroutine
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and closes the underlying watcher
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.ErrorWithErr("Error closing watcher", err)
	}
	w.logger.Debug("Watcher stopped")
}

// Done is closed when the event loop has exited
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

// Stats returns a snapshot of the watcher statistics
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.opts.Debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	debounceTicker := time.NewTicker(tick)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.ErrorWithErr("Watcher error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			w.processDebounced(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	path := filepath.Clean(event.Name)
	if !w.wants(path) {
		return
	}

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = path
	w.debounceMap[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) wants(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.files[path] {
		return true
	}
	if len(w.files) > 0 && !w.isWatchedDir(filepath.Dir(path)) {
		return false
	}
	return filex.HasExtension(path, w.opts.Extensions)
}

// isWatchedDir reports whether dir was added as a directory rather than as
// the parent of a single file
func (w *Watcher) isWatchedDir(dir string) bool {
	for f := range w.files {
		if filepath.Dir(f) == dir {
			return false
		}
	}
	return true
}

func (w *Watcher) processDebounced(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var toProcess []string
	for path, t := range w.debounceMap {
		if now.Sub(t) >= w.opts.Debounce {
			toProcess = append(toProcess, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range toProcess {
		if w.unchanged(path) {
			continue
		}
		result := batch.ParseFile(ctx, path, w.opts.Parse)

		w.mu.Lock()
		w.stats.Parses++
		if result.Failed() {
			w.stats.Failures++
		}
		w.mu.Unlock()

		if w.handler != nil {
			w.handler(result)
		}
	}
}

// unchanged reports whether path has the same content as at its last
// parse; saves that only touch the file are skipped
func (w *Watcher) unchanged(path string) bool {
	sum, err := filex.SHA256Hash(path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.hashes[path] == sum {
		w.stats.Unchanged++
		w.logger.Trace("Content unchanged, skipping", mdwlog.Fields{"path": path})
		return true
	}
	w.hashes[path] = sum
	return false
}
