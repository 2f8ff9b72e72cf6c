package library

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// DefaultMinInterval is the minimum spacing between change notifications.
const DefaultMinInterval = 1 * time.Second

// relevantOps are the file system operations that can alter the library.
const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// WatcherOptions configures the art directory watcher.
type WatcherOptions struct {
	// ArtDir is the directory tree to monitor.
	ArtDir string

	// MinInterval is the minimum time between OnChange calls. Bursts of
	// events inside the interval collapse into one notification.
	MinInterval time.Duration

	// OnChange is invoked from the watcher goroutine after the tree changed.
	OnChange func()

	// Logger for watcher diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Watcher monitors the art directory and reports changes. Rapid event bursts
// (file copies, batch exports) are coalesced so a rescan runs at most once
// per MinInterval.
type Watcher struct {
	artDir   string
	onChange func()
	limiter  *rate.Limiter
	interval time.Duration
	stopChan chan struct{}
	log      *slog.Logger
}

// NewWatcher creates a watcher for the given art directory.
func NewWatcher(opts WatcherOptions) (*Watcher, error) {
	if opts.ArtDir == "" {
		return nil, fmt.Errorf("art directory is required")
	}
	if opts.OnChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultMinInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		artDir:   opts.ArtDir,
		onChange: opts.OnChange,
		limiter:  rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		interval: opts.MinInterval,
		stopChan: make(chan struct{}),
		log:      logger,
	}, nil
}

// Start begins monitoring and blocks until the context is canceled or Stop
// is called. Run it in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addDirTree(watcher, w.artDir); err != nil {
		return fmt.Errorf("watch art directory: %w", err)
	}
	w.log.Info("watching art directory", "path", w.artDir)

	// The ticker flushes changes the rate limiter held back.
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	dirty := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopChan:
			return nil
		case event := <-watcher.Events:
			if event.Op&relevantOps == 0 {
				continue
			}
			// New subdirectories must be watched too; fsnotify does not
			// recurse on its own.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addDirTree(watcher, event.Name); err != nil {
						w.log.Warn("could not watch new directory",
							"path", event.Name, "error", err)
					}
				}
			}
			w.log.Debug("file event", "op", event.Op.String(), "path", event.Name)
			if w.limiter.Allow() {
				w.onChange()
			} else {
				dirty = true
			}
		case err := <-watcher.Errors:
			w.log.Warn("file watcher error", "error", err)
		case <-ticker.C:
			if dirty && w.limiter.Allow() {
				dirty = false
				w.onChange()
			}
		}
	}
}

// Stop ends monitoring. Call it at most once.
func (w *Watcher) Stop() {
	close(w.stopChan)
}

// addDirTree registers root and every non-hidden subdirectory with the
// watcher.
func addDirTree(watcher *fsnotify.Watcher, root string) error {
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
