package storage

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// BackupScheduler runs periodic index backups and prunes old ones.
type BackupScheduler struct {
	manager *BackupManager
	opts    SchedulerOptions

	mu       sync.Mutex
	running  bool
	stop     chan struct{}
	lastRun  time.Time
	lastErr  error
	runs     int
	failures int
}

// SchedulerOptions configures the backup scheduler.
type SchedulerOptions struct {
	// Interval between backup runs. Zero means daily.
	Interval time.Duration

	// Keep is how many backup files to retain. Older files beyond this
	// count are removed after each successful run. Zero means 10.
	Keep int

	// Backup holds the per-run backup options. Nil means defaults.
	Backup *BackupConfig

	// RunAtStart runs one backup immediately when the scheduler starts.
	RunAtStart bool

	// OnComplete is called after every run with the backup path and error.
	OnComplete func(path string, err error)
}

// NewBackupScheduler creates a scheduler over the given manager.
func NewBackupScheduler(manager *BackupManager, opts SchedulerOptions) *BackupScheduler {
	if opts.Interval <= 0 {
		opts.Interval = 24 * time.Hour
	}
	if opts.Keep <= 0 {
		opts.Keep = 10
	}
	if opts.Backup == nil {
		opts.Backup = DefaultBackupConfig()
	}
	return &BackupScheduler{manager: manager, opts: opts}
}

// Start begins the backup loop. It returns an error when already running.
func (s *BackupScheduler) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("backup scheduler already running")
	}
	s.running = true
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	if s.opts.RunAtStart {
		go s.runOnce()
	}

	go s.loop(stop)
	return nil
}

// Stop ends the backup loop. A run already in flight finishes on its own.
// Stopping an idle scheduler is a no-op.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stop)
	s.running = false
}

// IsRunning reports whether the backup loop is active.
func (s *BackupScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunNow performs one backup run synchronously, independent of the ticker.
func (s *BackupScheduler) RunNow() {
	s.runOnce()
}

func (s *BackupScheduler) loop(stop chan struct{}) {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-stop:
			return
		}
	}
}

// runOnce performs one backup plus retention pruning and records the result.
// The run fails when either the backup or the pruning fails.
func (s *BackupScheduler) runOnce() {
	path, err := s.manager.Backup(s.opts.Backup)
	if err == nil {
		err = s.prune()
	}

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastErr = err
	s.runs++
	if err != nil {
		s.failures++
	}
	s.mu.Unlock()

	if s.opts.OnComplete != nil {
		s.opts.OnComplete(path, err)
	}
}

// prune removes the oldest backups beyond the retention count.
func (s *BackupScheduler) prune() error {
	backups, err := s.manager.ListBackups(s.opts.Backup.BackupDir)
	if err != nil {
		return err
	}
	if len(backups) <= s.opts.Keep {
		return nil
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	for _, old := range backups[s.opts.Keep:] {
		if err := os.Remove(old.Path); err != nil {
			return fmt.Errorf("failed to prune backup %s: %w", old.Name, err)
		}
	}
	return nil
}

// SchedulerStatus is a snapshot of the scheduler state.
type SchedulerStatus struct {
	Running  bool
	Interval time.Duration
	LastRun  time.Time
	NextRun  time.Time
	Runs     int
	Failures int
	LastErr  error
}

// Status reports the current scheduler state. NextRun is only set while the
// loop is running and at least one run has happened.
func (s *BackupScheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SchedulerStatus{
		Running:  s.running,
		Interval: s.opts.Interval,
		LastRun:  s.lastRun,
		Runs:     s.runs,
		Failures: s.failures,
		LastErr:  s.lastErr,
	}
	if s.running && !s.lastRun.IsZero() {
		status.NextRun = s.lastRun.Add(s.opts.Interval)
	}
	return status
}
