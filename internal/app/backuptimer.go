package app

import (
	"context"
	"log"
	"time"
)

// defaultBackupInterval is used when no interval option is given.
const defaultBackupInterval = time.Hour

// BackupTimer periodically takes a full backup. If a save or an explicit
// backup request races a tick, the snapshots are append-only, so the worst
// outcome is a duplicated backup, never lost data.
type BackupTimer struct {
	svc      *StoreService
	logger   *log.Logger
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// BackupTimerOption configures the timer.
type BackupTimerOption func(*BackupTimer)

// WithBackupInterval sets the tick interval.
func WithBackupInterval(d time.Duration) BackupTimerOption {
	return func(t *BackupTimer) { t.interval = d }
}

// NewBackupTimer creates a backup timer.
func NewBackupTimer(svc *StoreService, logger *log.Logger, opts ...BackupTimerOption) *BackupTimer {
	t := &BackupTimer{
		svc:      svc,
		logger:   logger,
		interval: defaultBackupInterval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Start runs the timer until ctx is cancelled or Stop is called.
func (t *BackupTimer) Start(ctx context.Context) {
	defer close(t.doneCh)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.runOnce()
		}
	}
}

// Stop signals the timer to stop. Call after cancelling the context passed to Start.
func (t *BackupTimer) Stop() {
	close(t.stopCh)
	<-t.doneCh
}

// RunOnce takes one backup immediately (for testing or manual trigger).
func (t *BackupTimer) RunOnce() {
	t.runOnce()
}

func (t *BackupTimer) runOnce() {
	path, err := t.svc.CreateBackup()
	if err != nil {
		t.logger.Printf("Periodic backup failed: %v", err)
		return
	}
	t.logger.Printf("Periodic backup written: %s", path)
}
