package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/jaakkos/lifevault/internal/domain"
)

// Triggerable is something that can be poked after a state write (e.g. the
// data-dir watcher, so it can tell our own writes apart from external ones).
type Triggerable interface {
	Trigger()
}

// StoreService is the composition root of the persistence engine. It owns
// the Store aggregate: the UI runtime only ever sees whole stores going in
// and out of Load/Save. Operations are mutex-serialized; the service is not
// safe for concurrent external processes writing the same data directory.
type StoreService struct {
	repo    StoreRepository
	backups BackupStore
	merger  Merger
	oplog   OperationLog // optional
	logger  *log.Logger

	mu       sync.Mutex
	notifier Triggerable // optional; set via SetNotifier after construction
}

// NewStoreService returns a new StoreService.
func NewStoreService(repo StoreRepository, backups BackupStore, merger Merger, logger *log.Logger) *StoreService {
	return &StoreService{repo: repo, backups: backups, merger: merger, logger: logger}
}

// SetNotifier attaches a Triggerable that is poked after every state write.
func (s *StoreService) SetNotifier(n Triggerable) {
	s.notifier = n
}

// SetOperationLog attaches an audit log. Recording is best-effort and never
// affects the outcome of an operation.
func (s *StoreService) SetOperationLog(l OperationLog) {
	s.oplog = l
}

// Load returns the current store. It never fails: the repository resolves
// through the recovery chain and bottoms out at the empty default store.
func (s *StoreService) Load() *domain.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Load()
}

// Save replaces the primary store. The previous primary is snapshotted to
// last-known-good first, then sections and the monolith are written, then a
// throttled safety snapshot may be taken. Returns false when the primary
// write failed; the caller must treat that as "nothing durable changed"
// (recovery re-derives the store from last-known-good or a backup).
func (s *StoreService) Save(store *domain.Store) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	norm := NormalizeStore(store)

	if err := s.repo.SnapshotLastKnownGood(); err != nil {
		s.logger.Printf("Warning: last-known-good snapshot failed: %v", err)
	}
	if err := s.repo.Persist(norm); err != nil {
		s.logger.Printf("Save failed: %v", err)
		return false
	}

	if taken, err := s.backups.MaybeSafetySnapshot(); err != nil {
		s.logger.Printf("Warning: safety snapshot failed: %v", err)
	} else if taken {
		s.logger.Printf("Safety snapshot taken")
	}

	s.record("save", "")
	if s.notifier != nil {
		s.notifier.Trigger()
	}
	return true
}

// CreateBackup writes a full manual backup and returns its path.
func (s *StoreService) CreateBackup() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.backups.Create()
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	s.record("backup", path)
	return path, nil
}

// ListBackups prunes expired backups, then enumerates the remainder
// newest-first. The prune is the documented expiry sweep (once a recent
// backup exists, older-than-window backups are redundant); List itself
// stays pure.
func (s *StoreService) ListBackups() ([]BackupInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, err := s.backups.PruneExpired(); err != nil {
		s.logger.Printf("Warning: backup expiry sweep failed: %v", err)
	} else if n > 0 {
		s.logger.Printf("Expiry sweep removed %d backup(s)", n)
	}
	return s.backups.List()
}

// RestoreBackup replaces the current store (and asset folders, for
// manifested backups) with the backup at path. A safety snapshot of the
// current state is taken first, so a bad restore is itself recoverable.
func (s *StoreService) RestoreBackup(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backups.Restore(path); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	s.record("restore", path)
	if s.notifier != nil {
		s.notifier.Trigger()
	}
	return nil
}

// MergeFromOldPath imports the store recoverable from oldPath and merges it
// into the current store. Returns the number of records added.
func (s *StoreService) MergeFromOldPath(oldPath string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.merger.MergeFrom(oldPath)
	if err != nil {
		return 0, fmt.Errorf("merge from %s: %w", oldPath, err)
	}
	s.record("merge", fmt.Sprintf("%s (%d added)", oldPath, added))
	if s.notifier != nil {
		s.notifier.Trigger()
	}
	return added, nil
}

func (s *StoreService) record(op, detail string) {
	if s.oplog != nil {
		s.oplog.Record(op, detail)
	}
}
