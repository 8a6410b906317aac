// Package app implements application use cases and defines ports (repository interfaces).
package app

import (
	"time"

	"github.com/jaakkos/lifevault/internal/domain"
)

// StoreRepository persists the Store aggregate at the primary location.
// Implementation: internal/repository/filestore.
type StoreRepository interface {
	// Load resolves the store through the recovery chain. It never fails;
	// worst case it returns the empty default store.
	Load() *domain.Store
	// Persist writes the store as the new primary (section files + monolith).
	Persist(*domain.Store) error
	// SnapshotLastKnownGood copies the current primary aside before it is
	// overwritten by the next Persist.
	SnapshotLastKnownGood() error
}

// BackupKind distinguishes manual backups from throttled safety snapshots.
type BackupKind string

const (
	BackupManual BackupKind = "manual"
	BackupSafety BackupKind = "safety"
)

// BackupInfo describes one entry under backups/.
type BackupInfo struct {
	Name string     `json:"name"`
	Path string     `json:"path"`
	Date time.Time  `json:"date"`
	Size int64      `json:"size"`
	Kind BackupKind `json:"kind"`
}

// BackupStore manages timestamped snapshots of the data directory.
type BackupStore interface {
	// Create writes a full manual backup and prunes manual backups to the
	// configured retention. Returns the backup path.
	Create() (string, error)
	// List enumerates backups newest-first. Pure: it never deletes.
	List() ([]BackupInfo, error)
	// PruneExpired applies the expiry sweep: when the newest backup is
	// recent enough, everything older than the expiry window is deleted.
	// Returns the number of backups removed.
	PruneExpired() (int, error)
	// MaybeSafetySnapshot writes a throttled safety snapshot when the last
	// one is old enough, then prunes safety snapshots to retention.
	// Reports whether a snapshot was taken.
	MaybeSafetySnapshot() (bool, error)
	// Restore replaces the primary store (and, for manifested backups, the
	// asset folders) with the backup's contents.
	Restore(path string) error
}

// Merger imports a store recovered from an external directory.
type Merger interface {
	// MergeFrom merges oldDir's store and assets into the current data
	// directory. Returns the number of records added.
	MergeFrom(oldDir string) (int, error)
}

// OperationLog records completed operations for the audit history.
// Implementations must be best-effort: recording must never fail the
// operation it describes. Implementation: internal/journal.
type OperationLog interface {
	Record(op, detail string)
}
