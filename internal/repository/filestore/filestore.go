// Package filestore implements the on-disk persistence engine: sectioned
// JSON files with atomic writes, a legacy monolith mirror, last-known-good
// snapshots, timestamped backups, multi-level recovery, and cross-directory
// merging. It implements the app package's StoreRepository, BackupStore and
// Merger ports.
package filestore

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	monolithFile = "store.json"

	lkgDir  = "store-last-known-good"
	lkgFile = "store-last-known-good.json"

	backupsDir   = "backups"
	manualPrefix = "store-backup-"
	safetyPrefix = "store-safety-"
	manifestFile = "backup.json"
	markerFile   = ".last-safety-backup-at"

	// storeSubdir is an alternate primary location some older installs used.
	storeSubdir = "store"

	backupTimeFormat = "2006-01-02_15-04-05.000"
)

// assetDirs are the binary folders referenced by records (a note's mdPath
// etc.) but not embedded in the JSON.
var assetDirs = []string{"notes", "files", "meetings"}

// Options carries the retention knobs, normally sourced from policy.
type Options struct {
	ManualRetention   int
	SafetyRetention   int
	SafetyMinInterval time.Duration
	ExpiryWindow      time.Duration
}

// DefaultOptions returns the stock retention policy.
func DefaultOptions() Options {
	return Options{
		ManualRetention:   50,
		SafetyRetention:   200,
		SafetyMinInterval: 2 * time.Minute,
		ExpiryWindow:      48 * time.Hour,
	}
}

// Store is the persistence engine bound to one data directory. A single
// process owns the directory; the engine does no locking of its own.
type Store struct {
	dir    string
	logger *log.Logger
	opts   Options
}

// New creates the engine and ensures the data directory exists.
func New(dir string, logger *log.Logger, opts Options) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("filestore: empty data directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create data dir: %w", err)
	}
	def := DefaultOptions()
	if opts.ManualRetention <= 0 {
		opts.ManualRetention = def.ManualRetention
	}
	if opts.SafetyRetention <= 0 {
		opts.SafetyRetention = def.SafetyRetention
	}
	if opts.SafetyMinInterval <= 0 {
		opts.SafetyMinInterval = def.SafetyMinInterval
	}
	if opts.ExpiryWindow <= 0 {
		opts.ExpiryWindow = def.ExpiryWindow
	}
	return &Store{dir: dir, logger: logger, opts: opts}, nil
}

// Dir returns the data directory root.
func (s *Store) Dir() string { return s.dir }

// backupsPath returns the backups directory, creating it if needed.
func (s *Store) backupsPath() (string, error) {
	p := filepath.Join(s.dir, backupsDir)
	if err := os.MkdirAll(p, 0o755); err != nil {
		return "", fmt.Errorf("create backups dir: %w", err)
	}
	return p, nil
}
