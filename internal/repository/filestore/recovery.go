package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/jaakkos/lifevault/internal/app"
	"github.com/jaakkos/lifevault/internal/domain"
)

// candidate is one ranked load source in the recovery chain.
type candidate struct {
	name    string
	primary bool
	read    func() map[string]json.RawMessage
}

// Load implements app.StoreRepository. It walks the recovery chain and never
// fails: a candidate succeeds as soon as it yields a raw document (an
// empty-but-present store counts; it is the absence of recognizable content
// that triggers fallthrough, not the reasonableness of values). When a
// non-primary candidate wins, the recovered store is re-persisted to the
// primary location before returning, so the next load no longer depends on
// the damaged source.
func (s *Store) Load() *domain.Store {
	store, _ := s.load(true)
	return store
}

// load resolves the store. selfHeal controls the re-persist on non-primary
// recovery; it is off when reading foreign directories (merge) and inside
// backup creation, which must not mutate the primary as a side effect.
func (s *Store) load(selfHeal bool) (*domain.Store, bool) {
	for _, c := range s.candidates() {
		raw := c.read()
		if raw == nil {
			continue
		}
		store := app.Normalize(raw)
		if c.primary {
			return store, false
		}
		s.logger.Printf("Store recovered from %s", c.name)
		if selfHeal {
			if err := s.Persist(store); err != nil {
				s.logger.Printf("Warning: self-heal persist failed: %v", err)
			}
		}
		return store, true
	}
	s.logger.Printf("No recoverable store in %s, starting from defaults", s.dir)
	return domain.DefaultStore(), true
}

func (s *Store) candidates() []candidate {
	cands := []candidate{
		{name: "primary sections", primary: true, read: func() map[string]json.RawMessage {
			return readSections(s.dir, true)
		}},
		{name: "store/ subdirectory", read: func() map[string]json.RawMessage {
			return readSections(filepath.Join(s.dir, storeSubdir), true)
		}},
		{name: "legacy monolith", read: func() map[string]json.RawMessage {
			return readMonolith(filepath.Join(s.dir, monolithFile))
		}},
		{name: "last-known-good directory", read: func() map[string]json.RawMessage {
			return readSections(filepath.Join(s.dir, lkgDir), false)
		}},
		{name: "last-known-good file", read: func() map[string]json.RawMessage {
			return readMonolith(filepath.Join(s.dir, lkgFile))
		}},
	}
	for _, b := range s.backupCandidates() {
		cands = append(cands, b)
	}
	return cands
}

// backupCandidates lists backups newest-first; directory-shaped backups
// (sectioned) are tried before flat .json backups of the same age.
func (s *Store) backupCandidates() []candidate {
	entries, err := os.ReadDir(filepath.Join(s.dir, backupsDir))
	if err != nil {
		return nil
	}

	type entry struct {
		path  string
		isDir bool
		mtime int64
	}
	var found []entry
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, entry{
			path:  filepath.Join(s.dir, backupsDir, e.Name()),
			isDir: e.IsDir(),
			mtime: info.ModTime().UnixNano(),
		})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].mtime != found[j].mtime {
			return found[i].mtime > found[j].mtime
		}
		return found[i].isDir && !found[j].isDir
	})

	cands := make([]candidate, 0, len(found))
	for _, e := range found {
		e := e
		if e.isDir {
			cands = append(cands, candidate{name: "backup " + filepath.Base(e.path), read: func() map[string]json.RawMessage {
				if raw := readSections(e.path, false); raw != nil {
					return raw
				}
				return readMonolith(filepath.Join(e.path, monolithFile))
			}})
		} else if filepath.Ext(e.path) == ".json" {
			cands = append(cands, candidate{name: "backup " + filepath.Base(e.path), read: func() map[string]json.RawMessage {
				return readMonolith(e.path)
			}})
		}
	}
	return cands
}

// Persist implements app.StoreRepository: sections first, then the monolith
// mirror. An error means the primary may be partially updated; callers rely
// on last-known-good and the recovery chain rather than rollback.
func (s *Store) Persist(store *domain.Store) error {
	if err := writeSections(s.dir, store); err != nil {
		return err
	}
	return writeMonolith(filepath.Join(s.dir, monolithFile), store)
}

// SnapshotLastKnownGood copies the current primary files aside. Called
// before every Persist so the previous committed state survives a bad save.
// Missing primary files (first run) are a no-op.
func (s *Store) SnapshotLastKnownGood() error {
	snapDir := filepath.Join(s.dir, lkgDir)
	if err := os.MkdirAll(snapDir, 0o755); err != nil {
		return err
	}
	for _, sec := range storeSections {
		data, err := os.ReadFile(filepath.Join(s.dir, sec.File))
		if err != nil {
			continue
		}
		if err := WriteFileAtomic(filepath.Join(snapDir, sec.File), data); err != nil {
			return err
		}
	}
	if data, err := os.ReadFile(filepath.Join(s.dir, monolithFile)); err == nil {
		if err := WriteFileAtomic(filepath.Join(s.dir, lkgFile), data); err != nil {
			return err
		}
	}
	return nil
}
