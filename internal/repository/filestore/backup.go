package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jaakkos/lifevault/internal/app"
	"github.com/jaakkos/lifevault/internal/domain"
)

// Manifest is a backup's self-description: the relative JSON paths it
// captured and which asset folders were present at capture time. The file
// list, not the directory contents, is the authoritative description of the
// backup. Safety snapshots carry no manifest: restoring one must not imply
// anything about asset folders.
type Manifest struct {
	FormatVersion int       `json:"formatVersion"`
	CreatedAt     time.Time `json:"createdAt"`
	JSONFiles     []string  `json:"jsonFiles"`
	NotesRoot     string    `json:"notesRoot"`
	FilesRoot     string    `json:"filesRoot"`
	MeetingsRoot  string    `json:"meetingsRoot"`
}

func (m *Manifest) assetRoot(name string) string {
	switch name {
	case "notes":
		return m.NotesRoot
	case "files":
		return m.FilesRoot
	case "meetings":
		return m.MeetingsRoot
	}
	return ""
}

// Create implements app.BackupStore. The store is loaded through the
// recovery chain (not a raw read) so a manual backup taken over a damaged
// primary still captures the best recoverable state.
func (s *Store) Create() (string, error) {
	store, _ := s.load(false)

	root, err := s.backupsPath()
	if err != nil {
		return "", err
	}
	name := manualPrefix + time.Now().Format(backupTimeFormat)
	path := filepath.Join(root, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	if err := s.writeSnapshot(path, store); err != nil {
		_ = os.RemoveAll(path)
		return "", err
	}

	man := Manifest{
		FormatVersion: 1,
		CreatedAt:     time.Now(),
		JSONFiles:     append(SectionFiles(), monolithFile),
	}
	for _, asset := range assetDirs {
		live := filepath.Join(s.dir, asset)
		if _, err := os.Stat(live); err != nil {
			continue
		}
		if err := copyDirMerge(live, filepath.Join(path, asset)); err != nil {
			s.logger.Printf("Warning: backup asset copy %s: %v", asset, err)
			continue
		}
		switch asset {
		case "notes":
			man.NotesRoot = asset
		case "files":
			man.FilesRoot = asset
		case "meetings":
			man.MeetingsRoot = asset
		}
	}
	if err := writeJSONAtomic(filepath.Join(path, manifestFile), man); err != nil {
		_ = os.RemoveAll(path)
		return "", err
	}

	if err := s.pruneKind(app.BackupManual, s.opts.ManualRetention); err != nil {
		s.logger.Printf("Warning: manual backup prune: %v", err)
	}
	return path, nil
}

// writeSnapshot writes the sectioned copy plus the monolith into dir.
func (s *Store) writeSnapshot(dir string, store *domain.Store) error {
	if err := writeSections(dir, store); err != nil {
		return err
	}
	return writeMonolith(filepath.Join(dir, monolithFile), store)
}

// List implements app.BackupStore. Pure enumeration, newest first; the
// expiry sweep lives in PruneExpired so listing stays side-effect free.
func (s *Store) List() ([]app.BackupInfo, error) {
	root := filepath.Join(s.dir, backupsDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []app.BackupInfo{}, nil
		}
		return nil, fmt.Errorf("read backups dir: %w", err)
	}

	infos := make([]app.BackupInfo, 0, len(entries))
	for _, e := range entries {
		var kind app.BackupKind
		switch {
		case strings.HasPrefix(e.Name(), manualPrefix):
			kind = app.BackupManual
		case strings.HasPrefix(e.Name(), safetyPrefix):
			kind = app.BackupSafety
		default:
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(root, e.Name())
		infos = append(infos, app.BackupInfo{
			Name: e.Name(),
			Path: path,
			Date: fi.ModTime(),
			Size: dirSize(path),
			Kind: kind,
		})
	}
	app.SortBackupsNewestFirst(infos)
	return infos, nil
}

// PruneExpired implements app.BackupStore: once a backup younger than the
// expiry window exists, everything older than the window is deleted.
func (s *Store) PruneExpired() (int, error) {
	infos, err := s.List()
	if err != nil {
		return 0, err
	}
	expired := app.PlanExpiry(infos, s.opts.ExpiryWindow, time.Now())
	return s.remove(expired)
}

func (s *Store) pruneKind(kind app.BackupKind, max int) error {
	infos, err := s.List()
	if err != nil {
		return err
	}
	_, err = s.remove(app.PlanRetention(infos, kind, max))
	return err
}

func (s *Store) remove(infos []app.BackupInfo) (int, error) {
	removed := 0
	var firstErr error
	for _, b := range infos {
		if err := os.RemoveAll(b.Path); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}
	return removed, firstErr
}

// MaybeSafetySnapshot implements app.BackupStore: a lightweight snapshot
// (no asset copy, no manifest) taken at most once per throttle interval,
// tracked via the epoch-millisecond marker file.
func (s *Store) MaybeSafetySnapshot() (bool, error) {
	last := s.readSafetyMarker()
	if time.Since(last) < s.opts.SafetyMinInterval {
		return false, nil
	}
	if err := s.takeSafetySnapshot(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) takeSafetySnapshot() error {
	store, _ := s.load(false)

	root, err := s.backupsPath()
	if err != nil {
		return err
	}
	path := filepath.Join(root, safetyPrefix+time.Now().Format(backupTimeFormat))
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create safety dir: %w", err)
	}
	if err := s.writeSnapshot(path, store); err != nil {
		_ = os.RemoveAll(path)
		return err
	}
	s.writeSafetyMarker(time.Now())

	if err := s.pruneKind(app.BackupSafety, s.opts.SafetyRetention); err != nil {
		s.logger.Printf("Warning: safety snapshot prune: %v", err)
	}
	return nil
}

func (s *Store) readSafetyMarker() time.Time {
	data, err := os.ReadFile(filepath.Join(s.dir, markerFile))
	if err != nil {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func (s *Store) writeSafetyMarker(t time.Time) {
	data := []byte(strconv.FormatInt(t.UnixMilli(), 10))
	if err := os.WriteFile(filepath.Join(s.dir, markerFile), data, 0o644); err != nil {
		s.logger.Printf("Warning: write safety marker: %v", err)
	}
}

// Restore implements app.BackupStore. A safety snapshot of the current state
// is taken first (best-effort, throttle bypassed) so the pre-restore state
// is itself recoverable. Manifested backups are authoritative snapshots:
// each of notes/files/meetings is replaced wholesale from the backup, and a
// folder absent from the manifest is deleted live (it did not exist at
// capture time). Non-manifested backups carry no such claim and leave the
// asset folders untouched.
func (s *Store) Restore(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("backup not found: %w", err)
	}

	if err := s.takeSafetySnapshot(); err != nil {
		s.logger.Printf("Warning: pre-restore safety snapshot failed: %v", err)
	}

	var raw map[string]json.RawMessage
	var man *Manifest
	if info.IsDir() {
		man = readManifest(filepath.Join(path, manifestFile))
		if man != nil {
			raw = readManifestFiles(path, man)
		}
		if raw == nil {
			// No (or unreadable) manifest: treat as a plain sectioned dir.
			man = nil
			raw = readSections(path, false)
		}
		if raw == nil {
			raw = readMonolith(filepath.Join(path, monolithFile))
		}
	} else {
		raw = readMonolith(path)
	}
	if raw == nil {
		return fmt.Errorf("backup at %s contains no readable store", path)
	}

	store := app.Normalize(raw)
	if err := s.Persist(store); err != nil {
		return fmt.Errorf("persist restored store: %w", err)
	}

	if man != nil {
		for _, asset := range assetDirs {
			live := filepath.Join(s.dir, asset)
			if err := os.RemoveAll(live); err != nil {
				s.logger.Printf("Warning: clear %s for restore: %v", asset, err)
				continue
			}
			if man.assetRoot(asset) == "" {
				continue
			}
			if err := copyDirMerge(filepath.Join(path, man.assetRoot(asset)), live); err != nil {
				s.logger.Printf("Warning: restore asset %s: %v", asset, err)
			}
		}
	}
	return nil
}

// readManifest returns nil for a missing or malformed manifest.
func readManifest(path string) *Manifest {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var man Manifest
	if err := json.Unmarshal(data, &man); err != nil {
		return nil
	}
	if len(man.JSONFiles) == 0 {
		return nil
	}
	return &man
}

// readManifestFiles merges the recognized keys of every JSON file the
// manifest lists. Unreadable entries are skipped; nil when nothing parsed.
func readManifestFiles(dir string, man *Manifest) map[string]json.RawMessage {
	merged := make(map[string]json.RawMessage)
	found := false
	for _, rel := range man.JSONFiles {
		data, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			continue
		}
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			continue
		}
		found = true
		for key, raw := range doc {
			if _, exists := merged[key]; !exists {
				merged[key] = raw
			}
		}
	}
	if !found {
		return nil
	}
	return merged
}
