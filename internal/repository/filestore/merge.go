package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jaakkos/lifevault/internal/app"
)

// MergeFrom implements app.Merger: recover whatever store oldDir holds,
// merge it additively into the current store, persist the result as the new
// primary, then copy the old directory's asset trees and unrecognized
// top-level entries across without ever overwriting a same-named file.
func (s *Store) MergeFrom(oldDir string) (int, error) {
	oldAbs, err := filepath.Abs(oldDir)
	if err != nil {
		return 0, fmt.Errorf("resolve old dir: %w", err)
	}
	curAbs, err := filepath.Abs(s.dir)
	if err != nil {
		return 0, fmt.Errorf("resolve data dir: %w", err)
	}
	if oldAbs == curAbs {
		return 0, fmt.Errorf("old directory is the current data directory")
	}
	if _, err := os.Stat(oldAbs); err != nil {
		return 0, fmt.Errorf("old directory: %w", err)
	}

	current, _ := s.load(false)

	// A read-only view over the old directory: same recovery chain, but
	// no self-heal writes into a directory we do not own.
	oldView := &Store{dir: oldAbs, logger: s.logger, opts: s.opts}
	oldStore, _ := oldView.load(false)

	merged, added := app.MergeStores(current, oldStore)
	if err := s.Persist(merged); err != nil {
		return 0, fmt.Errorf("persist merged store: %w", err)
	}

	s.copyOldEntries(oldAbs)

	// Keep the old monolith around as a manual backup artifact; flat .json
	// backups are valid recovery candidates.
	if _, err := os.Stat(filepath.Join(oldAbs, monolithFile)); err == nil {
		if root, err := s.backupsPath(); err == nil {
			name := manualPrefix + time.Now().Format(backupTimeFormat) + "-import.json"
			if err := copyFile(filepath.Join(oldAbs, monolithFile), filepath.Join(root, name)); err != nil {
				s.logger.Printf("Warning: import old monolith as backup: %v", err)
			}
		}
	}

	return added, nil
}

// copyOldEntries copies the known asset trees plus any unrecognized
// top-level entries from oldDir into the data dir. Conflicts get a -copyN
// suffix; the plan is computed first, then executed best-effort.
func (s *Store) copyOldEntries(oldDir string) {
	var srcFiles []string
	for _, top := range s.mergeCopyRoots(oldDir) {
		for _, rel := range listTreeFiles(filepath.Join(oldDir, top)) {
			srcFiles = append(srcFiles, filepath.Join(top, rel))
		}
	}
	if len(srcFiles) == 0 {
		return
	}

	destExisting := make(map[string]bool)
	for _, top := range s.mergeCopyRoots(oldDir) {
		for _, rel := range listTreeFiles(filepath.Join(s.dir, top)) {
			destExisting[filepath.Join(top, rel)] = true
		}
	}

	for _, action := range app.PlanCopy(srcFiles, destExisting) {
		src := filepath.Join(oldDir, action.Src)
		dst := filepath.Join(s.dir, action.Dst)
		if err := copyFile(src, dst); err != nil {
			s.logger.Printf("Warning: merge copy %s: %v", action.Src, err)
		}
	}
}

// mergeCopyRoots returns the top-level entries of oldDir worth copying: the
// known asset directories plus anything this engine does not recognize as
// store machinery (section files, monolith, last-known-good, markers, the
// operation journal).
func (s *Store) mergeCopyRoots(oldDir string) []string {
	skip := map[string]bool{
		monolithFile: true,
		lkgDir:       true,
		lkgFile:      true,
		markerFile:   true,
	}
	for _, f := range SectionFiles() {
		skip[f] = true
	}

	var roots []string
	entries, err := os.ReadDir(oldDir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		name := e.Name()
		if skip[name] || isJournalFile(name) {
			continue
		}
		roots = append(roots, name)
	}
	return roots
}

func isJournalFile(name string) bool {
	switch name {
	case "journal.sqlite", "journal.sqlite-wal", "journal.sqlite-shm":
		return true
	}
	return false
}
