package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jaakkos/lifevault/internal/domain"
)

// storeSection maps one JSON file to the Store fields it carries.
// Partitioning keeps each save from rewriting (and risking) one giant file
// and lets a corrupted section be recovered without invalidating the rest.
type storeSection struct {
	File string
	Keys []string
}

var storeSections = []storeSection{
	{File: "planning.json", Keys: []string{"cards", "goals"}},
	{File: "calendar.json", Keys: []string{"events"}},
	{File: "notes.json", Keys: []string{"notes"}},
	{File: "palettes.json", Keys: []string{"colorPalettes"}},
	{File: "habits.json", Keys: []string{"habits"}},
	{File: "finance.json", Keys: []string{"bills", "budgetCategories", "finance"}},
	{File: "crm.json", Keys: []string{"contacts"}},
	{File: "settings.json", Keys: []string{"settings", "study"}},
}

// notesSectionFile historically also held colorPalettes before they moved to
// their own section; readSections still falls back to it.
const notesSectionFile = "notes.json"

// SectionFiles returns the section file names in write order.
func SectionFiles() []string {
	files := make([]string, len(storeSections))
	for i, sec := range storeSections {
		files[i] = sec.File
	}
	return files
}

// IsStoreFile reports whether name is one of the primary store files
// (a section file or the monolith). Used by the data-dir watcher.
func IsStoreFile(name string) bool {
	if name == monolithFile {
		return true
	}
	for _, sec := range storeSections {
		if sec.File == name {
			return true
		}
	}
	return false
}

// rawFromStore flattens the store into its raw key/value document.
func rawFromStore(s *domain.Store) (map[string]json.RawMessage, error) {
	blob, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal store: %w", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("reshape store: %w", err)
	}
	return doc, nil
}

// writeSections writes one file per section, atomically. It aborts on the
// first failing section, leaving earlier sections in place; recovery
// re-derives a consistent store from the next successful save or from
// last-known-good, so no rollback is attempted here.
func writeSections(dir string, s *domain.Store) error {
	doc, err := rawFromStore(s)
	if err != nil {
		return err
	}
	for _, sec := range storeSections {
		sub := make(map[string]json.RawMessage, len(sec.Keys))
		for _, key := range sec.Keys {
			if raw, ok := doc[key]; ok {
				sub[key] = raw
			}
		}
		if err := writeJSONAtomic(filepath.Join(dir, sec.File), sub); err != nil {
			return fmt.Errorf("section %s: %w", sec.File, err)
		}
	}
	return nil
}

// readSections reads every section file present under dir and merges the
// recognized keys into one raw document. It returns nil when no section file
// parses at all (meaning "no sectioned store here", which triggers recovery
// fallthrough). In strict mode a present-but-unreadable section also returns
// nil, so a corrupted primary falls through to an intact source instead of
// silently loading with that section's data missing. Lenient mode skips
// malformed sections and salvages the rest; it is used for last-known-good
// and backup candidates where partial salvage beats another fallthrough.
func readSections(dir string, strict bool) map[string]json.RawMessage {
	merged := make(map[string]json.RawMessage)
	found := false
	var notesDoc map[string]json.RawMessage

	for _, sec := range storeSections {
		data, err := os.ReadFile(filepath.Join(dir, sec.File))
		if err != nil {
			if strict && !os.IsNotExist(err) {
				return nil
			}
			continue
		}
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			if strict {
				return nil
			}
			continue
		}
		found = true
		if sec.File == notesSectionFile {
			notesDoc = doc
		}
		for _, key := range sec.Keys {
			if raw, ok := doc[key]; ok {
				merged[key] = raw
			}
		}
	}
	if !found {
		return nil
	}

	// colorPalettes lived in the notes section before getting its own file.
	// Absent from palettes.json is not an error; look in the old location.
	if _, ok := merged["colorPalettes"]; !ok && notesDoc != nil {
		if raw, ok := notesDoc["colorPalettes"]; ok {
			merged["colorPalettes"] = raw
		}
	}
	return merged
}

// writeMonolith writes the flat single-document mirror of the whole store.
// Retained purely for backward compatibility with older on-disk formats.
func writeMonolith(path string, s *domain.Store) error {
	return writeJSONAtomic(path, s)
}

// readMonolith reads a flat store document; nil on any failure.
func readMonolith(path string) map[string]json.RawMessage {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc
}
