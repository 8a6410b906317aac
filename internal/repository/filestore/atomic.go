package filestore

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteFileAtomic writes data to path via a temporary sibling and a rename,
// so the final path is never observed half-written. On any failure the
// temporary file is removed and the prior content of path (or its absence)
// is unchanged: callers treat an error as "nothing changed on disk".
func WriteFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// writeJSONAtomic marshals v indented (the files are meant to be
// human-inspectable) and writes it atomically.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return WriteFileAtomic(path, data)
}
