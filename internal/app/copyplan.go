package app

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CopyAction is one file copy decided by PlanCopy. Paths are relative to the
// source and destination roots.
type CopyAction struct {
	Src string
	Dst string
}

// PlanCopy decides, without touching the filesystem, where each source file
// lands in the destination tree. A source file whose relative path already
// exists at the destination is never overwritten; it is renamed with a
// -copyN suffix (name-copy1.ext, name-copy2.ext, ...) at the first free N.
// srcFiles are relative paths; destExisting is the set of relative paths
// already present at the destination.
func PlanCopy(srcFiles []string, destExisting map[string]bool) []CopyAction {
	taken := make(map[string]bool, len(destExisting))
	for p := range destExisting {
		taken[p] = true
	}

	actions := make([]CopyAction, 0, len(srcFiles))
	for _, src := range srcFiles {
		dst := src
		for n := 1; taken[dst]; n++ {
			dst = suffixPath(src, n)
		}
		taken[dst] = true
		actions = append(actions, CopyAction{Src: src, Dst: dst})
	}
	return actions
}

// suffixPath inserts -copyN before the extension: dir/name-copy2.ext.
func suffixPath(rel string, n int) string {
	dir := filepath.Dir(rel)
	base := filepath.Base(rel)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := fmt.Sprintf("%s-copy%d%s", stem, n, ext)
	if dir == "." {
		return name
	}
	return filepath.Join(dir, name)
}
