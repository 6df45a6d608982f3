package ordo

import (
	"os"
	"path/filepath"
)

// CleanupEmptyDirs removes directories under root left empty by a
// reorganization. Children are visited before their parent, so a single
// pass also removes parents that empty out as their children go. The
// root itself is never removed. Returns the number of directories
// removed; removal failures are skipped.
func CleanupEmptyDirs(root string) int {
	return sweep(root, true)
}

func sweep(dir string, isRoot bool) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			removed += sweep(filepath.Join(dir, entry.Name()), false)
		}
	}
	if isRoot {
		return removed
	}

	// Re-list after the children were swept; the directory may have
	// emptied out just now, or gained an entry concurrently.
	rest, err := os.ReadDir(dir)
	if err != nil || len(rest) > 0 {
		return removed
	}
	if err := os.Remove(dir); err == nil {
		removed++
	}
	return removed
}
