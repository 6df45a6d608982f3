package ordo

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type ScanOptions struct {
	MaxDepth int      // directory levels to descend into; 0 means unlimited
	Exclude  []string // glob patterns matched against root-relative paths
}

// ResolveRoot turns the target directory argument into a verified
// absolute path.
func ResolveRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("could not resolve '%s': %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("'%s' is not a directory", dir)
	}
	return abs, nil
}

// ScanDirectory walks the tree under root once, producing both the file
// set to reorganize and the snapshot validation runs against. Excluded
// files stay in the snapshot so their paths remain protected as
// destinations; excluded directories are pruned from the walk entirely.
func ScanDirectory(root string, opts ScanOptions) ([]FileInfo, *Snapshot, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, nil, fmt.Errorf("invalid exclude pattern '%s'", pattern)
		}
	}

	var files []FileInfo
	snap := &Snapshot{Files: make(map[string]bool), Dirs: make(map[string]bool)}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == root {
				return walkErr
			}
			return nil
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			snap.Dirs[rel] = true
			if opts.MaxDepth > 0 && strings.Count(rel, "/")+1 >= opts.MaxDepth {
				return fs.SkipDir
			}
			if matchesAny(rel, opts.Exclude) {
				return fs.SkipDir
			}
			return nil
		}

		snap.Files[rel] = true
		if matchesAny(rel, opts.Exclude) || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, FileInfo{
			Path:    rel,
			Name:    d.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Ext:     strings.ToLower(filepath.Ext(d.Name())),
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, snap, nil
}

func matchesAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		// Patterns without a slash also match on the name alone, so
		// "*.log" catches logs at any depth.
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, path.Base(rel)); err == nil && ok {
				return true
			}
		}
	}
	return false
}
