package ordo

import (
	"path"
	"sort"
	"time"
)

// FileInfo describes one file under the target root at scan time.
// Path is root-relative with forward slashes and is the file's identity
// for the rest of the run.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	Ext     string
	Summary string
}

// Mapping associates each source file path with its proposed destination,
// a root-relative forward-slash path including the file name.
type Mapping map[string]string

type MappingEntry struct {
	Source string
	Dest   string
}

// Entries returns the mapping as a slice sorted by source path.
func (m Mapping) Entries() []MappingEntry {
	entries := make([]MappingEntry, 0, len(m))
	for src, dest := range m {
		entries = append(entries, MappingEntry{Source: src, Dest: dest})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Source < entries[j].Source })
	return entries
}

// ChangesNeeded reports whether any entry maps a file somewhere other
// than its current location.
func (m Mapping) ChangesNeeded() bool {
	for src, dest := range m {
		if path.Clean(dest) != src {
			return true
		}
	}
	return false
}

type IssueKind string

const (
	UnmappedFile           IssueKind = "unmapped-file"
	ExtraMappingEntry      IssueKind = "extra-mapping-entry"
	UnsafePath             IssueKind = "unsafe-path"
	DestinationCollision   IssueKind = "destination-collision"
	DestinationExists      IssueKind = "destination-exists"
	AmbiguousDirectoryName IssueKind = "ambiguous-directory-name"
)

// Issue is one structural problem found in a proposed mapping.
type Issue struct {
	Kind    IssueKind
	Sources []string
	Dest    string
	Detail  string
}

// Report aggregates every issue found in one validation pass. An empty
// report means the mapping is safe to apply.
type Report struct {
	Issues []Issue
}

func (r Report) Valid() bool { return len(r.Issues) == 0 }

func (r *Report) add(i Issue) { r.Issues = append(r.Issues, i) }

// Snapshot is the in-memory capture of the target tree taken by the
// scanner. Validation reads only this, never the filesystem.
type Snapshot struct {
	Files map[string]bool
	Dirs  map[string]bool
}

type MoveStatus int

const (
	StatusMoved MoveStatus = iota
	StatusSkipped
)

// MoveOutcome records what happened to a single mapping entry.
type MoveOutcome struct {
	Entry  MappingEntry
	Status MoveStatus
	Reason string
}

type SkipDetail struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
	Reason string `json:"reason"`
}

// RunSummary accumulates per-entry outcomes of one move batch plus the
// optional cleanup count. CleanedDirs is nil when the sweep is disabled.
type RunSummary struct {
	Moved       int          `json:"moved"`
	Skipped     int          `json:"skipped"`
	Skips       []SkipDetail `json:"skips,omitempty"`
	CleanedDirs *int         `json:"cleaned_dirs,omitempty"`
	Message     string       `json:"message,omitempty"`
}

func (s *RunSummary) record(o MoveOutcome) {
	switch o.Status {
	case StatusMoved:
		s.Moved++
	case StatusSkipped:
		s.Skipped++
		s.Skips = append(s.Skips, SkipDetail{
			Source: o.Entry.Source,
			Dest:   o.Entry.Dest,
			Reason: o.Reason,
		})
	}
}
