package ordo

import (
	"errors"
	"os"
	"path"
	"path/filepath"
)

// ErrNotConfirmed is returned by ExecuteMoves when the confirmation gate
// was not passed. Nothing on disk is touched in that case.
var ErrNotConfirmed = errors.New("reorganization not confirmed")

// ExecuteMoves applies a validated mapping under root. Entries are
// processed in source-path order so runs are reproducible. A failing
// entry is recorded as a skip and the batch continues; the returned
// summary always satisfies Moved+Skipped == len(m).
func ExecuteMoves(root string, m Mapping, confirmed bool, progress func(done, total int)) (RunSummary, error) {
	var summary RunSummary
	if !confirmed {
		return summary, ErrNotConfirmed
	}

	entries := m.Entries()
	for i, e := range entries {
		summary.record(moveOne(root, e))
		if progress != nil {
			progress(i+1, len(entries))
		}
	}
	return summary, nil
}

func moveOne(root string, e MappingEntry) MoveOutcome {
	if path.Clean(e.Dest) == e.Source {
		return MoveOutcome{Entry: e, Status: StatusMoved}
	}

	src := filepath.Join(root, filepath.FromSlash(e.Source))
	dst := filepath.Join(root, filepath.FromSlash(e.Dest))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return MoveOutcome{Entry: e, Status: StatusSkipped, Reason: err.Error()}
	}
	// Validation ruled out collisions against the snapshot, but the world
	// may have changed since. An occupied destination is a skip, never an
	// overwrite.
	if _, err := os.Lstat(dst); err == nil {
		return MoveOutcome{Entry: e, Status: StatusSkipped, Reason: "destination already exists"}
	}
	if err := os.Rename(src, dst); err != nil {
		return MoveOutcome{Entry: e, Status: StatusSkipped, Reason: err.Error()}
	}
	return MoveOutcome{Entry: e, Status: StatusMoved}
}
