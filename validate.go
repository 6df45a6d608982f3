package ordo

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// ValidateMapping checks a proposed mapping against the scanned file set
// and the tree snapshot. All checks run over the whole mapping so the
// report surfaces every problem at once. Pure: the snapshot is the only
// view of the tree, nothing here touches the filesystem.
func ValidateMapping(files []string, m Mapping, snap *Snapshot) Report {
	var report Report

	scanned := append([]string(nil), files...)
	sort.Strings(scanned)
	entries := m.Entries()

	fileSet := make(map[string]bool, len(files))
	for _, f := range files {
		fileSet[f] = true
	}

	for _, f := range scanned {
		if _, ok := m[f]; !ok {
			report.add(Issue{Kind: UnmappedFile, Sources: []string{f}})
		}
	}

	for _, e := range entries {
		if !fileSet[e.Source] {
			report.add(Issue{Kind: ExtraMappingEntry, Sources: []string{e.Source}, Dest: e.Dest})
		}
	}

	for _, e := range entries {
		if err := CheckDestination(e.Dest); err != nil {
			report.add(Issue{Kind: UnsafePath, Sources: []string{e.Source}, Dest: e.Dest, Detail: err.Error()})
		}
	}

	byDest := make(map[string][]string)
	for _, e := range entries {
		clean := path.Clean(e.Dest)
		byDest[clean] = append(byDest[clean], e.Source)
	}
	dests := make([]string, 0, len(byDest))
	for dest := range byDest {
		dests = append(dests, dest)
	}
	sort.Strings(dests)
	for _, dest := range dests {
		if srcs := byDest[dest]; len(srcs) > 1 {
			sort.Strings(srcs)
			report.add(Issue{Kind: DestinationCollision, Sources: srcs, Dest: dest})
		}
	}

	for _, e := range entries {
		clean := path.Clean(e.Dest)
		if snap.Files[clean] && clean != e.Source {
			report.add(Issue{Kind: DestinationExists, Sources: []string{e.Source}, Dest: e.Dest})
		}
	}

	report.Issues = append(report.Issues, ambiguousTopDirs(entries, snap)...)

	return report
}

// ambiguousTopDirs flags proposed top-level directory names that differ
// only by case from an existing entry or from another proposed name.
// Creating such a directory on a case-insensitive filesystem would
// silently merge two trees the operator reviewed as distinct.
func ambiguousTopDirs(entries []MappingEntry, snap *Snapshot) []Issue {
	existing := topLevelNames(snap)

	newTops := make(map[string][]string)
	for _, e := range entries {
		clean := path.Clean(e.Dest)
		top, _, nested := strings.Cut(clean, "/")
		if !nested || top == "" || top == "." || top == ".." {
			continue
		}
		if snap.Dirs[top] {
			continue
		}
		newTops[top] = append(newTops[top], e.Source)
	}

	tops := make([]string, 0, len(newTops))
	for top := range newTops {
		tops = append(tops, top)
	}
	sort.Strings(tops)

	var issues []Issue
	for i, top := range tops {
		for _, name := range existing {
			if name != top && strings.EqualFold(name, top) {
				srcs := append([]string(nil), newTops[top]...)
				sort.Strings(srcs)
				issues = append(issues, Issue{
					Kind:    AmbiguousDirectoryName,
					Sources: srcs,
					Dest:    top,
					Detail:  fmt.Sprintf("differs only by case from existing %q", name),
				})
			}
		}
		for _, other := range tops[i+1:] {
			if strings.EqualFold(other, top) {
				srcs := append(append([]string(nil), newTops[top]...), newTops[other]...)
				sort.Strings(srcs)
				issues = append(issues, Issue{
					Kind:    AmbiguousDirectoryName,
					Sources: srcs,
					Dest:    top,
					Detail:  fmt.Sprintf("differs only by case from proposed %q", other),
				})
			}
		}
	}
	return issues
}

func topLevelNames(snap *Snapshot) []string {
	seen := make(map[string]bool)
	for d := range snap.Dirs {
		if !strings.Contains(d, "/") {
			seen[d] = true
		}
	}
	for f := range snap.Files {
		if !strings.Contains(f, "/") {
			seen[f] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
