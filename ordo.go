package ordo

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"
)

type Config struct {
	Directory     string
	Model         string
	APIKey        string
	BaseURL       string
	Guidance      string
	MappingPath   string
	FromClipboard bool
	Exclude       []string
	MaxDepth      int
	NoSummaries   bool
	NoCleanup     bool
}

type ProgressUpdate func(current, total int)

// App wires scanning, the oracle, validation and the mover into the
// reorganization pipeline.
type App struct {
	cfg              *Config
	oracle           Oracle
	progressCallback ProgressUpdate
}

type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string { return e.Err.Error() }

// InvalidMappingError carries the full validation report when the
// proposed mapping is rejected.
type InvalidMappingError struct {
	Report Report
}

func (e *InvalidMappingError) Error() string {
	return fmt.Sprintf("mapping rejected with %d issue(s)", len(e.Report.Issues))
}

func NewApp(cfg *Config) (*App, error) {
	a := &App{cfg: cfg}
	if !a.mappingSupplied() {
		// Local endpoints run without credentials; the default cloud
		// endpoint does not.
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("no API key configured")
		}
		a.oracle = NewChatOracle(cfg.Model, cfg.APIKey, cfg.BaseURL)
	}
	return a, nil
}

func (a *App) SetProgressCallback(cb ProgressUpdate) { a.progressCallback = cb }

// SetOracle swaps out the mapping proposer, mainly for embedding and
// tests.
func (a *App) SetOracle(o Oracle) { a.oracle = o }

func (a *App) mappingSupplied() bool {
	return a.cfg.MappingPath != "" || a.cfg.FromClipboard
}

// Plan holds everything needed for review before any file is touched.
type Plan struct {
	Root     string
	Files    []FileInfo
	Mapping  Mapping
	Current  *TreeNode
	Proposed *TreeNode
}

func (p *Plan) ChangesNeeded() bool { return p.Mapping.ChangesNeeded() }

// Prepare scans the directory, obtains a mapping, validates it and
// builds the review trees. Nothing on disk is modified.
func (a *App) Prepare(ctx context.Context) (plan *Plan, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
		}
	}()

	root, err := ResolveRoot(a.cfg.Directory)
	if err != nil {
		return nil, err
	}

	files, snap, err := ScanDirectory(root, ScanOptions{MaxDepth: a.cfg.MaxDepth, Exclude: a.cfg.Exclude})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &Plan{Root: root, Mapping: Mapping{}}, nil
	}

	m, err := a.obtainMapping(ctx, root, files)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	if report := ValidateMapping(paths, m, snap); !report.Valid() {
		return nil, &InvalidMappingError{Report: report}
	}

	base := filepath.Base(root)
	return &Plan{
		Root:     root,
		Files:    files,
		Mapping:  m,
		Current:  CurrentTree(base, paths),
		Proposed: ProposedTree(base, m),
	}, nil
}

func (a *App) obtainMapping(ctx context.Context, root string, files []FileInfo) (Mapping, error) {
	if a.mappingSupplied() {
		raw, err := ReadMappingSource(a.cfg.MappingPath, a.cfg.FromClipboard)
		if err != nil {
			return nil, err
		}
		return DecodeMapping(raw)
	}

	if !a.cfg.NoSummaries {
		a.summarizeFiles(ctx, root, files)
	}
	return a.oracle.ProposeMapping(ctx, files, a.cfg.Guidance)
}

// summarizeFiles attaches captions to supported images and summaries to
// text files. A per-file failure leaves the summary empty; the file is
// still organized by name and metadata.
func (a *App) summarizeFiles(ctx context.Context, root string, files []FileInfo) {
	for i := range files {
		if ctx.Err() != nil {
			return
		}
		f := &files[i]
		switch {
		case IsCaptionable(f.Ext):
			if encoded, err := EncodeImage(root, f.Path); err == nil {
				if caption, err := a.oracle.CaptionImage(ctx, encoded, f.Ext); err == nil {
					f.Summary = caption
				}
			}
		case IsTextFile(f.Ext):
			if content, err := ExtractText(root, f.Path); err == nil && strings.TrimSpace(content) != "" {
				if summary, err := a.oracle.SummarizeText(ctx, content); err == nil {
					f.Summary = summary
				}
			}
		}
		a.reportProgress(i+1, len(files))
	}
}

// Apply executes a reviewed plan and, unless disabled, sweeps empty
// directories afterwards.
func (a *App) Apply(plan *Plan, confirmed bool) (summary RunSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
		}
	}()

	summary, err = ExecuteMoves(plan.Root, plan.Mapping, confirmed, a.reportProgress)
	if err != nil {
		return summary, err
	}

	if !a.cfg.NoCleanup {
		removed := CleanupEmptyDirs(plan.Root)
		summary.CleanedDirs = &removed
	}
	summary.Message = "Reorganization complete."
	return summary, nil
}

func (a *App) reportProgress(current, total int) {
	if a.progressCallback != nil {
		a.progressCallback(current, total)
	}
}
