package ordo

import (
	"context"
	"fmt"
)

// Organize runs the full pipeline without prompting. The caller is
// taken to have confirmed the changes up front.
func Organize(ctx context.Context, cfg Config) (RunSummary, error) {
	app, err := NewApp(&cfg)
	if err != nil {
		return RunSummary{}, fmt.Errorf("failed to initialize ordo: %w", err)
	}

	plan, err := app.Prepare(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	if len(plan.Files) == 0 {
		return RunSummary{Message: "No files found to organize."}, nil
	}
	if !plan.ChangesNeeded() {
		return RunSummary{Message: "No file organization changes needed."}, nil
	}
	return app.Apply(plan, true)
}

// CheckProposal decodes a raw mapping and validates it against the
// directory without touching any file.
func CheckProposal(dir, raw string) (Report, error) {
	root, err := ResolveRoot(dir)
	if err != nil {
		return Report{}, err
	}

	files, snap, err := ScanDirectory(root, ScanOptions{})
	if err != nil {
		return Report{}, err
	}

	m, err := DecodeMapping(raw)
	if err != nil {
		return Report{}, err
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return ValidateMapping(paths, m, snap), nil
}
