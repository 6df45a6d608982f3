package ordo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOracle struct {
	mapping      Mapping
	proposeErr   error
	captionCalls int
	summaryCalls int
	proposeCalls int
	gotFiles     []FileInfo
	gotGuidance  string
}

func (f *fakeOracle) CaptionImage(_ context.Context, _, _ string) (string, error) {
	f.captionCalls++
	return "a photo", nil
}

func (f *fakeOracle) SummarizeText(_ context.Context, _ string) (string, error) {
	f.summaryCalls++
	return "some notes", nil
}

func (f *fakeOracle) ProposeMapping(_ context.Context, files []FileInfo, guidance string) (Mapping, error) {
	f.proposeCalls++
	f.gotFiles = files
	f.gotGuidance = guidance
	if f.proposeErr != nil {
		return nil, f.proposeErr
	}
	return f.mapping, nil
}

func TestAppPrepareAndApply(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "cat1.jpg")
	writeTestFile(t, dir, "dog1.jpg")
	writeTestFile(t, dir, "notes.txt")

	fake := &fakeOracle{mapping: Mapping{
		"cat1.jpg":  "Cats/cat1.jpg",
		"dog1.jpg":  "Dogs/dog1.jpg",
		"notes.txt": "notes.txt",
	}}

	app, err := NewApp(&Config{Directory: dir, APIKey: "test"})
	require.NoError(t, err)
	app.SetOracle(fake)

	plan, err := app.Prepare(context.Background())
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.True(t, plan.ChangesNeeded())
	assert.Equal(t, 2, fake.captionCalls)
	assert.Equal(t, 1, fake.summaryCalls)
	require.Len(t, fake.gotFiles, 3)
	assert.Equal(t, "a photo", fake.gotFiles[0].Summary)

	summary, err := app.Apply(plan, true)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Moved)
	assert.Equal(t, 0, summary.Skipped)
	require.NotNil(t, summary.CleanedDirs)
	assert.Equal(t, 0, *summary.CleanedDirs)
	assert.True(t, fileExists(dir, "Cats/cat1.jpg"))
	assert.True(t, fileExists(dir, "Dogs/dog1.jpg"))
	assert.True(t, fileExists(dir, "notes.txt"))
}

func TestAppPrepareRejectsIncompleteMapping(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt")
	writeTestFile(t, dir, "b.txt")

	fake := &fakeOracle{mapping: Mapping{"a.txt": "Docs/a.txt"}}
	app, err := NewApp(&Config{Directory: dir, APIKey: "test", NoSummaries: true})
	require.NoError(t, err)
	app.SetOracle(fake)

	_, err = app.Prepare(context.Background())
	var invalid *InvalidMappingError
	require.ErrorAs(t, err, &invalid)
	issues := issuesOf(invalid.Report, UnmappedFile)
	require.Len(t, issues, 1)
	assert.Equal(t, []string{"b.txt"}, issues[0].Sources)
}

func TestAppMappingFromFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt")

	mappingFile := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(mappingFile, []byte(`{"a.txt": "Docs/a.txt"}`), 0o644))

	app, err := NewApp(&Config{Directory: dir, MappingPath: mappingFile})
	require.NoError(t, err)

	plan, err := app.Prepare(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Docs/a.txt", plan.Mapping["a.txt"])
}

func TestAppPrepareEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeOracle{}
	app, err := NewApp(&Config{Directory: dir, APIKey: "test"})
	require.NoError(t, err)
	app.SetOracle(fake)

	plan, err := app.Prepare(context.Background())
	require.NoError(t, err)
	assert.Empty(t, plan.Files)
	assert.False(t, plan.ChangesNeeded())
	assert.Zero(t, fake.proposeCalls)
}

func TestAppNoSummariesSkipsOracleReads(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt")

	fake := &fakeOracle{mapping: Mapping{"a.txt": "a.txt"}}
	app, err := NewApp(&Config{
		Directory:   dir,
		APIKey:      "test",
		Guidance:    "group by subject",
		NoSummaries: true,
	})
	require.NoError(t, err)
	app.SetOracle(fake)

	_, err = app.Prepare(context.Background())
	require.NoError(t, err)
	assert.Zero(t, fake.captionCalls)
	assert.Zero(t, fake.summaryCalls)
	assert.Equal(t, 1, fake.proposeCalls)
	assert.Equal(t, "group by subject", fake.gotGuidance)
}

func TestAppApplyRefusesUnconfirmed(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt")

	mappingFile := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(mappingFile, []byte(`{"a.txt": "Docs/a.txt"}`), 0o644))

	app, err := NewApp(&Config{Directory: dir, MappingPath: mappingFile})
	require.NoError(t, err)
	plan, err := app.Prepare(context.Background())
	require.NoError(t, err)

	_, err = app.Apply(plan, false)
	require.ErrorIs(t, err, ErrNotConfirmed)
	assert.True(t, fileExists(dir, "a.txt"))
	assert.False(t, fileExists(dir, "Docs/a.txt"))
}

func TestAppApplyNoCleanupKeepsEmptiedDirs(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "old/a.txt")

	mappingFile := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(mappingFile, []byte(`{"old/a.txt": "New/a.txt"}`), 0o644))

	app, err := NewApp(&Config{Directory: dir, MappingPath: mappingFile, NoCleanup: true})
	require.NoError(t, err)
	plan, err := app.Prepare(context.Background())
	require.NoError(t, err)

	summary, err := app.Apply(plan, true)
	require.NoError(t, err)
	assert.Nil(t, summary.CleanedDirs)

	info, statErr := os.Stat(filepath.Join(dir, "old"))
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestNewAppRequiresKeyWithoutMapping(t *testing.T) {
	_, err := NewApp(&Config{Directory: "."})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewAppAllowsKeylessLocalEndpoint(t *testing.T) {
	_, err := NewApp(&Config{Directory: ".", BaseURL: "http://localhost:11434"})
	require.NoError(t, err)
}
