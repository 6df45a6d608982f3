package ordo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizeWithSuppliedMapping(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "old/report.txt")

	mappingFile := filepath.Join(t.TempDir(), "mapping.json")
	mapping := `{"old/report.txt": "Documents/report.txt"}`
	require.NoError(t, os.WriteFile(mappingFile, []byte(mapping), 0o644))

	summary, err := Organize(context.Background(), Config{
		Directory:   dir,
		MappingPath: mappingFile,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Moved)
	assert.True(t, fileExists(dir, "Documents/report.txt"))
	assert.NoDirExists(t, filepath.Join(dir, "old"))
}

func TestOrganizeNoChangesNeeded(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt")

	mappingFile := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(mappingFile, []byte(`{"a.txt": "a.txt"}`), 0o644))

	summary, err := Organize(context.Background(), Config{
		Directory:   dir,
		MappingPath: mappingFile,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Moved)
	assert.Contains(t, summary.Message, "No file organization changes needed")
	assert.True(t, fileExists(dir, "a.txt"))
}

func TestOrganizeEmptyDirectory(t *testing.T) {
	summary, err := Organize(context.Background(), Config{
		Directory:   t.TempDir(),
		MappingPath: "ignored.json",
	})
	require.NoError(t, err)
	assert.Contains(t, summary.Message, "No files found")
}

func TestCheckProposalFlagsIssues(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt")
	writeTestFile(t, dir, "b.txt")

	report, err := CheckProposal(dir, `{"a.txt": "../escape.txt", "b.txt": "b.txt"}`)
	require.NoError(t, err)
	assert.False(t, report.Valid())
	assert.NotEmpty(t, issuesOf(report, UnsafePath))
}

func TestCheckProposalAcceptsValidMapping(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt")

	report, err := CheckProposal(dir, `{"a.txt": "Docs/a.txt"}`)
	require.NoError(t, err)
	assert.True(t, report.Valid())
}

func TestCheckProposalRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt")

	_, err := CheckProposal(dir, "not a mapping at all")
	require.Error(t, err)
}
