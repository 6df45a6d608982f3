package ordo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposedTreeCatsDogs(t *testing.T) {
	m := Mapping{"a.jpg": "Cats/a.jpg", "b.jpg": "Dogs/b.jpg"}

	root := ProposedTree("photos", m)

	require.Len(t, root.Children, 2)
	cats, dogs := root.Children[0], root.Children[1]
	assert.Equal(t, "Cats", cats.Name)
	assert.True(t, cats.IsDir)
	require.Len(t, cats.Children, 1)
	assert.Equal(t, "a.jpg", cats.Children[0].Name)
	assert.Equal(t, "a.jpg", cats.Children[0].Source)
	assert.Equal(t, "Dogs", dogs.Name)
	require.Len(t, dogs.Children, 1)
	assert.Equal(t, "b.jpg", dogs.Children[0].Name)
}

func TestBuildTreeOrdersDirsBeforeFiles(t *testing.T) {
	leaves := []TreeLeaf{
		{Path: "zebra.txt", Source: "zebra.txt"},
		{Path: "Work/report.pdf", Source: "report.pdf"},
		{Path: "apple.txt", Source: "apple.txt"},
		{Path: "Archive/old.zip", Source: "old.zip"},
	}

	root := BuildTree(".", leaves)

	var names []string
	for _, c := range root.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Archive", "Work", "apple.txt", "zebra.txt"}, names)
}

func TestBuildTreeMergesSharedPrefixes(t *testing.T) {
	leaves := []TreeLeaf{
		{Path: "Docs/2024/a.pdf", Source: "a.pdf"},
		{Path: "Docs/2024/b.pdf", Source: "b.pdf"},
		{Path: "Docs/notes.txt", Source: "notes.txt"},
	}

	root := BuildTree(".", leaves)

	require.Len(t, root.Children, 1)
	docs := root.Children[0]
	assert.Equal(t, "Docs", docs.Name)
	require.Len(t, docs.Children, 2)
	year := docs.Children[0]
	assert.Equal(t, "2024", year.Name)
	assert.True(t, year.IsDir)
	require.Len(t, year.Children, 2)
	assert.Equal(t, "notes.txt", docs.Children[1].Name)
}

func TestCurrentTreeKeepsSourceNesting(t *testing.T) {
	root := CurrentTree(".", []string{"b.txt", "sub/a.txt"})

	require.Len(t, root.Children, 2)
	assert.Equal(t, "sub", root.Children[0].Name)
	assert.True(t, root.Children[0].IsDir)
	assert.Equal(t, "b.txt", root.Children[1].Name)
	assert.False(t, root.Children[1].IsDir)
}

func TestBuildTreeDeterministic(t *testing.T) {
	m := Mapping{
		"x.txt": "B/x.txt",
		"y.txt": "A/y.txt",
		"z.txt": "z-kept.txt",
	}

	first := ProposedTree(".", m)
	second := ProposedTree(".", m)

	assert.Equal(t, first, second)
}
