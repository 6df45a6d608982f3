package ordo

import (
	"path"
	"sort"
	"strings"
)

// TreeLeaf is one file placed into a preview tree. Path locates the leaf
// within the tree being built; Source is the identity it came from.
type TreeLeaf struct {
	Path   string
	Source string
}

// TreeNode is a display-only directory tree. One is built for the current
// layout and one for the proposed layout; neither is mutated afterwards.
type TreeNode struct {
	Name     string
	Source   string
	IsDir    bool
	Children []*TreeNode
}

// BuildTree nests the given leaves under a root named title, creating
// intermediate directory nodes once per unique path prefix. Children are
// ordered directories first, then files, both alphabetically.
func BuildTree(title string, leaves []TreeLeaf) *TreeNode {
	root := &TreeNode{Name: title, IsDir: true}
	for _, leaf := range leaves {
		insertLeaf(root, path.Clean(leaf.Path), leaf.Source)
	}
	sortTree(root)
	return root
}

// CurrentTree builds the preview of the tree as it sits on disk.
func CurrentTree(title string, files []string) *TreeNode {
	leaves := make([]TreeLeaf, len(files))
	for i, f := range files {
		leaves[i] = TreeLeaf{Path: f, Source: f}
	}
	return BuildTree(title, leaves)
}

// ProposedTree builds the preview of the tree after the mapping applies.
func ProposedTree(title string, m Mapping) *TreeNode {
	entries := m.Entries()
	leaves := make([]TreeLeaf, len(entries))
	for i, e := range entries {
		leaves[i] = TreeLeaf{Path: e.Dest, Source: e.Source}
	}
	return BuildTree(title, leaves)
}

func insertLeaf(root *TreeNode, p, source string) {
	node := root
	segments := strings.Split(p, "/")
	for _, seg := range segments[:len(segments)-1] {
		node = node.childDir(seg)
	}
	node.Children = append(node.Children, &TreeNode{
		Name:   segments[len(segments)-1],
		Source: source,
	})
}

func (n *TreeNode) childDir(name string) *TreeNode {
	for _, c := range n.Children {
		if c.IsDir && c.Name == name {
			return c
		}
	}
	dir := &TreeNode{Name: name, IsDir: true}
	n.Children = append(n.Children, dir)
	return dir
}

func sortTree(n *TreeNode) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.IsDir {
			sortTree(c)
		}
	}
}
