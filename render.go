package ordo

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	currentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))
	proposedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
)

// RenderReport lists every validation issue, grouped the way the
// validator found them, or a single success line.
func RenderReport(r Report) string {
	if r.Valid() {
		return successStyle.Render("✓ File mapping validation successful!") + "\n"
	}

	var b strings.Builder
	b.WriteString(errorStyle.Bold(true).Render("Issues found in the proposed mapping:") + "\n")
	for _, issue := range r.Issues {
		b.WriteString(renderIssue(issue))
	}
	return b.String()
}

func renderIssue(i Issue) string {
	var b strings.Builder
	switch i.Kind {
	case UnmappedFile:
		b.WriteString(errorStyle.Render("No destination for: "+i.Sources[0]) + "\n")
	case ExtraMappingEntry:
		b.WriteString(errorStyle.Render("Not among the scanned files: "+i.Sources[0]) + "\n")
	case UnsafePath:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Unsafe destination for %s: %s", i.Sources[0], i.Detail)) + "\n")
	case DestinationCollision:
		b.WriteString(errorStyle.Render("Multiple files map to: "+i.Dest) + "\n")
		for _, src := range i.Sources {
			b.WriteString("  - " + src + "\n")
		}
	case DestinationExists:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Destination already occupied: %s (wanted by %s)", i.Dest, i.Sources[0])) + "\n")
	case AmbiguousDirectoryName:
		b.WriteString(warnStyle.Render(fmt.Sprintf("Ambiguous directory name %q: %s", i.Dest, i.Detail)) + "\n")
		for _, src := range i.Sources {
			b.WriteString("  - " + src + "\n")
		}
	}
	return b.String()
}

// RenderTreeDiff lays the current and proposed trees out side by side
// for review before the confirmation gate.
func RenderTreeDiff(current, proposed *TreeNode) string {
	left := renderPane("Current Organization", currentStyle, current)
	right := renderPane("Proposed Organization", proposedStyle, proposed)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
}

func renderPane(title string, style lipgloss.Style, root *TreeNode) string {
	t := tree.Root(style.Bold(true).Render(fmt.Sprintf("%s: %s", title, root.Name)))
	for _, c := range root.Children {
		addTreeNode(t, c, style)
	}
	t.Enumerator(tree.RoundedEnumerator)
	t.EnumeratorStyle(style)
	return t.String()
}

func addTreeNode(parent *tree.Tree, n *TreeNode, style lipgloss.Style) {
	if !n.IsDir {
		parent.Child(style.Render(n.Name))
		return
	}
	sub := tree.Root(style.Bold(true).Render(n.Name + "/"))
	for _, c := range n.Children {
		addTreeNode(sub, c, style)
	}
	parent.Child(sub)
}

// FormatSummary renders the outcome of one run.
func FormatSummary(s RunSummary) string {
	var b strings.Builder
	if s.Message != "" {
		b.WriteString(headerStyle.Render(s.Message) + "\n\n")
	}
	b.WriteString(successStyle.Render(fmt.Sprintf("Files moved: %d", s.Moved)) + "\n")
	b.WriteString(warnStyle.Render(fmt.Sprintf("Files skipped: %d", s.Skipped)) + "\n")
	for _, skip := range s.Skips {
		b.WriteString(fmt.Sprintf("  - %s -> %s: %s\n", skip.Source, skip.Dest, skip.Reason))
	}
	if s.CleanedDirs != nil {
		b.WriteString(successStyle.Render(fmt.Sprintf("Empty directories removed: %d", *s.CleanedDirs)) + "\n")
	}
	return b.String()
}
