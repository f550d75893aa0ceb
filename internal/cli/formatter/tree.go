package formatter

import (
	"strings"

	"github.com/alexanderramin/semplan/internal/conflict"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Status conflict.Status
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items as an indented tree. Added items get a green ✔,
// fully blocked ones are dimmed with their status, and details are
// right-aligned in a badge column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		switch item.Status {
		case conflict.StatusAdded:
			title = StyleGreen.Render("✔ " + title)
		case conflict.StatusConflict, conflict.StatusFull:
			title = Dim(title) + " " + StatusIndicator(item.Status)
		}

		lines[idx].content = prefix + title
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		if w := lipgloss.Width(lines[idx].content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge == "" {
			b.WriteString(li.content + "\n")
			continue
		}
		pad := maxContentWidth - lipgloss.Width(li.content)
		b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
	}
	return b.String()
}
