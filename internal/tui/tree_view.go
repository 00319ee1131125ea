package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"nodetree/internal/config"
	"nodetree/internal/store"
)

// lineLook holds the display parameters for tree connectors. They never touch the tree.
type lineLook struct {
	color  string
	width  int
	gutter int
}

func lookFrom(a config.Appearance) lineLook {
	cfg := config.Config{Appearance: a}
	cfg.Normalize()
	a = cfg.Appearance
	return lineLook{color: a.LineColor, width: a.LineWidth, gutter: a.Gutter}
}

// segment is the width in cells of one indent level.
func (l lineLook) segment() int { return l.gutter + 2 }

func (l lineLook) style() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(l.color))
}

// treeRow is one rendered line of the tree: the node and its connector prefix.
type treeRow struct {
	entry  store.Entry
	prefix string
}

// buildRows flattens the forest in display order and computes each row's connector
// prefix. A level shows a vertical line while the ancestor at that depth has siblings
// still to come.
func buildRows(f *store.Forest, look lineLook) []treeRow {
	cs := connectors(look.width)
	seg := look.segment()
	var (
		lastAt []bool
		rows   = make([]treeRow, 0, f.Len())
	)
	f.Walk(func(e store.Entry) bool {
		for len(lastAt) <= e.Depth {
			lastAt = append(lastAt, false)
		}
		lastAt[e.Depth] = e.Last

		var b strings.Builder
		for lvl := 1; lvl < e.Depth; lvl++ {
			if lastAt[lvl] {
				b.WriteString(strings.Repeat(" ", seg))
			} else {
				b.WriteString(cs.vertical)
				b.WriteString(strings.Repeat(" ", seg-1))
			}
		}
		if e.Depth > 0 {
			if e.Last {
				b.WriteString(cs.last)
			} else {
				b.WriteString(cs.branch)
			}
			b.WriteString(strings.Repeat(cs.horiz, seg-2))
			b.WriteString(" ")
		}
		rows = append(rows, treeRow{entry: e, prefix: b.String()})
		return true
	})
	return rows
}

const cursorWidth = 2

// renderTreeRow renders r within width cells.
func renderTreeRow(r treeRow, look lineLook, width int, cursor, selected bool) string {
	var b strings.Builder
	if cursor {
		b.WriteString(glyphCursor() + " ")
	} else {
		b.WriteString(strings.Repeat(" ", cursorWidth))
	}
	used := cursorWidth + xansi.StringWidth(r.prefix)
	if r.prefix != "" {
		b.WriteString(look.style().Render(r.prefix))
	}
	if r.entry.Depth == 0 {
		bullet := glyphRootBullet() + " "
		b.WriteString(look.style().Render(bullet))
		used += xansi.StringWidth(bullet)
	}

	label := r.entry.Label
	if width > 0 {
		avail := width - used
		if avail < 1 {
			avail = 1
		}
		label = xansi.Truncate(label, avail, "…")
	}
	if selected {
		b.WriteString(styleSelectedRow().Render(label))
	} else {
		b.WriteString(label)
	}
	return b.String()
}
