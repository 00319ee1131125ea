package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"nodetree/internal/docs"
)

func (m appModel) View() string {
	if m.modal == modalHelp {
		return m.viewHelp()
	}

	st := m.ctrl.State()
	lines := make([]string, 0, rowsY+len(m.rows)+2)

	title := styleTitle().Render("nodetree")
	count := m.ctrl.Forest().Len()
	title += styleMuted().Render(fmt.Sprintf("  %d node%s", count, plural(count)))
	if crumb := m.breadcrumb(); crumb != "" {
		title += "  " + crumb
	}
	lines = append(lines, title)

	if st.ToolbarVisible {
		lines = append(lines, renderToolbar(st))
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, "")

	if len(m.rows) == 0 {
		lines = append(lines, strings.Repeat(" ", cursorWidth)+styleButton().Render(addNewLabel))
	} else {
		end := len(m.rows)
		if h := m.rowsHeight(); h > 0 && m.offset+h < end {
			end = m.offset + h
		}
		for i := m.offset; i < end; i++ {
			r := m.rows[i]
			lines = append(lines, renderTreeRow(r, m.look, m.width, i == m.cursor, r.entry.ID == st.SelectedID))
		}
	}

	lines = append(lines, "", m.footer())
	return strings.Join(lines, "\n")
}

// breadcrumb is the label path of the selected node, truncated to the screen width.
func (m appModel) breadcrumb() string {
	path := m.ctrl.Forest().PathOf(m.ctrl.State().SelectedID)
	if len(path) == 0 {
		return ""
	}
	crumb := strings.Join(path, " "+glyphCrumbSep()+" ")
	if m.width > 0 {
		crumb = xansi.Truncate(crumb, m.width/2, "…")
	}
	return crumb
}

func (m appModel) footer() string {
	if m.modal == modalRename {
		return m.input.View()
	}
	if m.minibuffer != "" {
		return m.minibuffer
	}
	bindings := m.keys.footerBindings(m.ctrl.State().ToolbarVisible)
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styleMuted().Render(strings.Join(parts, "  "))
}

func (m appModel) viewHelp() string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	md, _ := docs.Get("keys")
	body := RenderMarkdown(md, w-4)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1)
	return box.Render(body) + "\n" + styleMuted().Render("?/esc: close")
}
