package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"nodetree/internal/session"
)

const (
	titleY   = 0
	toolbarY = 1
	rowsY    = 3
)

const (
	alertConfirm = "Are you sure? (press again to continue)"
	alertRoot    = "You can't delete the root node"
)

type toolbarButton struct {
	intent session.Intent
	label  string
	x0, x1 int
}

func (b toolbarButton) contains(x int) bool { return x >= b.x0 && x < b.x1 }

// layoutToolbar positions the toolbar buttons on the toolbar row. Rendering and hit
// testing both use this layout.
func layoutToolbar() []toolbarButton {
	specs := []struct {
		intent session.Intent
		label  string
	}{
		{session.IntentMoveLeft, glyphMoveLeft() + " Move left"},
		{session.IntentMoveRight, "Move right " + glyphMoveRight()},
		{session.IntentAdd, "+ Add new"},
		{session.IntentDelete, glyphDelete() + " Delete"},
		{session.IntentRename, glyphEdit() + " Edit name"},
	}
	out := make([]toolbarButton, 0, len(specs))
	x := 0
	for _, s := range specs {
		// One cell of padding on each side.
		w := xansi.StringWidth(s.label) + 2
		out = append(out, toolbarButton{intent: s.intent, label: s.label, x0: x, x1: x + w})
		x += w + 1
	}
	return out
}

func toolbarAlert(st session.State) string {
	switch {
	case st.RootBlocked:
		return alertRoot
	case st.PendingDelete:
		return alertConfirm
	default:
		return ""
	}
}

func renderToolbar(st session.State) string {
	btns := layoutToolbar()
	parts := make([]string, 0, len(btns)+1)
	for _, b := range btns {
		parts = append(parts, styleButton().Render(b.label))
	}
	line := strings.Join(parts, " ")
	if alert := toolbarAlert(st); alert != "" {
		line += " " + styleAlert().Render(alert)
	}
	return line
}

// toolbarRegion is the toolbar's rendered bounds, alert text included.
func toolbarRegion(st session.State) region {
	btns := layoutToolbar()
	x1 := btns[len(btns)-1].x1
	if alert := toolbarAlert(st); alert != "" {
		x1 += 1 + xansi.StringWidth(alert)
	}
	return region{x0: 0, y0: toolbarY, x1: x1, y1: toolbarY + 1}
}

// toolbarHit returns the button under x on the toolbar row.
func toolbarHit(x int) (toolbarButton, bool) {
	for _, b := range layoutToolbar() {
		if b.contains(x) {
			return b, true
		}
	}
	return toolbarButton{}, false
}

const addNewLabel = "+ Add new"

// addNewRegion is the standalone add button shown when the forest is empty.
func addNewRegion() region {
	return region{x0: cursorWidth, y0: rowsY, x1: cursorWidth + xansi.StringWidth(addNewLabel) + 2, y1: rowsY + 1}
}
