package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"

	"nodetree/internal/config"
	"nodetree/internal/session"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalRename
	modalHelp
)

type appModel struct {
	ctrl *session.Controller
	keys keyMap
	look lineLook
	log  *slog.Logger

	width  int
	height int

	// rows caches the flattened tree; rowsVersion is the forest version it was built from.
	rows        []treeRow
	rowsVersion uint64
	cursor      int
	offset      int

	modal modalKind
	input textinput.Model

	minibuffer string
}

func newAppModel(ctrl *session.Controller, look config.Appearance, log *slog.Logger) appModel {
	if ctrl == nil {
		ctrl = session.New(nil)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	in := textinput.New()
	in.Prompt = "Edit name: "
	in.CharLimit = 200

	m := appModel{
		ctrl:  ctrl,
		keys:  defaultKeyMap(),
		look:  lookFrom(look),
		log:   log,
		input: in,
	}
	m.refreshRows()
	return m
}

// refreshRows rebuilds the row cache when the forest changed and keeps the cursor in
// range.
func (m *appModel) refreshRows() {
	f := m.ctrl.Forest()
	if m.rows == nil || f.Version() != m.rowsVersion {
		m.rows = buildRows(f, m.look)
		m.rowsVersion = f.Version()
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToCursor()
}

// followSelection moves the cursor onto the selected node, if any.
func (m *appModel) followSelection() {
	id := m.ctrl.State().SelectedID
	if id == "" {
		return
	}
	for i, r := range m.rows {
		if r.entry.ID == id {
			m.cursor = i
			m.scrollToCursor()
			return
		}
	}
}

// rowsHeight is the number of tree rows that fit on screen; 0 means unbounded.
func (m appModel) rowsHeight() int {
	if m.height <= 0 {
		return 0
	}
	// Title, toolbar and a blank line above; a blank line and the footer below.
	h := m.height - rowsY - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (m *appModel) scrollToCursor() {
	h := m.rowsHeight()
	if h == 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if maxOff := len(m.rows) - h; m.offset > maxOff {
		m.offset = maxOff
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// rowAt returns the index of the row rendered at screen line y.
func (m appModel) rowAt(y int) (int, bool) {
	if y < rowsY {
		return 0, false
	}
	i := y - rowsY
	if h := m.rowsHeight(); h > 0 && i >= h {
		return 0, false
	}
	i += m.offset
	if i >= len(m.rows) {
		return 0, false
	}
	return i, true
}

func (m appModel) toolbarBounds() (region, bool) {
	st := m.ctrl.State()
	if !st.ToolbarVisible {
		return region{}, false
	}
	return toolbarRegion(st), true
}

func (m appModel) cursorID() string {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.cursor].entry.ID
}
