package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"nodetree/internal/session"
)

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scrollToCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.modal {
		case modalRename:
			return m.updateRename(msg)
		case modalHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Dismiss, m.keys.Quit) {
				m.modal = modalNone
			}
			return m, nil
		}
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.minibuffer = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.scrollToCursor()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.scrollToCursor()
		}
	case key.Matches(msg, m.keys.Select):
		if id := m.cursorID(); id != "" {
			m.ctrl.Select(id)
		}
	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.Dismiss()
	case key.Matches(msg, m.keys.Help):
		m.modal = modalHelp
	default:
		if in, ok := m.intentForKey(msg); ok {
			return m.dispatch(in)
		}
	}
	return m, nil
}

func (m appModel) intentForKey(msg tea.KeyMsg) (session.Intent, bool) {
	switch {
	case key.Matches(msg, m.keys.Add):
		return session.IntentAdd, true
	case key.Matches(msg, m.keys.Delete):
		return session.IntentDelete, true
	case key.Matches(msg, m.keys.Rename):
		return session.IntentRename, true
	case key.Matches(msg, m.keys.MoveLeft):
		return session.IntentMoveLeft, true
	case key.Matches(msg, m.keys.MoveRight):
		return session.IntentMoveRight, true
	}
	return "", false
}

// dispatch routes a toolbar intent, from a key or a button, to the controller.
func (m appModel) dispatch(in session.Intent) (tea.Model, tea.Cmd) {
	ctrl := m.ctrl
	switch in {
	case session.IntentAdd:
		seeding := ctrl.Forest().Empty()
		id, out := ctrl.RequestAddChild()
		if out == session.Applied {
			label, _ := ctrl.Forest().Label(id)
			m.minibuffer = "Added " + label
			if seeding {
				m.cursor = 0
			}
		} else {
			m.minibuffer = "Select a node first"
		}
	case session.IntentDelete:
		size := 0
		if sel, ok := ctrl.Selection(); ok {
			size = sel.Size()
		}
		switch ctrl.RequestDelete() {
		case session.Applied:
			m.minibuffer = fmt.Sprintf("Deleted %d node%s", size, plural(size))
		case session.DeleteArmed:
			m.minibuffer = alertConfirm
		case session.DeleteBlockedRoot:
			m.minibuffer = alertRoot
		default:
			m.minibuffer = "Select a node first"
		}
	case session.IntentRename:
		sel, ok := ctrl.Selection()
		if !ok {
			m.minibuffer = "Select a node first"
			break
		}
		m.modal = modalRename
		m.input.SetValue(sel.Label)
		m.input.CursorEnd()
		m.input.Focus()
	case session.IntentMoveLeft:
		if ctrl.RequestMoveLeft() != session.Applied {
			m.minibuffer = "Can't move further left"
		}
	case session.IntentMoveRight:
		if ctrl.RequestMoveRight() != session.Applied {
			m.minibuffer = "Can't move further right"
		}
	}
	m.refreshRows()
	m.followSelection()
	return m, nil
}

func (m appModel) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.modal = modalNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.modal = modalNone
		m.input.Blur()
		if m.ctrl.RequestRename(m.input.Value()) == session.Applied {
			m.minibuffer = "Renamed"
		}
		m.refreshRows()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.cursor > 0 {
			m.cursor--
			m.scrollToCursor()
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.scrollToCursor()
		}
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.modal != modalNone {
		if m.modal == modalHelp {
			m.modal = modalNone
		}
		return m, nil
	}
	m.minibuffer = ""

	if r, shown := m.toolbarBounds(); shown && r.contains(msg.X, msg.Y) {
		if b, ok := toolbarHit(msg.X); ok {
			return m.dispatch(b.intent)
		}
		return m, nil
	}

	ctrl := m.ctrl
	outside := outsideDismiss{
		bounds:  m.toolbarBounds,
		dismiss: func() { ctrl.Dismiss() },
	}
	outside.press(msg.X, msg.Y)

	if ctrl.Forest().Empty() {
		if addNewRegion().contains(msg.X, msg.Y) {
			return m.dispatch(session.IntentAdd)
		}
		return m, nil
	}
	if i, ok := m.rowAt(msg.Y); ok {
		m.cursor = i
		ctrl.Select(m.rows[i].entry.ID)
	}
	return m, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
