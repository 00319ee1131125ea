// Package tui is the interactive tree view: it renders the forest and the contextual
// toolbar, and turns keys and mouse presses into controller intents.
package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"nodetree/internal/config"
	"nodetree/internal/session"
)

type Options struct {
	Controller *session.Controller
	Appearance config.Appearance
	Logger     *slog.Logger
}

func Run(opts Options) error {
	applyColorProfile()
	setGlyphs(parseGlyphSet(opts.Appearance.Glyphs))

	m := newAppModel(opts.Controller, opts.Appearance, opts.Logger)
	m.ctrl.Subscribe(logSelectionChanges(m.log))
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// logSelectionChanges logs transitions that move the selection or toggle the toolbar.
// Changes to the delete signals alone are left to the journal.
func logSelectionChanges(log *slog.Logger) session.Listener {
	return func(ch session.Change) {
		if !ch.SelectionChanged() && !ch.ToolbarChanged() {
			return
		}
		log.Debug("selection changed",
			"intent", string(ch.Intent),
			"outcome", ch.Outcome.String(),
			"from", ch.Before.SelectedID,
			"to", ch.After.SelectedID,
			"toolbar", ch.After.ToolbarVisible,
		)
	}
}
