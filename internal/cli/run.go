package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nodetree/internal/config"
	"nodetree/internal/journal"
	"nodetree/internal/script"
	"nodetree/internal/session"
)

func newRunCmd(app *App) *cobra.Command {
	var (
		empty        bool
		stableIDs    bool
		withJournal  bool
		journalTail  int
		journalNode  string
		confirm      bool
		protectRoots bool
	)

	cmd := &cobra.Command{
		Use:   "run <script.yaml|->",
		Short: "Apply a YAML list of intents to a fresh session and print the result",
		Long: strings.TrimSpace(`
Runs each step against a new session, exactly as if it had been clicked in the TUI, then
prints the final forest, the final selection state and one result per step.

Run ` + "`nodetree docs scripts`" + ` for the script format.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := readScript(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			cfg, err := config.Load(app.ConfigDir)
			if err != nil {
				return writeErr(cmd, err)
			}
			if cmd.Flags().Changed("confirm") {
				cfg.Delete.Confirm = confirm
			}
			if cmd.Flags().Changed("protect-roots") {
				cfg.Delete.ProtectRoots = protectRoots
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctrl, j, err := newSession(ctx, app, cfg, newForest(empty, stableIDs))
			if err != nil {
				return writeErr(cmd, err)
			}
			defer j.Close()

			results := script.Run(ctrl, steps)
			app.logger().Info("script applied", "steps", len(results), "nodes", ctrl.Forest().Len())

			data := map[string]any{
				"forest": ctrl.Forest().Snapshot(),
				"state":  ctrl.State(),
				"steps":  results,
			}
			if withJournal || journalTail > 0 || journalNode != "" {
				entries, err := selectEntries(ctx, j, ctrl, journalNode, journalTail)
				if err != nil {
					return writeErr(cmd, err)
				}
				data["journal"] = entries
			}
			return writeOut(cmd, app, map[string]any{"data": data, "meta": runMeta(ctrl, j)})
		},
	}

	cmd.Flags().BoolVar(&empty, "empty", false, "Start from an empty forest")
	cmd.Flags().BoolVar(&stableIDs, "stable-ids", false, "Use sequential ids (node-1, node-2, ...) instead of UUIDs")
	cmd.Flags().BoolVar(&withJournal, "journal-out", false, "Include the intent journal in the output")
	cmd.Flags().IntVar(&journalTail, "journal-tail", 0, "Include only the last N journal entries (implies --journal-out)")
	cmd.Flags().StringVar(&journalNode, "journal-node", "", "Include only journal entries for a node id or label path (implies --journal-out)")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Require a second delete to confirm (overrides config)")
	cmd.Flags().BoolVar(&protectRoots, "protect-roots", false, "Refuse to delete root nodes (overrides config)")

	return cmd
}

func readScript(cmd *cobra.Command, path string) ([]script.Step, error) {
	if path == "-" {
		return script.Parse(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return script.Parse(f)
}

// selectEntries reads the journal slice asked for on the command line. A node
// reference is tried as a label path first so surviving nodes can be named by label;
// anything else is taken as an id, which also covers deleted nodes.
func selectEntries(ctx context.Context, j *journal.Journal, ctrl *session.Controller, node string, tail int) ([]journal.Entry, error) {
	var (
		entries []journal.Entry
		err     error
	)
	switch {
	case strings.TrimSpace(node) != "":
		id := strings.TrimSpace(node)
		if resolved, ok := ctrl.Forest().ResolvePath(id); ok {
			id = resolved
		}
		entries, err = j.ForNode(ctx, id)
		if err == nil && tail > 0 && len(entries) > tail {
			entries = entries[len(entries)-tail:]
		}
	case tail > 0:
		entries, err = j.Tail(ctx, tail)
	default:
		entries, err = j.Entries(ctx, 0)
	}
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return entries, nil
}

func runMeta(ctrl *session.Controller, j *journal.Journal) map[string]any {
	p := ctrl.Policy()
	return map[string]any{
		"session":      j.SessionID(),
		"version":      ctrl.Forest().Version(),
		"confirm":      p.ConfirmDelete,
		"protectRoots": p.ProtectRoots,
	}
}
