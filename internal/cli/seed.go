package cli

import (
	"github.com/spf13/cobra"

	"nodetree/internal/store"
)

func newSeedCmd(app *App) *cobra.Command {
	var (
		empty     bool
		stableIDs bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Print the tree a new session starts with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newForest(empty, stableIDs)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"nodes":  f.Len(),
				"forest": f.Snapshot(),
			}})
		},
	}

	cmd.Flags().BoolVar(&empty, "empty", false, "Start from an empty forest")
	cmd.Flags().BoolVar(&stableIDs, "stable-ids", false, "Use sequential ids (node-1, node-2, ...) instead of UUIDs")

	return cmd
}

func newForest(empty, stableIDs bool) *store.Forest {
	var gen store.IDGenerator
	if stableIDs {
		gen = store.SequentialIDs("node")
	}
	if empty {
		return store.NewForest(gen)
	}
	return store.CreateInitialForest(gen)
}
