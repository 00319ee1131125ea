// Package cli wires the cobra command tree: the interactive TUI by default, plus
// scriptable commands that print JSON, EDN or YAML.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nodetree/internal/config"
	"nodetree/internal/format"
	"nodetree/internal/journal"
	"nodetree/internal/session"
	"nodetree/internal/store"
	"nodetree/internal/tui"
)

type App struct {
	ConfigDir  string
	Format     string
	PrettyJSON bool
	LogFile    string
	Debug      bool
	Journal    string

	log      *slog.Logger
	logClose func() error
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "nodetree",
		Short:        "Interactive node tree editor",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  nodetree

  # Print the initial tree
  nodetree seed --pretty

  # Replay a list of intents without a terminal
  nodetree run edits.yaml --format yaml

  # Make deletes ask for confirmation
  nodetree config set delete.confirm true
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !format.Valid(app.Format) {
			return writeErr(cmd, format.UnknownFormatError{Format: app.Format})
		}
		log, closeFn, err := newLogger(app.LogFile, app.Debug)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = log
		app.logClose = closeFn
		app.log.Debug("command start", "command", cmd.CommandPath(), "args", args)
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logClose == nil {
			return nil
		}
		return app.logClose()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr(config.EnvConfigDir, ""), "Config directory (default: user config dir/nodetree)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("NODETREE_FORMAT", "json"), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("NODETREE_LOG_FILE", ""), "Append structured JSON logs to this file")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Log at debug level")
	cmd.PersistentFlags().StringVar(&app.Journal, "journal", envOr("NODETREE_JOURNAL", ""), "SQLite file for the intent journal (default: in memory)")

	cmd.AddCommand(newSeedCmd(app))
	cmd.AddCommand(newRunCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, err := config.Load(app.ConfigDir)
	if err != nil {
		return writeErr(cmd, err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctrl, j, err := newSession(ctx, app, cfg, store.CreateInitialForest(nil))
	if err != nil {
		return writeErr(cmd, err)
	}
	defer j.Close()

	return tui.Run(tui.Options{
		Controller: ctrl,
		Appearance: cfg.Appearance,
		Logger:     app.logger(),
	})
}

// newSession opens the journal and builds a controller over f with the configured
// delete policy. The caller closes the journal.
func newSession(ctx context.Context, app *App, cfg config.Config, f *store.Forest, opts ...session.Option) (*session.Controller, *journal.Journal, error) {
	j, err := journal.Open(ctx, app.Journal)
	if err != nil {
		return nil, nil, err
	}
	log := app.logger()
	log.Debug("journal open", "session", j.SessionID(), "path", app.Journal)

	base := []session.Option{
		session.WithPolicy(cfg.Delete.Policy()),
		session.WithRecorder(j.Recorder(ctx, log)),
		session.WithLogger(log),
	}
	return session.New(f, append(base, opts...)...), j, nil
}

func (app *App) logger() *slog.Logger {
	if app.log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return app.log
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// newLogger returns a JSON slog logger appending to path, or a discarding logger when
// path is empty. The TUI owns the terminal, so logs never go to stderr.
func newLogger(path string, debug bool) (*slog.Logger, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return slog.New(slog.DiscardHandler), nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})), f.Close, nil
}
