// Package cli wires the tada command tree to the task service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/exitcode"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/persist"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tasks"
	"github.com/Makepad-fr/tada/internal/ui"
	"github.com/Makepad-fr/tada/internal/validate"
)

// usageError marks bad arguments or flags.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

// configError marks configuration or storage setup failures.
type configError struct{ error }

func (e configError) Unwrap() error { return e.error }

// app is the state shared by every subcommand for one invocation.
type app struct {
	ov     config.Overrides
	cfg    *config.Config
	logger *log.Logger
	svc    *tasks.Service
	stdout io.Writer
	stderr io.Writer
}

// Execute runs the command line in args and returns an exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.svc != nil {
		if cerr := a.svc.Close(); cerr != nil && a.logger != nil {
			a.logger.Warn("close storage", "err", cerr)
		}
	}
	if err == nil {
		return exitcode.Success
	}

	var ue usageError
	var ce configError
	switch {
	case validate.IsValidation(err):
		ui.Fail(stderr, validate.Message(err))
		return exitcode.UserError
	case errors.As(err, &ue), strings.HasPrefix(err.Error(), "unknown command"):
		ui.Fail(stderr, err.Error())
		fmt.Fprintln(stderr, root.UsageString())
		return exitcode.Usage
	case errors.As(err, &ce):
		ui.Fail(stderr, err.Error())
		return exitcode.ConfigError
	default:
		ui.Fail(stderr, err.Error())
		return exitcode.ConfigError
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tada",
		Short: "tada - a tiny task list",
		Long: `tada keeps a short list of tasks on your machine.

Tasks are saved after every change, to a JSON file or a SQLite database.`,
		Example: `  tada add "Buy milk"
  tada ls
  tada done 2
  tada edit 2 "Walk the dog"
  tada rm 3`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Help()
			return usageError{errors.New("missing subcommand")}
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	f := root.PersistentFlags()
	f.StringVar(&a.ov.ConfigFile, "config", "", "config file (default $XDG_CONFIG_HOME/tada/config.toml)")
	f.StringVar(&a.ov.Backend, "backend", "", "storage backend: json, sqlite, memory")
	f.StringVar(&a.ov.DataDir, "data-dir", "", "directory holding stored tasks")
	f.StringVar(&a.ov.Slot, "slot", "", "storage slot name (default myTasks)")
	f.StringVar(&a.ov.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&a.ov.LogFormat, "log-format", "", "log format: text, json, logfmt")
	f.StringVar(&a.ov.Theme, "theme", "", "color theme: classic, neon, mono")

	root.AddCommand(
		a.addCmd(),
		a.editCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.lsCmd(),
		a.tuiCmd(),
	)
	return root
}

// setup loads configuration, opens storage, and loads the stored tasks.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.ov)
	if err != nil {
		return configError{err}
	}
	a.cfg = cfg
	a.logger = logging.FromConfig(a.stderr, cfg.LogLevel, cfg.LogFormat)
	ui.SetTheme(cfg.Theme)

	slot, err := openSlot(cfg)
	if err != nil {
		return configError{fmt.Errorf("open %s storage: %w", cfg.Backend, err)}
	}
	a.svc = tasks.New(store.New(), persist.NewBridge(slot), tasks.WithLogger(a.logger))
	// unusable stored data is logged by the service; the session goes on empty
	_ = a.svc.Open(cmd.Context())
	return nil
}

func withUsage(pa cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := pa(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func parseID(cmdName, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usageError{fmt.Errorf("%s: not a number: %s", cmdName, s)}
	}
	return n, nil
}
