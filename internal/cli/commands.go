package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/output"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new task (title can be multiple words)",
		Args:  withUsage(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.svc.Add(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			ui.OK(a.stdout, "Todo added successfully!")
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title...>",
		Short: "Rename the task with the given id",
		Args:  withUsage(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("edit", args[0])
			if err != nil {
				return err
			}
			_, known := a.svc.Get(id)
			if _, err := a.svc.Edit(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			if !known {
				a.unknownID(id)
				return nil
			}
			ui.OK(a.stdout, "Todo updated successfully!")
			return nil
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle completion of the task with the given id",
		Args:    withUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("done", args[0])
			if err != nil {
				return err
			}
			if _, ok := a.svc.Get(id); !ok {
				a.unknownID(id)
				return nil
			}
			a.svc.Toggle(cmd.Context(), id)
			ui.OK(a.stdout, "Todo status updated successfully!")
			return nil
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove the task with the given id",
		Args:    withUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0])
			if err != nil {
				return err
			}
			if _, ok := a.svc.Get(id); !ok {
				a.unknownID(id)
				return nil
			}
			a.svc.Delete(cmd.Context(), id)
			ui.OK(a.stdout, "Todo deleted successfully!")
			return nil
		},
	}
}

func (a *app) lsCmd() *cobra.Command {
	var (
		group  bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List tasks",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := a.svc.Tasks()
			if format == "" {
				ui.Panel(a.stdout, ui.Lines(tasks, group))
				return nil
			}
			if err := output.Write(a.stdout, tasks, format); err != nil {
				return usageError{err}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	cmd.Flags().StringVarP(&format, "output", "o", "", "machine output: plain, json, yaml")
	return cmd
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit tasks interactively",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ui.RunInteractive(cmd.Context(), a.svc); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}

// unknownID explains a no-op on an id that does not exist. It is not an error.
func (a *app) unknownID(id int) {
	ui.Hint(a.stderr, fmt.Sprintf("no task with id %d; run `tada ls` to see ids", id))
}
