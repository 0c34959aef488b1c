package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-manager/internal/model"
)

func newAddCmd(g *globalFlags) *cobra.Command {
	var priority string

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Long:  "Add a pending task. Words after the command are joined into the task text.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prio, err := model.ParsePriority(priority)
			if err != nil {
				return err
			}

			w, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			t, err := w.session.Add(cmd.Context(), strings.Join(args, " "), prio)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q [%s]\n", shortID(t.ID), t.Text, t.Priority)
			return nil
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMedium), "priority (low, medium, high)")
	return cmd
}

func newListCmd(g *globalFlags) *cobra.Command {
	var filter, sortMode, output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long:    "List tasks using the configured filter and sort unless overridden.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			w, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			if cmd.Flags().Changed("filter") {
				f, err := model.ParseFilterMode(filter)
				if err != nil {
					return err
				}
				w.session.SetFilter(f)
			}
			if cmd.Flags().Changed("sort") {
				s, err := model.ParseSortMode(sortMode)
				if err != nil {
					return err
				}
				w.session.SetSort(s)
			}

			return writeTasks(cmd.OutOrStdout(), output, w.session.Visible(), time.Now())
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "all, pending or completed")
	cmd.Flags().StringVarP(&sortMode, "sort", "s", "", "newest, oldest, priority, alphabetical or manual")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "table, json or yaml")
	return cmd
}

func newDoneCmd(g *globalFlags) *cobra.Command {
	var reopen bool

	cmd := &cobra.Command{
		Use:   "done <id>...",
		Short: "Mark tasks completed",
		Long:  "Mark tasks completed, or pending again with --reopen.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			out := cmd.OutOrStdout()
			for _, arg := range args {
				t, err := w.session.Resolve(arg)
				if err != nil {
					return err
				}
				if t.Completed != reopen {
					fmt.Fprintf(out, "%s %q is already %s\n", shortID(t.ID), t.Text, t.Status())
					continue
				}
				t, err = w.session.ToggleComplete(cmd.Context(), t.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %q is now %s\n", shortID(t.ID), t.Text, t.Status())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reopen, "reopen", false, "mark the tasks pending again")
	return cmd
}

func newEditCmd(g *globalFlags) *cobra.Command {
	var text, priority string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's text or priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("text") && !cmd.Flags().Changed("priority") {
				return fmt.Errorf("nothing to change: pass --text or --priority")
			}

			w, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			t, err := w.session.Resolve(args[0])
			if err != nil {
				return err
			}

			newText, newPrio := t.Text, t.Priority
			if cmd.Flags().Changed("text") {
				newText = text
			}
			if cmd.Flags().Changed("priority") {
				if newPrio, err = model.ParsePriority(priority); err != nil {
					return err
				}
			}

			t, err = w.session.Edit(cmd.Context(), t.ID, newText, newPrio)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %q [%s]\n", shortID(t.ID), t.Text, t.Priority)
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "new task text")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority (low, medium, high)")
	return cmd
}

func newRemoveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			for _, arg := range args {
				t, err := w.session.Resolve(arg)
				if err != nil {
					return err
				}
				if _, err := w.session.Remove(cmd.Context(), t.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %q\n", shortID(t.ID), t.Text)
			}
			return nil
		},
	}
}

func newStatsCmd(g *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task counts and productivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			w, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			stats := w.session.Stats()
			if output != outputTable {
				return writeStructured(cmd.OutOrStdout(), output, stats)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total:        %d\nCompleted:    %d\nPending:      %d\nProductivity: %d%%\n",
				stats.Total, stats.Completed, stats.Pending, stats.ProductivityPercent)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "table, json or yaml")
	return cmd
}
