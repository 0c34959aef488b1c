package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-manager/internal/theme"
)

func newThemeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or set the colour theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			current, err := theme.Resolve(cmd.Context(), w.gw, "")
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), current)
				return nil
			}

			next := current.Toggled()
			if args[0] != "toggle" {
				if next, err = theme.ParseMode(args[0]); err != nil {
					return err
				}
			}
			if err := theme.Save(cmd.Context(), w.gw, next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", next)
			return nil
		},
	}
}
