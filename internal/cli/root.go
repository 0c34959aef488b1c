// Package cli holds the cobra commands. The bare command launches the
// terminal UI; subcommands operate on the same task database.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	dbPath     string
}

// Execute runs the root command.
func Execute(version string) error {
	root := NewRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// NewRootCmd creates the root command for the todo CLI.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "A keyboard-driven task list for the terminal",
		Long: `todo keeps a prioritised task list in a local database.

Run it without arguments to open the interactive list, or use the
subcommands to script it. Task ids may be abbreviated to any unique prefix.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, g)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default: ~/.config/todo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&g.dbPath, "db", "", "task database (overrides storage.path)")

	rootCmd.AddCommand(newAddCmd(g))
	rootCmd.AddCommand(newListCmd(g))
	rootCmd.AddCommand(newDoneCmd(g))
	rootCmd.AddCommand(newEditCmd(g))
	rootCmd.AddCommand(newRemoveCmd(g))
	rootCmd.AddCommand(newStatsCmd(g))
	rootCmd.AddCommand(newExportCmd(g))
	rootCmd.AddCommand(newImportCmd(g))
	rootCmd.AddCommand(newThemeCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))

	return rootCmd
}
