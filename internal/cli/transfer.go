package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-manager/internal/session"
)

func newExportCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all tasks to a JSON file",
		Long: `Write all tasks to a JSON file, or to stdout when the file is "-".
Without a file, todo_data.json in the current directory is used, or a
dated name if that file already exists.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			if len(args) == 1 && args[0] == "-" {
				data, err := w.session.Export()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			path := session.ExportFileName(".", time.Now())
			if len(args) == 1 {
				path = args[0]
			}
			if err := w.session.ExportFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", w.session.Len(), path)
			return nil
		},
	}
}

func newImportCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all tasks with the contents of a JSON file",
		Long: `Replace all tasks with the contents of a JSON export. The file is
validated first; a malformed file leaves the current tasks untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			n, err := w.session.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks from %s\n", n, args[0])
			return nil
		},
	}
}
