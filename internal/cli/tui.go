package cli

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/todo-manager/internal/app"
	"github.com/nhle/todo-manager/internal/autosave"
	"github.com/nhle/todo-manager/internal/theme"
)

// runTUI opens the session and runs the interactive list until quit.
func runTUI(cmd *cobra.Command, g *globalFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := openLog(cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	w, err := openWorkspace(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	mode, err := theme.Resolve(ctx, w.gw, cfg.Display.Theme)
	if err != nil {
		logger.Printf("tui: %v", err)
		mode = theme.Dark
	}
	theme.Apply(mode)

	draft, err := w.session.LoadDraft(ctx)
	if err != nil {
		logger.Printf("tui: %v", err)
	}

	var status string
	if w.loadErr != nil {
		status = "Saved tasks could not be read; a backup was kept"
	}

	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = "."
	}

	drafts := autosave.New(time.Duration(cfg.Autosave.DelayMS) * time.Millisecond)
	m := app.New(app.Deps{
		Session:   w.session,
		Drafts:    drafts,
		Theme:     mode,
		ExportDir: exportDir,
		Draft:     draft,
		Status:    status,
		Logger:    logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()

	// A kill or panic skips the quit path; flush whatever is still pending.
	if err := drafts.Stop(context.Background()); err != nil {
		logger.Printf("tui: flushing draft: %v", err)
	}
	return runErr
}

// openLog routes the standard logger to path via tea.LogToFile, since
// stderr belongs to the terminal UI. An empty path discards logs.
func openLog(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := tea.LogToFile(path, "todo")
	if err != nil {
		return nil, nil, err
	}
	return log.Default(), func() { _ = f.Close() }, nil
}
