package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/session"
	"github.com/nhle/todo-manager/internal/snapshot"
	"github.com/nhle/todo-manager/internal/store"
)

// workspace is an opened database with its loaded session.
type workspace struct {
	cfg     *model.AppConfig
	gw      *store.SQLiteStore
	session *session.Session

	// loadErr is set when the saved snapshot was unreadable and got
	// moved to the backup key.
	loadErr error
}

func (w *workspace) Close() error {
	return w.gw.Close()
}

// configFile returns the --config path or the default location.
func (g *globalFlags) configFile() string {
	if g.configPath != "" {
		return g.configPath
	}
	return model.DefaultConfigPath()
}

// loadConfig reads the config file and applies flag overrides.
func (g *globalFlags) loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(g.configFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if g.dbPath != "" {
		cfg.Storage.Path = g.dbPath
	}
	return cfg, nil
}

// open loads the config and the session for a subcommand, logging to
// the command's stderr.
func (g *globalFlags) open(cmd *cobra.Command) (*workspace, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := log.New(cmd.ErrOrStderr(), "todo: ", 0)
	return openWorkspace(cmd.Context(), cfg, logger)
}

func openWorkspace(ctx context.Context, cfg *model.AppConfig, logger *log.Logger) (*workspace, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	opts, err := session.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts.Logger = logger

	gw, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open task database: %w", err)
	}

	w := &workspace{cfg: cfg, gw: gw, session: session.New(gw, opts)}
	if err := w.session.Load(ctx); err != nil {
		if !errors.Is(err, snapshot.ErrSerialization) {
			_ = gw.Close()
			return nil, err
		}
		logger.Printf("%v (a copy was kept under %q)", err, store.KeyTasksBackup)
		w.loadErr = err
	}
	return w, nil
}
