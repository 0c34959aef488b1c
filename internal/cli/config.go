package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/todo-manager/internal/model"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage todo configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", g.configFile(), data)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), g.configFile())
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configFile()
			_, err := os.Stat(path)
			switch {
			case err == nil && !force:
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			case err != nil && !errors.Is(err, os.ErrNotExist):
				return err
			}

			if err := model.SaveConfig(path, model.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration value",
		Long: `Change one configuration value and save the file. Keys:
  storage.path, display.theme, display.filter, display.sort,
  display.locale, display.global_counts, history.limit,
  autosave.delay_ms, log.file`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configFile()
			cfg, err := model.LoadConfig(path)
			if err != nil {
				return err
			}
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := model.SaveConfig(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	})

	return configCmd
}

// setConfigValue assigns value to the dotted key.
func setConfigValue(cfg *model.AppConfig, key, value string) error {
	var err error
	switch key {
	case "storage.path":
		cfg.Storage.Path = value
	case "display.theme":
		cfg.Display.Theme = value
	case "display.filter":
		cfg.Display.Filter = value
	case "display.sort":
		cfg.Display.Sort = value
	case "display.locale":
		cfg.Display.Locale = value
	case "display.global_counts":
		cfg.Display.GlobalCounts, err = strconv.ParseBool(value)
	case "history.limit":
		cfg.History.Limit, err = strconv.Atoi(value)
	case "autosave.delay_ms":
		cfg.Autosave.DelayMS, err = strconv.Atoi(value)
	case "log.file":
		cfg.Log.File = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}
