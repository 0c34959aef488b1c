package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// StorageConfig holds where the task database lives.
type StorageConfig struct {
	// Path is the SQLite database file.
	Path string `mapstructure:"path" yaml:"path"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// Theme is "light", "dark" or "" (follow the stored preference,
	// then the terminal background).
	Theme  string `mapstructure:"theme" yaml:"theme"`
	Filter string `mapstructure:"filter" yaml:"filter"`
	Sort   string `mapstructure:"sort" yaml:"sort"`

	// Locale is the BCP 47 tag used for alphabetical sorting.
	Locale string `mapstructure:"locale" yaml:"locale"`

	// GlobalCounts computes the all/pending/completed counters over the
	// whole collection instead of the currently visible tasks.
	GlobalCounts bool `mapstructure:"global_counts" yaml:"global_counts"`
}

// HistoryConfig bounds the undo history.
type HistoryConfig struct {
	// Limit is the maximum number of undo entries; 0 means unbounded.
	Limit int `mapstructure:"limit" yaml:"limit"`
}

// AutosaveConfig controls the deferred save of the add-task draft.
type AutosaveConfig struct {
	DelayMS int `mapstructure:"delay_ms" yaml:"delay_ms"`
}

// LogConfig controls where the TUI writes its log.
type LogConfig struct {
	// File is the log file path; empty disables logging in the TUI.
	File string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	History  HistoryConfig  `mapstructure:"history" yaml:"history"`
	Autosave AutosaveConfig `mapstructure:"autosave" yaml:"autosave"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

var (
	getEnv      = os.Getenv
	userHomeDir = os.UserHomeDir
)

// ConfigDir returns $XDG_CONFIG_HOME/todo, falling back to ~/.config/todo.
func ConfigDir() string {
	if xdg := getEnv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "todo")
	}
	home, err := userHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todo")
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultDBPath returns the default path for the task database.
func DefaultDBPath() string {
	return filepath.Join(ConfigDir(), "todo.db")
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{Path: DefaultDBPath()},
		Display: DisplayConfig{
			Filter: string(FilterAll),
			Sort:   string(SortNewest),
			Locale: "en",
		},
		History:  HistoryConfig{Limit: 100},
		Autosave: AutosaveConfig{DelayMS: 500},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("display.theme", d.Display.Theme)
	v.SetDefault("display.filter", d.Display.Filter)
	v.SetDefault("display.sort", d.Display.Sort)
	v.SetDefault("display.locale", d.Display.Locale)
	v.SetDefault("display.global_counts", d.Display.GlobalCounts)
	v.SetDefault("history.limit", d.History.Limit)
	v.SetDefault("autosave.delay_ms", d.Autosave.DelayMS)
	v.SetDefault("log.file", d.Log.File)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file yields the defaults. TODO_* environment variables
// (e.g. TODO_STORAGE_PATH) override file values.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("todo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values and bounds.
func (c *AppConfig) Validate() error {
	if _, err := ParseFilterMode(c.Display.Filter); err != nil {
		return err
	}
	if _, err := ParseSortMode(c.Display.Sort); err != nil {
		return err
	}
	switch c.Display.Theme {
	case "", "light", "dark":
	default:
		return fmt.Errorf("unknown theme %q (want light or dark)", c.Display.Theme)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative")
	}
	if c.Autosave.DelayMS < 0 {
		return fmt.Errorf("autosave.delay_ms must not be negative")
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("display", cfg.Display)
	v.Set("history", cfg.History)
	v.Set("autosave", cfg.Autosave)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
