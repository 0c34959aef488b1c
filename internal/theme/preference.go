package theme

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-manager/internal/store"
)

// Mode is the persisted light/dark preference.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// ParseMode accepts "light" or "dark".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Light, Dark:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Toggled returns the opposite mode.
func (m Mode) Toggled() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// detectDark reports the terminal background; swapped in tests.
var detectDark = lipgloss.HasDarkBackground

// Resolve picks the active mode: an explicit override (from config)
// wins, then the stored preference, then the terminal background.
func Resolve(ctx context.Context, gw store.Gateway, override string) (Mode, error) {
	if override != "" {
		return ParseMode(override)
	}

	v, ok, err := gw.Get(ctx, store.KeyTheme)
	if err != nil {
		return "", fmt.Errorf("loading theme: %w", err)
	}
	if ok {
		if m, err := ParseMode(v); err == nil {
			return m, nil
		}
	}

	if detectDark() {
		return Dark, nil
	}
	return Light, nil
}

// Save stores the preference under its own key.
func Save(ctx context.Context, gw store.Gateway, m Mode) error {
	if err := gw.Put(ctx, store.KeyTheme, string(m)); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}

// Apply makes the adaptive colors render in mode m.
func Apply(m Mode) {
	lipgloss.SetHasDarkBackground(m == Dark)
}
