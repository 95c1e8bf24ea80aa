package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cristianoliveira/condoview/internal/colors"
	"github.com/cristianoliveira/condoview/internal/config"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// Settings holds TUI user preferences persisted to disk.
//
// TOML layout:
//
//	active_tab = "pendente"
//	type_filter = "manutencao"
//	help = "short"
//
// Settings are stored at ~/.config/condoview/tui.toml
type Settings struct {
	// ActiveTab is the status tab selected when the TUI opens.
	ActiveTab domain.Tab `toml:"active_tab"`

	// TypeFilter is restored into the type filter input. Empty means no filter.
	TypeFilter string `toml:"type_filter"`

	// Help is either "short" or "full".
	Help string `toml:"help"`
}

// DefaultSettings returns settings with all default values.
func DefaultSettings() *Settings {
	return &Settings{
		ActiveTab: domain.DefaultTab(),
		Help:      HelpShort,
	}
}

// Load reads settings from the config directory.
// A missing or unreadable file yields the defaults; invalid values are
// normalized instead of rejected.
func Load() (*Settings, error) {
	config.Load()
	settingsPath := getSettingsPath()

	data, err := os.ReadFile(settingsPath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	settings := DefaultSettings()
	if err := toml.Unmarshal(data, settings); err != nil {
		colors.Warning(fmt.Sprintf("Ignoring corrupted settings file %s: %v", settingsPath, err))
		return DefaultSettings(), nil
	}
	if err := Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

// Save writes settings to the config directory, creating it if needed.
func Save(settings *Settings) error {
	config.Load()

	if err := Validate(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	settingsPath := getSettingsPath()
	if err := os.MkdirAll(filepath.Dir(settingsPath), FileModeDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// write then rename so a crash never leaves a half-written file
	tmp, err := os.CreateTemp(filepath.Dir(settingsPath), ".tui-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), FileModeFile); err != nil {
		return fmt.Errorf("failed to set settings file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), settingsPath); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
