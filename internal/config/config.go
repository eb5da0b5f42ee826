// Package config handles global broom configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the global broom configuration.
type Config struct {
	// Database is the sqlite file holding checklists and templates.
	// Relative paths resolve against the config file's directory.
	Database string `toml:"database"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`

	// Log controls diagnostic logging.
	Log LogConfig `toml:"log"`

	// Search overrides the fuzzy search settings per surface
	// (checklists, templates, rooms, tasks).
	Search map[string]SearchConfig `toml:"search"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`
}

// LogConfig controls where diagnostics go.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Defaults to warn.
	Level string `toml:"level"`

	// File additionally writes JSON logs to this path.
	File string `toml:"file"`
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/broom/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "broom", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "broom", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// DefaultDatabasePath returns $XDG_DATA_HOME/broom/broom.db, falling back to
// ~/.local/share/broom/broom.db.
func DefaultDatabasePath() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "broom", "broom.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "broom", "broom.db")
	}
	return filepath.Join(".", "broom.db")
}

// ResolveDatabasePath resolves the sqlite path with precedence:
//  1. explicitPath flag
//  2. cfg.Database (relative to the config file dir when not absolute)
//  3. DefaultDatabasePath
func ResolveDatabasePath(explicitPath, configPath string, cfg *Config) string {
	if p := strings.TrimSpace(explicitPath); p != "" {
		return expandHome(p)
	}
	if cfg != nil {
		if fromConfig := strings.TrimSpace(cfg.Database); fromConfig != "" {
			fromConfig = expandHome(fromConfig)
			if filepath.IsAbs(fromConfig) {
				return filepath.Clean(fromConfig)
			}
			return filepath.Join(filepath.Dir(ResolveConfigPath(configPath)), filepath.FromSlash(fromConfig))
		}
	}
	return DefaultDatabasePath()
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Validate checks log levels and search overrides.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	for site, sc := range c.Search {
		if err := sc.validate(site); err != nil {
			return err
		}
	}
	return nil
}

// CreateDefault creates a default config file at path if it doesn't exist.
func CreateDefault(path string) (string, error) {
	configPath := ResolveConfigPath(path)

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# broom configuration

# SQLite database holding checklists and saved templates.
# Relative paths resolve against this file's directory.
# database = "~/.local/share/broom/broom.db"

# Optional UI accent color for headers and highlights in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"

# Diagnostic logging (debug, info, warn, error). --debug forces debug.
# [log]
# level = "warn"
# file = "~/.local/state/broom/broom.log"

# Fuzzy search per surface: checklists, templates, rooms, tasks.
# threshold is the minimum score (0-1) a result needs. It defaults to 0.2
# for checklists and 0.3 for the other surfaces.
# [search.checklists]
# fields = ["name", "client.name", "client.address"]
# threshold = 0.2
# min_match_char_length = 1
# sort = true
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}
