package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/broom/internal/atomicfile"
)

type persistedConfig struct {
	Database *string                 `toml:"database,omitempty"`
	UI       *persistedUISettings    `toml:"ui,omitempty"`
	Log      *persistedLogSettings   `toml:"log,omitempty"`
	Search   map[string]SearchConfig `toml:"search,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

type persistedLogSettings struct {
	Level *string `toml:"level,omitempty"`
	File  *string `toml:"file,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the global config to a specific path atomically.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := persistedConfig{
		Database: nonEmptyPtr(cfg.Database),
	}
	if len(cfg.Search) > 0 {
		out.Search = cfg.Search
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{
			Accent:    accent,
			CodeTheme: codeTheme,
		}
	}

	level := nonEmptyPtr(cfg.Log.Level)
	file := nonEmptyPtr(cfg.Log.File)
	if level != nil || file != nil {
		out.Log = &persistedLogSettings{Level: level, File: file}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
