package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, `
database = "data/broom.db"

[ui]
accent = "#A78BFA"

[log]
level = "debug"

[search.checklists]
fields = ["name", "client.phone"]
threshold = 0.5

[search.rooms]
sort = false
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UI.Accent != "#A78BFA" {
		t.Errorf("expected accent to load, got %q", cfg.UI.Accent)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Log.Level)
	}

	p := cfg.SearchProfile(SiteChecklists)
	if p.Threshold != 0.5 {
		t.Errorf("expected threshold 0.5, got %v", p.Threshold)
	}
	if strings.Join(p.Fields, ",") != "name,client.phone" {
		t.Errorf("unexpected fields %v", p.Fields)
	}
	if !p.Sort || p.MinMatchCharLength != 1 {
		t.Errorf("expected defaults for unset keys, got %+v", p)
	}

	rooms := cfg.SearchProfile(SiteRooms)
	if rooms.Sort {
		t.Error("expected rooms sort override to be false")
	}
	if rooms.Threshold != 0.3 {
		t.Errorf("expected default threshold, got %v", rooms.Threshold)
	}

	db := ResolveDatabasePath("", path, cfg)
	if db != filepath.Join(filepath.Dir(path), "data", "broom.db") {
		t.Errorf("expected database relative to config dir, got %q", db)
	}
	if got := ResolveDatabasePath("/tmp/x.db", path, cfg); got != "/tmp/x.db" {
		t.Errorf("expected flag to win, got %q", got)
	}
}

func TestSearchProfileDefaults(t *testing.T) {
	var cfg *Config
	tests := []struct {
		site      string
		fields    string
		threshold float64
	}{
		{SiteChecklists, "name,client.name,client.address", 0.2},
		{SiteTemplates, "name,description", 0.3},
		{SiteRooms, "name,category", 0.3},
		{SiteTasks, "name,room", 0.3},
	}
	for _, tt := range tests {
		p := cfg.SearchProfile(tt.site)
		if strings.Join(p.Fields, ",") != tt.fields {
			t.Errorf("%s: expected fields %s, got %v", tt.site, tt.fields, p.Fields)
		}
		if p.Threshold != tt.threshold || !p.Sort {
			t.Errorf("%s: unexpected defaults %+v", tt.site, p)
		}
		opts := p.Options()
		if opts.Threshold != tt.threshold || !opts.ShouldSort || opts.MinMatchCharLength != 1 {
			t.Errorf("%s: unexpected options %+v", tt.site, opts)
		}
	}
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"threshold range", "[search.tasks]\nthreshold = 1.5\n", "between 0 and 1"},
		{"unknown site", "[search.clients]\nthreshold = 0.2\n", "unknown search surface"},
		{"unknown typed field", "[search.rooms]\nfields = [\"size\"]\n", "unknown field"},
		{"log level", "[log]\nlevel = \"loud\"\n", "unknown log level"},
		{"syntax", "database = ", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	threshold := 0.45
	cfg := &Config{
		Database: "  /srv/broom.db ",
		UI:       UIConfig{CodeTheme: "dracula"},
		Search: map[string]SearchConfig{
			SiteTasks: {Fields: []string{"name", "notes"}, Threshold: &threshold},
		},
	}

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if strings.Contains(string(data), "[log]") {
		t.Errorf("empty sections should be omitted:\n%s", data)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if loaded.Database != "/srv/broom.db" {
		t.Errorf("expected trimmed database path, got %q", loaded.Database)
	}
	if loaded.UI.CodeTheme != "dracula" {
		t.Errorf("expected code theme, got %q", loaded.UI.CodeTheme)
	}
	p := loaded.SearchProfile(SiteTasks)
	if p.Threshold != 0.45 || strings.Join(p.Fields, ",") != "name,notes" {
		t.Errorf("unexpected tasks profile %+v", p)
	}
}

func TestSaveToRequiresPath(t *testing.T) {
	if err := SaveTo(" ", &Config{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broom", "config.toml")

	got, err := CreateDefault(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("expected %q, got %q", path, got)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("default config should parse: %v", err)
	}
	if cfg.Database != "" || len(cfg.Search) != 0 {
		t.Errorf("default config should be all comments, got %+v", cfg)
	}

	if err := os.WriteFile(path, []byte("database = \"keep.db\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateDefault(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "keep.db") {
		t.Error("CreateDefault must not overwrite an existing config")
	}
}
