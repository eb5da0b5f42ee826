// Package testutil provides reusable test utilities for broom integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/store"
)

// TestWorkspace is a temporary config file, database and file tree.
type TestWorkspace struct {
	Dir        string
	ConfigPath string
	DBPath     string

	t          *testing.T
	run        Runner
	config     string
	files      map[string]string
	checklists []model.Checklist
	templates  []model.Template
}

// NewTestWorkspace creates a workspace builder. run executes CLI commands
// in-process; it may be nil for tests that only use the database.
// Call Build() to create the files.
func NewTestWorkspace(t *testing.T, run Runner) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{
		t:     t,
		run:   run,
		files: make(map[string]string),
	}
}

// WithConfig sets the config.toml content.
func (w *TestWorkspace) WithConfig(toml string) *TestWorkspace {
	w.config = toml
	return w
}

// WithFile adds a file relative to the workspace root.
func (w *TestWorkspace) WithFile(path, content string) *TestWorkspace {
	w.files[path] = content
	return w
}

// WithChecklist stores c when the workspace is built.
func (w *TestWorkspace) WithChecklist(c model.Checklist) *TestWorkspace {
	w.checklists = append(w.checklists, c)
	return w
}

// WithTemplate stores tpl when the workspace is built.
func (w *TestWorkspace) WithTemplate(tpl model.Template) *TestWorkspace {
	w.templates = append(w.templates, tpl)
	return w
}

// Build creates the workspace directory, config, files and database.
// Returns the TestWorkspace for method chaining.
func (w *TestWorkspace) Build() *TestWorkspace {
	w.t.Helper()

	w.Dir = w.t.TempDir()
	w.ConfigPath = filepath.Join(w.Dir, "config.toml")
	w.DBPath = filepath.Join(w.Dir, "broom.db")

	if w.config != "" {
		w.writeFile("config.toml", w.config)
	}
	for path, content := range w.files {
		w.writeFile(path, content)
	}

	st := w.openStore()
	defer st.Close()
	for i := range w.checklists {
		if err := st.CreateChecklist(&w.checklists[i]); err != nil {
			w.t.Fatalf("failed to seed checklist %q: %v", w.checklists[i].Name, err)
		}
	}
	for i := range w.templates {
		if err := st.SaveTemplate(&w.templates[i]); err != nil {
			w.t.Fatalf("failed to seed template %q: %v", w.templates[i].Name, err)
		}
	}
	return w
}

// Checklists returns the seeded checklists with their assigned IDs.
func (w *TestWorkspace) Checklists() []model.Checklist {
	return w.checklists
}

// GetChecklist reads a checklist straight from the database.
func (w *TestWorkspace) GetChecklist(id string) (*model.Checklist, error) {
	w.t.Helper()
	st := w.openStore()
	defer st.Close()
	return st.GetChecklist(id)
}

func (w *TestWorkspace) openStore() *store.Store {
	w.t.Helper()
	st, err := store.Open(w.DBPath)
	if err != nil {
		w.t.Fatalf("failed to open database: %v", err)
	}
	return st
}

// writeFile writes a file to the workspace, creating directories as needed.
func (w *TestWorkspace) writeFile(relPath, content string) {
	w.t.Helper()
	fullPath := filepath.Join(w.Dir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		w.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// WriteFile writes a file after Build.
func (w *TestWorkspace) WriteFile(relPath, content string) {
	w.t.Helper()
	w.writeFile(relPath, content)
}

// ReadFile reads a file from the workspace.
func (w *TestWorkspace) ReadFile(relPath string) string {
	w.t.Helper()
	fullPath := filepath.Join(w.Dir, relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		w.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the workspace.
func (w *TestWorkspace) FileExists(relPath string) bool {
	w.t.Helper()
	_, err := os.Stat(filepath.Join(w.Dir, relPath))
	return err == nil
}

// Path returns the absolute path of relPath inside the workspace.
func (w *TestWorkspace) Path(relPath string) string {
	return filepath.Join(w.Dir, relPath)
}

// SampleChecklist returns a draft checklist with a kitchen and a bathroom.
func SampleChecklist(name, client, address string) model.Checklist {
	return model.Checklist{
		Name:   name,
		Client: model.Client{Name: client, Address: address},
		Property: model.Property{
			Type:      model.PropertyHouse,
			Bedrooms:  3,
			Bathrooms: 2,
		},
		Rooms: []model.Room{
			{Name: "Kitchen", Category: "kitchen", Tasks: []model.Task{
				{Name: "Wipe counters"},
				{Name: "Clean oven"},
				{Name: "Mop floor"},
			}},
			{Name: "Bathroom", Category: "bathroom", Tasks: []model.Task{
				{Name: "Scrub shower"},
				{Name: "Clean mirror"},
			}},
		},
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}
