package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AssertFileExists fails the test if the file does not exist.
func (w *TestWorkspace) AssertFileExists(relPath string) {
	w.t.Helper()
	if _, err := os.Stat(filepath.Join(w.Dir, relPath)); os.IsNotExist(err) {
		w.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (w *TestWorkspace) AssertFileNotExists(relPath string) {
	w.t.Helper()
	if _, err := os.Stat(filepath.Join(w.Dir, relPath)); err == nil {
		w.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (w *TestWorkspace) AssertFileContains(relPath, substr string) {
	w.t.Helper()
	content := w.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		w.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertChecklistExists fails the test if show cannot load id.
func (w *TestWorkspace) AssertChecklistExists(id string) {
	w.t.Helper()
	result := w.RunCLI("show", id)
	if !result.OK {
		w.t.Errorf("expected checklist to exist: %s, got error: %v", id, result.Error)
	}
}

// AssertChecklistNotExists fails the test if show can load id.
func (w *TestWorkspace) AssertChecklistNotExists(id string) {
	w.t.Helper()
	result := w.RunCLI("show", id)
	if result.OK {
		w.t.Errorf("expected checklist to not exist: %s, but it does", id)
	}
}

// AssertTaskDone checks the stored done state of a task, looked up by ID or name.
func (w *TestWorkspace) AssertTaskDone(checklistID, task string, want bool) {
	w.t.Helper()
	c, err := w.GetChecklist(checklistID)
	if err != nil {
		w.t.Fatalf("failed to load checklist %s: %v", checklistID, err)
	}
	for _, tk := range c.AllTasks() {
		if tk.ID == task || tk.Name == task {
			if tk.Done != want {
				w.t.Errorf("task %q in %s: expected done=%v, got %v", task, checklistID, want, tk.Done)
			}
			return
		}
	}
	w.t.Errorf("task %q not found in %s", task, checklistID)
}

// AssertSearchCount runs a search and verifies the result count.
func (w *TestWorkspace) AssertSearchCount(site, query string, expectedCount int) {
	w.t.Helper()
	result := w.RunCLI("search", "--in", site, query)
	result.MustSucceed(w.t)

	results := result.DataList("results")
	if len(results) != expectedCount {
		w.t.Errorf("search %s %q: expected %d results, got %d\nRaw: %s",
			site, query, expectedCount, len(results), result.RawJSON)
	}
}

// AssertHasWarning checks that the result contains a warning with the given code.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("expected warning with code %s, got warnings: %+v", code, r.Warnings)
}

// AssertNoWarnings checks that the result has no warnings.
func (r *CLIResult) AssertNoWarnings(t *testing.T) {
	t.Helper()
	if len(r.Warnings) > 0 {
		t.Errorf("expected no warnings, got: %+v", r.Warnings)
	}
}

// AssertResultCount checks that a result list has the expected count.
func (r *CLIResult) AssertResultCount(t *testing.T, key string, expected int) {
	t.Helper()
	results := r.DataList(key)
	if len(results) != expected {
		t.Errorf("expected %d %s, got %d\nRaw: %s", expected, key, len(results), r.RawJSON)
	}
}
