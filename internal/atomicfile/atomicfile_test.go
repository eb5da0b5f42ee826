package atomicfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileCreatesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "list.md")

	if err := WriteFile(path, []byte("first"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := WriteFile(path, []byte("second"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("expected replaced content, got %q", data)
	}
}

func TestWriteKeepsOriginalOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.yaml")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := Write(path, 0, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fill error, got %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "original" {
		t.Errorf("expected original content, got %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected temp file cleanup, found %d entries", len(entries))
	}
}
