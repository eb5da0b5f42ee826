// Package export writes checklists as markdown or YAML and reads them back.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/broom/internal/atomicfile"
	"github.com/aidanlsb/broom/internal/model"
)

// Format is a checklist file format.
type Format string

const (
	Markdown Format = "md"
	YAML     Format = "yaml"
)

// ParseFormat accepts md, markdown, yaml and yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return Markdown, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown format %q (expected md or yaml)", s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %s", path)
	}
	return ParseFormat(ext)
}

// Write renders c in format f.
func Write(w io.Writer, c *model.Checklist, f Format) error {
	switch f {
	case Markdown:
		return WriteMarkdown(w, c)
	case YAML:
		return WriteYAML(w, c)
	}
	return fmt.Errorf("unknown format %q", f)
}

// Render returns c rendered in format f.
func Render(c *model.Checklist, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, c, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToFile writes c to path atomically. An empty format is inferred from the extension.
func ToFile(path string, c *model.Checklist, f Format) error {
	if f == "" {
		var err error
		if f, err = FormatFromPath(path); err != nil {
			return err
		}
	}
	return atomicfile.Write(path, 0o644, func(w io.Writer) error {
		return Write(w, c, f)
	})
}

// Parse reads a checklist in format f.
func Parse(data []byte, f Format) (*model.Checklist, error) {
	var (
		c   *model.Checklist
		err error
	)
	switch f {
	case Markdown:
		c, err = ParseMarkdown(data)
	case YAML:
		c, err = ParseYAML(data)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid checklist: %w", err)
	}
	return c, nil
}

// ReadFile parses a checklist file, inferring the format from its extension.
func ReadFile(path string) (*model.Checklist, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	c, err := Parse(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}
