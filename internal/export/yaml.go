package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/broom/internal/model"
)

// WriteYAML encodes the full checklist.
func WriteYAML(w io.Writer, c *model.Checklist) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode checklist: %w", err)
	}
	return enc.Close()
}

// ParseYAML decodes a checklist, rejecting unknown keys.
func ParseYAML(data []byte) (*model.Checklist, error) {
	var c model.Checklist
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty checklist document")
		}
		return nil, fmt.Errorf("failed to parse checklist YAML: %w", err)
	}
	return &c, nil
}
