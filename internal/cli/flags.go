package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/aidanlsb/broom/internal/config"
	"github.com/aidanlsb/broom/internal/export"
	"github.com/aidanlsb/broom/internal/model"
)

var (
	_ pflag.Value = (*formatFlag)(nil)
	_ pflag.Value = (*statusFlag)(nil)
	_ pflag.Value = (*siteFlag)(nil)
	_ pflag.Value = (*propertyFlag)(nil)
)

// formatFlag is an export format. Empty means infer from the output path.
type formatFlag struct{ format export.Format }

func (f *formatFlag) String() string { return string(f.format) }
func (f *formatFlag) Type() string   { return "format" }

func (f *formatFlag) Set(s string) error {
	if s == "" {
		f.format = ""
		return nil
	}
	format, err := export.ParseFormat(s)
	if err != nil {
		return err
	}
	f.format = format
	return nil
}

// statusFlag filters by checklist status.
type statusFlag struct{ status model.Status }

func (f *statusFlag) String() string { return string(f.status) }
func (f *statusFlag) Type() string   { return "status" }

func (f *statusFlag) Set(s string) error {
	status := model.Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch status {
	case "", model.StatusDraft, model.StatusInProgress, model.StatusCompleted:
		f.status = status
		return nil
	}
	return fmt.Errorf("must be one of draft, in_progress, completed")
}

// siteFlag is a search surface name.
type siteFlag struct{ site string }

func (f *siteFlag) String() string { return f.site }
func (f *siteFlag) Type() string   { return "surface" }

func (f *siteFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		f.site = config.SiteChecklists
		return nil
	}
	if !slices.Contains(config.Sites(), s) {
		return fmt.Errorf("must be one of %s", strings.Join(config.Sites(), ", "))
	}
	f.site = s
	return nil
}

// propertyFlag is a property type.
type propertyFlag struct{ kind model.PropertyType }

func (f *propertyFlag) String() string { return string(f.kind) }
func (f *propertyFlag) Type() string   { return "type" }

func (f *propertyFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		f.kind = ""
		return nil
	}
	if !slices.Contains(model.PropertyTypes, model.PropertyType(s)) {
		return fmt.Errorf("must be one of house, apartment, office, other")
	}
	f.kind = model.PropertyType(s)
	return nil
}
