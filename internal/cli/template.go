package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/catalog"
	"github.com/aidanlsb/broom/internal/config"
	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/ui"
)

var (
	templateSaveName        string
	templateSaveDescription string
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage checklist templates",
	Long: `Templates are reusable room and task layouts for 'broom new --template'.

Built-in templates ship with broom. Saved templates are captured from an
existing checklist; a saved template with a built-in's ID replaces it.`,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and saved templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		all, err := engine.AllTemplates()
		if err != nil {
			return handleStoreError(ErrDatabaseError, err, "")
		}

		if isJSONOutput() {
			items := make([]map[string]interface{}, len(all))
			for i, t := range all {
				items[i] = templateSummary(t)
			}
			outputSuccess(map[string]interface{}{"templates": items}, &Meta{Count: len(all)})
			return nil
		}

		table := ui.NewTable(4)
		for _, t := range all {
			source := "saved"
			if t.BuiltIn {
				source = "built-in"
			}
			table.AddRow(ui.ID(t.ID), t.Name, ui.Count(len(t.Rooms), "room", "rooms"), ui.Hint(source))
		}
		printf("%s", table.String())
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Show a template's rooms and tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTemplate(cmd.Context(), args[0])
		if t == nil {
			return err
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"template": t}, nil)
			return nil
		}

		printLine(ui.Header(t.Name) + " " + ui.Hint("("+t.ID+")"))
		if t.Description != "" {
			printLine(t.Description)
		}
		for _, r := range t.Rooms {
			printf("\n%s %s\n", ui.Header(r.Name), ui.Hint(r.Category))
			for _, task := range r.Tasks {
				printf("  - %s\n", task.Name)
			}
		}
		return nil
	},
}

var templateSaveCmd = &cobra.Command{
	Use:   "save <checklist-id>",
	Short: "Save a checklist's rooms and tasks as a template",
	Long: `Capture the rooms and tasks of a checklist as a new template.

Task completion, client and property details are not copied.

Examples:
  broom template save jane-smith-2026-03-01 --name "Jane's house"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadChecklist(cmd.Context(), args[0])
		if c == nil {
			return err
		}
		name := strings.TrimSpace(templateSaveName)
		if name == "" {
			name = c.Name
		}

		tpl := model.FromChecklist(c, name, templateSaveDescription, now())
		st, err := getStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		if err := st.SaveTemplate(&tpl); err != nil {
			return handleStoreError(ErrDatabaseError, err, "")
		}

		var warnings []Warning
		if cat, err := catalog.Default(); err == nil {
			if _, ok := cat.Template(tpl.ID); ok {
				warnings = append(warnings, Warning{
					Code:    WarnShadowed,
					Message: fmt.Sprintf("saved template replaces the built-in %s", tpl.ID),
					Ref:     tpl.ID,
				})
			}
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"template": templateSummary(tpl)}, warnings, nil)
			return nil
		}
		for _, warn := range warnings {
			printLine(ui.Warning(warn.Message))
		}
		printLine(ui.Successf("Saved template %s %s", ui.ID(tpl.ID), ui.Count(len(tpl.Rooms), "room", "rooms")))
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <template-id>",
	Short: "Delete a saved template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTemplate(cmd.Context(), args[0])
		if t == nil {
			return err
		}
		if t.BuiltIn {
			return handleErrorMsg(ErrTemplateReadOnly,
				fmt.Sprintf("%s is a built-in template", t.ID),
				"Built-in templates cannot be deleted")
		}

		st, err := getStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		if err := st.DeleteTemplate(t.ID); err != nil {
			return handleStoreError(ErrTemplateNotFound, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"deleted": t.ID}, nil)
			return nil
		}
		printLine(ui.Successf("Deleted template %s", ui.ID(t.ID)))
		return nil
	},
}

var templateSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Fuzzy search templates",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		searchSite.site = config.SiteTemplates
		return searchCmd.RunE(cmd, args)
	},
}

func templateSummary(t model.Template) map[string]interface{} {
	rooms := make([]string, len(t.Rooms))
	for i, r := range t.Rooms {
		rooms[i] = r.Name
	}
	return map[string]interface{}{
		"id":          t.ID,
		"name":        t.Name,
		"description": t.Description,
		"rooms":       rooms,
		"built_in":    t.BuiltIn,
	}
}

func init() {
	templateSaveCmd.Flags().StringVar(&templateSaveName, "name", "", "Template name (default: the checklist name)")
	templateSaveCmd.Flags().StringVar(&templateSaveDescription, "description", "", "Template description")

	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateSaveCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	templateCmd.AddCommand(templateSearchCmd)
	rootCmd.AddCommand(templateCmd)
}
