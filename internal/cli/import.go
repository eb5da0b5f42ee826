package cli

import (
	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/export"
	"github.com/aidanlsb/broom/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import checklists from markdown or YAML files",
	Long: `Import checklist files written by 'broom export' or by hand.

A file whose id matches a saved checklist replaces it; any other file is
saved as a new checklist. Markdown files need frontmatter with at least a
client, an H1 title, an H2 per room and task list items:

  ---
  client: Jane Smith
  ---
  # Weekly Clean

  ## Kitchen

  - [ ] Wipe counters
  - [x] Empty bins

Examples:
  broom import jane.md
  broom import exports/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := getStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		var (
			imported []map[string]interface{}
			warnings []Warning
		)
		for _, path := range args {
			c, err := export.ReadFile(path)
			if err == nil {
				var created bool
				created, err = st.UpsertChecklist(c)
				if err == nil {
					imported = append(imported, map[string]interface{}{
						"path":    path,
						"id":      c.ID,
						"created": created,
					})
					if !isJSONOutput() {
						verb := "Updated"
						if created {
							verb = "Imported"
						}
						printLine(ui.Successf("%s %s from %s", verb, ui.ID(c.ID), path))
					}
					continue
				}
			}

			if len(args) == 1 {
				return handleError(ErrFileReadError, err, "")
			}
			warnings = append(warnings, Warning{Code: WarnImportFailed, Message: err.Error(), Ref: path})
			if !isJSONOutput() {
				printLine(ui.Errorf("%s: %v", path, err))
			}
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"imported": imported}, warnings, &Meta{Count: len(imported)})
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
