package cli

import (
	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/export"
	"github.com/aidanlsb/broom/internal/ui"
)

var (
	exportFormat formatFlag
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <checklist-id>",
	Short: "Export a checklist as markdown or YAML",
	Long: `Export a checklist for printing or sharing.

Markdown exports are task lists under one heading per room and can be
edited and imported again. YAML exports carry every field.

Without -o the export is written to stdout. With -o and no --format the
format follows the file extension.

Examples:
  broom export jane-smith-2026-03-01
  broom export jane-smith-2026-03-01 --format yaml
  broom export jane-smith-2026-03-01 -o ~/print/jane.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadChecklist(cmd.Context(), args[0])
		if c == nil {
			return err
		}

		if exportOutput == "" {
			format := exportFormat.format
			if format == "" {
				format = export.Markdown
			}
			if isJSONOutput() {
				data, err := export.Render(c, format)
				if err != nil {
					return handleError(ErrInternal, err, "")
				}
				outputSuccess(map[string]interface{}{
					"id":      c.ID,
					"format":  format,
					"content": string(data),
				}, nil)
				return nil
			}
			if err := export.Write(stdout, c, format); err != nil {
				return handleError(ErrInternal, err, "")
			}
			return nil
		}

		if err := export.ToFile(exportOutput, c, exportFormat.format); err != nil {
			return handleError(ErrFileWriteError, err, "Pass --format md or --format yaml")
		}
		logger.Info("checklist exported", "id", c.ID, "path", exportOutput)

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"id": c.ID, "path": exportOutput}, nil)
			return nil
		}
		printLine(ui.Successf("Exported %s to %s", ui.ID(c.ID), exportOutput))
		return nil
	},
}

func init() {
	exportCmd.Flags().VarP(&exportFormat, "format", "f", "Export format: md or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
