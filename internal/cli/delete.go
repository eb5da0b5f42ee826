package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/ui"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <checklist-id>",
	Short: "Delete a checklist",
	Long: `Delete a checklist permanently.

Asks for confirmation on a terminal. Scripts and --json callers must pass
--force.

Examples:
  broom delete jane-smith-2026-03-01
  broom delete jane-smith-2026-03-01 --force --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadChecklist(cmd.Context(), args[0])
		if c == nil {
			return err
		}

		if !deleteForce {
			if !shouldPromptForConfirm() {
				return handleErrorMsg(ErrConfirmationRequired,
					fmt.Sprintf("refusing to delete %s without confirmation", c.ID),
					confirmSuggestion("delete "+c.ID))
			}
			prompt := fmt.Sprintf("Delete %s (%s, %s)?", c.Name, c.Client.Name, c.Progress())
			if !promptForConfirm(prompt) {
				printLine(ui.Hint("Cancelled."))
				return nil
			}
		}

		st, err := getStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		if err := st.DeleteChecklist(c.ID); err != nil {
			return handleStoreError(ErrChecklistNotFound, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"deleted": c.ID}, nil)
			return nil
		}
		printLine(ui.Successf("Deleted %s", ui.ID(c.ID)))
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
	rootCmd.AddCommand(deleteCmd)
}
