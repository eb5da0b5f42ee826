package cli

import (
	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/store"
	"github.com/aidanlsb/broom/internal/ui"
)

var (
	listStatus statusFlag
	listClient string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved checklists, most recently updated first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := getStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		list, err := st.ListChecklists(store.ListFilter{
			Status: listStatus.status,
			Client: listClient,
			Limit:  listLimit,
		})
		if err != nil {
			return handleStoreError(ErrDatabaseError, err, "")
		}

		if isJSONOutput() {
			items := make([]map[string]interface{}, len(list))
			for i := range list {
				items[i] = checklistSummary(&list[i])
			}
			outputSuccess(map[string]interface{}{"checklists": items}, &Meta{Count: len(list)})
			return nil
		}

		if len(list) == 0 {
			printLine("No checklists yet.")
			printLine(ui.Hint("Create one with: broom new --client <name> --template standard-home"))
			return nil
		}

		table := ui.NewTable(5)
		for _, c := range list {
			table.AddRow(ui.ID(c.ID), c.Name, c.Client.Name, ui.Hint(string(c.Status)), ui.ProgressBar(c.Progress(), 10))
		}
		printf("%s", table.String())
		return nil
	},
}

func init() {
	listCmd.Flags().Var(&listStatus, "status", "Only checklists in this state: draft, in_progress, completed")
	listCmd.Flags().StringVar(&listClient, "client", "", "Only checklists for this client (exact name, any case)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Maximum number of checklists (0 for all)")
	rootCmd.AddCommand(listCmd)
}
