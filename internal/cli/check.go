package cli

import (
	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check <checklist-id> <task>...",
	Short: "Mark tasks done",
	Long: `Mark one or more tasks done.

A task is named by its ID, its number from 'broom show', or part of its name.
Name lookups use fuzzy search and must pick out a single best task.

Examples:
  broom check jane-smith-2026-03-01 3
  broom check jane-smith-2026-03-01 kitchen-clean-oven
  broom check jane-smith-2026-03-01 oven "mop floor"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTasksDone(cmd, args[0], args[1:], true)
	},
}

var uncheckCmd = &cobra.Command{
	Use:   "uncheck <checklist-id> <task>...",
	Short: "Mark tasks not done",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTasksDone(cmd, args[0], args[1:], false)
	},
}

func setTasksDone(cmd *cobra.Command, id string, refs []string, done bool) error {
	c, err := loadChecklist(cmd.Context(), id)
	if c == nil {
		return err
	}
	before := c.Status

	var changed []model.Task
	for _, ref := range refs {
		t, err := resolveTask(c, ref)
		if t == nil {
			return err
		}
		updated, err := c.SetTaskDone(t.ID, done, now())
		if err != nil {
			return handleError(ErrTaskNotFound, err, "")
		}
		changed = append(changed, withRoom(c, *updated))
	}

	st, err := getStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	if err := st.UpdateChecklist(c); err != nil {
		return handleStoreError(ErrChecklistNotFound, err, "")
	}
	logger.Debug("tasks updated", "id", c.ID, "count", len(changed), "done", done, "status", c.Status)

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"id":       c.ID,
			"tasks":    changed,
			"status":   c.Status,
			"progress": c.Progress(),
		}, &Meta{Count: len(changed)})
		return nil
	}

	verb := "Checked"
	if !done {
		verb = "Unchecked"
	}
	for _, t := range changed {
		printLine(ui.Successf("%s %s %s", verb, t.Name, ui.Hint("("+t.Room+")")))
	}
	printLine(ui.ProgressBar(c.Progress(), 20))
	if c.Status == model.StatusCompleted && before != model.StatusCompleted {
		printLine(ui.Successf("%s is complete", c.Name))
	}
	return nil
}

// withRoom fills in the room name of a task taken from c.
func withRoom(c *model.Checklist, t model.Task) model.Task {
	for _, r := range c.Rooms {
		for _, rt := range r.Tasks {
			if rt.ID == t.ID {
				t.Room = r.Name
				return t
			}
		}
	}
	return t
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(uncheckCmd)
}
