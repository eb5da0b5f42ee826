package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/export"
	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/ui"
)

var showRender bool

var showCmd = &cobra.Command{
	Use:   "show <checklist-id>",
	Short: "Show a checklist with numbered tasks",
	Long: `Show a checklist, its client and property, and every task.

Task numbers can be passed to 'broom check' in place of task IDs.
--render prints the markdown export through the terminal renderer instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadChecklist(cmd.Context(), args[0])
		if c == nil {
			return err
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"checklist": c,
				"progress":  c.Progress(),
			}, &Meta{Count: len(c.AllTasks())})
			return nil
		}

		if showRender {
			md, err := export.Render(c, export.Markdown)
			if err != nil {
				return handleError(ErrInternal, err, "")
			}
			out, err := ui.RenderMarkdown(string(md), ui.NewDisplayContext().TermWidth)
			if err != nil {
				return handleError(ErrInternal, err, "")
			}
			printf("%s", out)
			return nil
		}

		printChecklist(c)
		return nil
	},
}

func printChecklist(c *model.Checklist) {
	printLine(ui.Header(c.Name) + " " + ui.Hint("("+c.ID+")"))
	client := c.Client.Name
	if c.Client.Address != "" {
		client += ", " + c.Client.Address
	}
	printLine(client)
	if line := propertyLine(c.Property); line != "" {
		printLine(ui.Hint(line))
	}
	printLine(ui.ProgressBar(c.Progress(), 20) + "  " + ui.Hint(string(c.Status)))

	num := 0
	for _, r := range c.Rooms {
		printf("\n%s\n", ui.Header(r.Name))
		for _, t := range r.Tasks {
			num++
			printLine(ui.TaskLine(num, t))
		}
	}
}

func propertyLine(p model.Property) string {
	var parts []string
	if p.Type != "" {
		parts = append(parts, string(p.Type))
	}
	if p.Bedrooms > 0 {
		parts = append(parts, fmt.Sprintf("%d bed", p.Bedrooms))
	}
	if p.Bathrooms > 0 {
		parts = append(parts, fmt.Sprintf("%d bath", p.Bathrooms))
	}
	if p.SquareFeet > 0 {
		parts = append(parts, fmt.Sprintf("%d sqft", p.SquareFeet))
	}
	if p.Pets {
		parts = append(parts, "pets")
	}
	if p.Notes != "" {
		parts = append(parts, p.Notes)
	}
	return strings.Join(parts, " · ")
}

func init() {
	showCmd.Flags().BoolVar(&showRender, "render", false, "Render the markdown export in the terminal")
	rootCmd.AddCommand(showCmd)
}
