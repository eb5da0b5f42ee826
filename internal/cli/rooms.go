package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/catalog"
	"github.com/aidanlsb/broom/internal/config"
	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/ui"
)

var roomsVerbose bool

var roomsCmd = &cobra.Command{
	Use:   "rooms [query]",
	Short: "Browse the room library",
	Long: `List the library rooms with their category and default tasks.

With a query, rooms are ranked by fuzzy match on name and category.

Examples:
  broom rooms
  broom rooms bath -v`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Default()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		engine, err := newEngine()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		hits, err := engine.Search(cmd.Context(), config.SiteRooms, strings.Join(args, " "))
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Check [search.rooms] in your config")
		}

		rooms := make([]model.Room, 0, len(hits))
		titles := make([]string, 0, len(hits))
		for _, h := range hits {
			if r, ok := cat.Room(h.ID); ok {
				rooms = append(rooms, r)
				titles = append(titles, ui.HighlightField(r.Name, h.Matches, "name"))
			}
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"rooms":      rooms,
				"categories": cat.Categories(),
			}, &Meta{Count: len(rooms)})
			return nil
		}

		if len(rooms) == 0 {
			printf("No rooms match: %s\n", strings.Join(args, " "))
			return nil
		}
		table := ui.NewTable(3)
		for i, r := range rooms {
			table.AddRow(titles[i], ui.Hint(r.Category), ui.Count(len(r.Tasks), "task", "tasks"))
		}
		if !roomsVerbose {
			printf("%s", table.String())
			return nil
		}
		for _, r := range rooms {
			printf("%s %s\n", ui.Header(r.Name), ui.Hint(r.Category))
			for _, t := range r.Tasks {
				printf("  - %s\n", t.Name)
			}
		}
		return nil
	},
}

func init() {
	roomsCmd.Flags().BoolVarP(&roomsVerbose, "verbose", "v", false, "List each room's default tasks")
	rootCmd.AddCommand(roomsCmd)
}
