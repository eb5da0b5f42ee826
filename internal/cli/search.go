package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/config"
	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/ui"
)

var (
	searchLimit int
	searchSite  = siteFlag{site: config.SiteChecklists}
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Fuzzy search checklists, templates, rooms or tasks",
	Long: `Rank items by how well they match the query.

An exact (case-insensitive) match scores 1.0, a substring scores by how much
of the text it covers, and a query whose characters appear in order scores
lower still. Results below the configured threshold are dropped; an empty
query lists everything.

Searched fields and thresholds are set per surface under [search.<surface>]
in the config file.

Examples:
  broom search jane
  broom search "elm st" --in checklists
  broom search bath --in rooms
  broom search oven --in tasks`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		query := strings.Join(args, " ")
		start := time.Now()
		hits, err := engine.Search(cmd.Context(), searchSite.site, query)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Check [search."+searchSite.site+"] in your config")
		}
		elapsed := time.Since(start)
		total := len(hits)
		if searchLimit > 0 && len(hits) > searchLimit {
			hits = hits[:searchLimit]
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"query":   query,
				"surface": searchSite.site,
				"total":   total,
				"results": formatMatches(hits),
			}, &Meta{Count: len(hits), QueryTimeMs: elapsed.Milliseconds()})
			return nil
		}

		if len(hits) == 0 {
			printf("No %s match: %s\n", searchSite.site, query)
			return nil
		}
		printSearchResults(hits)
		if total > len(hits) {
			printLine(ui.Hint("… " + ui.Count(total-len(hits), "more result", "more results") + ", raise --limit to see them"))
		}
		return nil
	},
}

func printSearchResults(hits []model.SearchMatch) {
	table := ui.NewResultsTable(ui.NewDisplayContext(), ui.SearchLayout)
	table.AddMatches(model.NumberedList(hits))
	printf("%s\n", table.Render())
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of results (0 for all)")
	searchCmd.Flags().Var(&searchSite, "in", "Surface to search: checklists, templates, rooms, tasks")
	rootCmd.AddCommand(searchCmd)
}
