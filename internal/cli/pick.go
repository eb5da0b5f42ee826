package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/catalog"
	"github.com/aidanlsb/broom/internal/config"
	"github.com/aidanlsb/broom/internal/fuzzy"
	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/picker"
	"github.com/aidanlsb/broom/internal/search"
	"github.com/aidanlsb/broom/internal/store"
)

var pickSite = siteFlag{site: config.SiteChecklists}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick an item interactively and print its ID",
	Long: `Open a search-as-you-type picker and print the chosen item's ID.

The picker draws on stderr, so the ID can be captured:

  broom show "$(broom pick)"
  broom new --client Jane --template "$(broom pick --in templates)"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isInteractive() || isJSONOutput() {
			return handleErrorMsg(ErrNotInteractive, "pick needs a terminal", "Use 'broom search' in scripts")
		}

		id, ok, err := pickID(cmd.Context(), pickSite.site)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		if !ok {
			return nil
		}
		printLine(id)
		return nil
	},
}

// pickID runs the picker over one surface with its configured profile.
func pickID(ctx context.Context, site string) (string, bool, error) {
	p := getConfig().SearchProfile(site)
	s := searchSettings()
	title := "Pick from " + site

	switch site {
	case config.SiteChecklists:
		st, err := getStore()
		if err != nil {
			return "", false, err
		}
		docs, err := st.ChecklistDocuments(store.ListFilter{})
		if err != nil {
			return "", false, err
		}
		m, err := search.Checklists(p, s)
		if err != nil {
			return "", false, err
		}
		return runPicker(ctx, title, docs, m)

	case config.SiteTemplates:
		engine, err := newEngine()
		if err != nil {
			return "", false, err
		}
		items, err := engine.AllTemplates()
		if err != nil {
			return "", false, err
		}
		m, err := search.Templates(p, s)
		if err != nil {
			return "", false, err
		}
		return runPicker(ctx, title, items, m)
	}

	cat, err := catalog.Default()
	if err != nil {
		return "", false, err
	}
	if site == config.SiteRooms {
		m, err := search.Rooms(p, s)
		if err != nil {
			return "", false, err
		}
		return runPicker(ctx, title, cat.Rooms(), m)
	}
	m, err := search.Tasks(p, s)
	if err != nil {
		return "", false, err
	}
	return runPicker(ctx, title, cat.Tasks(), m)
}

func runPicker[T model.Result](ctx context.Context, title string, items []T, m *fuzzy.Matcher[T]) (string, bool, error) {
	chosen, ok, err := picker.Run(ctx, os.Stdin, os.Stderr, title, items, m)
	if err != nil || !ok {
		return "", false, err
	}
	return chosen.GetID(), true, nil
}

func init() {
	pickCmd.Flags().Var(&pickSite, "in", "Surface to pick from: checklists, templates, rooms, tasks")
	rootCmd.AddCommand(pickCmd)
}
