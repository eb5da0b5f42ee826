package cli

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/config"
	"github.com/aidanlsb/broom/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the broom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the config file, database path, UI and log settings, and the
effective fuzzy search profile of every surface after defaults are applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := configData()

		if isJSONOutput() {
			outputSuccess(data, nil)
			return nil
		}

		exists := ""
		if !data["exists"].(bool) {
			exists = " " + ui.Hint("(not created; run 'broom init')")
		}
		c := getConfig()
		printf("config:   %s%s\n", resolvedConfigPath, exists)
		printf("database: %s\n", resolvedDBPath)
		printf("accent:   %s\n", orDefault(c.UI.Accent, "default"))
		printf("log:      %s\n", orDefault(c.Log.Level, "warn"))

		printf("\n%s\n", ui.Header("search"))
		table := ui.NewTable(5)
		table.AddRow(ui.Hint("surface"), ui.Hint("fields"), ui.Hint("threshold"), ui.Hint("min"), ui.Hint("sort"))
		for _, site := range config.Sites() {
			p := c.SearchProfile(site)
			table.AddRow(site, strings.Join(p.Fields, ", "), ui.FormatScore(p.Threshold),
				strconv.Itoa(p.MinMatchCharLength), boolWord(p.Sort))
		}
		printf("%s", table.String())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": resolvedConfigPath,
				"database":    resolvedDBPath,
			}, nil)
			return nil
		}
		printLine(resolvedConfigPath)
		return nil
	},
}

var (
	configSetDatabase    string
	configSetUIAccent    string
	configSetUICodeTheme string
	configSetLogLevel    string
	configSetLogFile     string
	configSetSite        = siteFlag{site: config.SiteChecklists}
	configSetFields      []string
	configSetThreshold   float64
	configSetMinLength   int
	configSetSort        bool
)

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one or more config.toml fields",
	Long: `Update config.toml, creating it if needed.

Search flags apply to the surface named by --in.

Examples:
  broom config set --ui-accent 39
  broom config set --in tasks --threshold 0.4
  broom config set --in checklists --fields name,client.name`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *getConfig()
		flags := cmd.Flags()
		changed := make([]string, 0, 4)

		setString := func(flag, key string, dst *string, value string) {
			if flags.Changed(flag) {
				*dst = strings.TrimSpace(value)
				changed = append(changed, key)
			}
		}
		setString("database", "database", &c.Database, configSetDatabase)
		setString("ui-accent", "ui.accent", &c.UI.Accent, configSetUIAccent)
		setString("ui-code-theme", "ui.code_theme", &c.UI.CodeTheme, configSetUICodeTheme)
		setString("log-level", "log.level", &c.Log.Level, configSetLogLevel)
		setString("log-file", "log.file", &c.Log.File, configSetLogFile)

		site := configSetSite.site
		sc := c.Search[site]
		searchChanged := false
		prefix := "search." + site + "."
		if flags.Changed("fields") {
			sc.Fields = configSetFields
			changed = append(changed, prefix+"fields")
			searchChanged = true
		}
		if flags.Changed("threshold") {
			t := configSetThreshold
			sc.Threshold = &t
			changed = append(changed, prefix+"threshold")
			searchChanged = true
		}
		if flags.Changed("min-length") {
			sc.MinMatchCharLength = configSetMinLength
			changed = append(changed, prefix+"min_match_char_length")
			searchChanged = true
		}
		if flags.Changed("sort") {
			sort := configSetSort
			sc.Sort = &sort
			changed = append(changed, prefix+"sort")
			searchChanged = true
		}
		if searchChanged {
			search := make(map[string]config.SearchConfig, len(c.Search)+1)
			for k, v := range c.Search {
				search[k] = v
			}
			search[site] = sc
			c.Search = search
		}

		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields provided",
				"Pass at least one of --database, --ui-accent, --ui-code-theme, --log-level, --log-file, --fields, --threshold, --min-length, --sort")
		}
		if err := c.Validate(); err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		if err := config.SaveTo(resolvedConfigPath, &c); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		cfg = &c
		logger.Info("config updated", "path", resolvedConfigPath, "changed", changed)

		if isJSONOutput() {
			data := configData()
			data["changed"] = changed
			outputSuccess(data, nil)
			return nil
		}
		printf("Updated config: %s\n", resolvedConfigPath)
		printf("changed: %s\n", strings.Join(changed, ", "))
		return nil
	},
}

func configData() map[string]interface{} {
	c := getConfig()
	_, statErr := os.Stat(resolvedConfigPath)

	profiles := make(map[string]interface{})
	for _, site := range config.Sites() {
		p := c.SearchProfile(site)
		profiles[site] = map[string]interface{}{
			"fields":                p.Fields,
			"threshold":             p.Threshold,
			"min_match_char_length": p.MinMatchCharLength,
			"sort":                  p.Sort,
		}
	}

	return map[string]interface{}{
		"config_path": resolvedConfigPath,
		"exists":      statErr == nil,
		"database":    resolvedDBPath,
		"ui": map[string]interface{}{
			"accent":     strings.TrimSpace(c.UI.Accent),
			"code_theme": strings.TrimSpace(c.UI.CodeTheme),
		},
		"log": map[string]interface{}{
			"level": strings.TrimSpace(c.Log.Level),
			"file":  strings.TrimSpace(c.Log.File),
		},
		"search": profiles,
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func boolWord(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)

	f := configSetCmd.Flags()
	f.StringVar(&configSetDatabase, "database", "", "SQLite database path")
	f.StringVar(&configSetUIAccent, "ui-accent", "", "Accent color (ANSI 0-255 or #RRGGBB)")
	f.StringVar(&configSetUICodeTheme, "ui-code-theme", "", "Code block theme for 'show --render'")
	f.StringVar(&configSetLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&configSetLogFile, "log-file", "", "Also write JSON logs to this file")
	f.Var(&configSetSite, "in", "Search surface the search flags apply to")
	f.StringSliceVar(&configSetFields, "fields", nil, "Fields to search, comma separated")
	f.Float64Var(&configSetThreshold, "threshold", 0, "Minimum score (0-1) a result needs")
	f.IntVar(&configSetMinLength, "min-length", 0, "Shortest query that filters")
	f.BoolVar(&configSetSort, "sort", true, "Sort results by score")
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
