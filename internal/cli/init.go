package cli

import (
	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/config"
	"github.com/aidanlsb/broom/internal/store"
	"github.com/aidanlsb/broom/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and checklist database",
	Long: `Creates a commented config file (if missing) and the SQLite database.

Existing files are left untouched, so init is safe to re-run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefault(configPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		loaded, err := config.LoadFrom(path)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		dbPath := config.ResolveDatabasePath(dbPathFlag, path, loaded)

		st, err := store.Open(dbPath)
		if err != nil {
			return handleStoreError(ErrDatabaseError, err, "")
		}
		defer st.Close()
		stats, err := st.Stats()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": path,
				"database":    dbPath,
				"checklists":  stats.Checklists,
				"templates":   stats.Templates,
			}, nil)
			return nil
		}

		printLine(ui.Successf("Config:   %s", path))
		printLine(ui.Successf("Database: %s", dbPath))
		printLine(ui.Hint("Next: broom new --client \"Jane Smith\" --template standard-home"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
