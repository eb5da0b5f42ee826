// Package cli implements the command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/config"
	"github.com/aidanlsb/broom/internal/logging"
	"github.com/aidanlsb/broom/internal/store"
	"github.com/aidanlsb/broom/internal/ui"
)

var (
	// Global flags
	configPath string
	dbPathFlag string
	debugLog   bool

	// Resolved values
	resolvedConfigPath string
	resolvedDBPath     string
	cfg                *config.Config
	logger             = logging.Discard()
	logCleanup         = func() {}
	openedStore        *store.Store

	// Command output. Swapped in tests.
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "broom",
	Short: "broom - cleaning checklists from the terminal",
	Long: `broom builds and tracks cleaning checklists for clients and properties.

Checklists are assembled from a library of rooms and tasks or from templates,
stored in a local SQLite database, and found again with fuzzy search.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "init", "version", "help", "completion":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}
		return setup()
	},
}

// ExecuteContext runs the CLI with ctx, which long-running commands such as
// watch stop on.
func ExecuteContext(ctx context.Context) error {
	defer teardown()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Path to the checklist database (overrides database in config)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Log debug diagnostics to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// setup loads config, applies theming and logging, and resolves the
// database path. The database itself is opened on first use.
func setup() error {
	var err error
	cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	resolvedDBPath = config.ResolveDatabasePath(dbPathFlag, resolvedConfigPath, cfg)
	ui.ConfigureTheme(cfg.UI.Accent)
	ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

	logCfg := logging.Config{
		Level:         cfg.Log.Level,
		FilePath:      strings.TrimSpace(cfg.Log.File),
		WriteToStderr: true,
	}
	if debugLog {
		logCfg.Level = "debug"
	}
	l, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}
	logger, logCleanup = l, cleanup
	logger.Debug("config loaded", "config", resolvedConfigPath, "database", resolvedDBPath)
	return nil
}

func teardown() {
	if openedStore != nil {
		if err := openedStore.Close(); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
		openedStore = nil
	}
	logCleanup()
	logger, logCleanup = logging.Discard(), func() {}
}

// getStore opens the database on first use.
func getStore() (*store.Store, error) {
	if openedStore != nil {
		return openedStore, nil
	}
	s, err := store.Open(resolvedDBPath, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	openedStore = s
	return s, nil
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// loadGlobalConfigWithPath loads the config at --config or the default
// location. A missing file yields an empty config.
func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)
	if _, err := os.Stat(resolvedPath); os.IsNotExist(err) {
		return &config.Config{}, resolvedPath, nil
	}

	loadedCfg, err := config.LoadFrom(resolvedPath)
	if err != nil {
		return nil, "", err
	}
	return loadedCfg, resolvedPath, nil
}
