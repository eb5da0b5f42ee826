package cli

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/ui"
	"github.com/aidanlsb/broom/internal/watcher"
)

var (
	watchExisting bool
	watchArchive  bool
	watchOnce     bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Import checklist files dropped into an inbox directory",
	Long: `Watch a directory and import every .md or .yaml checklist written to it.

Changes are imported once a file has been quiet for the debounce delay.
--archive moves imported files into an "imported" subdirectory, which is
itself ignored. Stop with Ctrl+C.

Examples:
  broom watch ~/Dropbox/broom-inbox --existing --archive
  broom watch ./inbox --once`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := getStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		var (
			mu      sync.Mutex
			results []watcher.Result
		)
		w, err := watcher.New(watcher.Config{
			Dir:           args[0],
			Store:         st,
			Logger:        logger,
			DebounceDelay: watchDebounce,
			Archive:       watchArchive,
			OnImport: func(r watcher.Result) {
				mu.Lock()
				defer mu.Unlock()
				results = append(results, r)
				if !isJSONOutput() {
					printImportResult(r)
				}
			},
		})
		if err != nil {
			return handleError(ErrFileNotFound, err, "")
		}

		if watchExisting || watchOnce {
			w.ImportExisting()
		}
		if !watchOnce {
			if !isJSONOutput() {
				printLine(ui.Infof("Watching %s (Ctrl+C to stop)", args[0]))
			}
			err := w.Start(cmd.Context())
			if err != nil && !errors.Is(err, context.Canceled) {
				return handleError(ErrInternal, err, "")
			}
		}

		if isJSONOutput() {
			mu.Lock()
			defer mu.Unlock()
			outputSuccess(map[string]interface{}{"results": formatImportResults(results)}, &Meta{Count: len(results)})
		}
		return nil
	},
}

func printImportResult(r watcher.Result) {
	switch {
	case r.Err != nil:
		printLine(ui.Errorf("%s: %v", r.Path, r.Err))
	case r.Created:
		printLine(ui.Successf("Imported %s from %s", ui.ID(r.ID), r.Path))
	default:
		printLine(ui.Successf("Updated %s from %s", ui.ID(r.ID), r.Path))
	}
}

func formatImportResults(results []watcher.Result) []map[string]interface{} {
	out := make([]map[string]interface{}, len(results))
	for i, r := range results {
		m := map[string]interface{}{
			"path":    r.Path,
			"id":      r.ID,
			"created": r.Created,
		}
		if r.Err != nil {
			m["error"] = r.Err.Error()
		}
		out[i] = m
	}
	return out
}

func init() {
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "Import files already in the directory first")
	watchCmd.Flags().BoolVar(&watchArchive, "archive", false, "Move imported files into an imported/ subdirectory")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Import files already in the directory and exit")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "Quiet period before a changed file is imported")
	rootCmd.AddCommand(watchCmd)
}
