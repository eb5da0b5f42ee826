package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// testNow is the fixed clock in-process runs use, so generated checklist
// names are stable.
var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

var runMu sync.Mutex

// RunInProcess executes the root command with args. It resets every flag
// to its default first, since cobra keeps flag values across executions.
func RunInProcess(args []string, in string, out *bytes.Buffer) error {
	runMu.Lock()
	defer runMu.Unlock()

	resetFlags()
	prevOut, prevIn, prevNow, prevInteractive := stdout, stdin, now, isInteractive
	stdout, stdin = out, strings.NewReader(in)
	now = func() time.Time { return testNow }
	isInteractive = func() bool { return false }
	defer func() {
		stdout, stdin, now, isInteractive = prevOut, prevIn, prevNow, prevInteractive
	}()

	rootCmd.SetArgs(args)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	return ExecuteContext(context.Background())
}

func resetFlags() {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.PersistentFlags(), c.Flags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				switch f.Value.Type() {
				case "stringArray", "stringSlice":
				default:
					_ = f.Value.Set(f.DefValue)
				}
				f.Changed = false
			})
		}
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
	newRooms, newTasks = nil, nil
	configSetFields = nil
	searchSite.site = "checklists"
	configSetSite.site = "checklists"
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	runMu.Lock()
	defer runMu.Unlock()

	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	defer func() { stdout = prev }()

	fn()
	return buf.String()
}
