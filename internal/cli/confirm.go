package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/broom/internal/ui"
)

// isInteractive reports whether both stdin and stdout are terminals.
var isInteractive = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}

func shouldPromptForConfirm() bool {
	if isJSONOutput() {
		return false
	}
	return isInteractive()
}

func promptForConfirm(message string) bool {
	if !shouldPromptForConfirm() {
		return false
	}
	if message == "" {
		message = "Apply changes?"
	}
	printf("%s %s ", message, ui.Hint("[y/N]"))
	reader := bufio.NewReader(stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// confirmSuggestion is the hint shown when a destructive command cannot prompt.
func confirmSuggestion(command string) string {
	return fmt.Sprintf("Re-run with --force: broom %s --force", command)
}
