package testutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// Runner executes the broom CLI in-process with args, reading stdin and
// writing command output to stdout.
type Runner func(args []string, stdin string, stdout *bytes.Buffer) error

// CLIResult represents the result of running a CLI command.
type CLIResult struct {
	OK       bool
	Data     map[string]interface{}
	Error    *CLIError
	Warnings []CLIWarning
	Meta     *CLIMeta
	RawJSON  string
	ExitCode int
}

// CLIError represents a structured error from the CLI.
type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

// CLIWarning represents a warning from the CLI.
type CLIWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

// CLIMeta contains metadata from the response.
type CLIMeta struct {
	Count       int   `json:"count,omitempty"`
	QueryTimeMs int64 `json:"query_time_ms,omitempty"`
}

// RunCLI executes a CLI command against the workspace and returns the parsed result.
// Commands are run with --json, --config and --db automatically.
func (w *TestWorkspace) RunCLI(args ...string) *CLIResult {
	w.t.Helper()
	return w.RunCLIWithStdin("", args...)
}

// RunCLIWithStdin executes a CLI command with stdin input.
func (w *TestWorkspace) RunCLIWithStdin(stdin string, args ...string) *CLIResult {
	w.t.Helper()
	if w.run == nil {
		w.t.Fatal("workspace has no CLI runner")
	}

	cmdArgs := []string{"--config", w.ConfigPath, "--db", w.DBPath, "--json"}
	cmdArgs = append(cmdArgs, args...)

	var out bytes.Buffer
	err := w.run(cmdArgs, stdin, &out)
	return parseResult(out.Bytes(), err)
}

// RunText executes a CLI command without --json and returns its raw output.
func (w *TestWorkspace) RunText(args ...string) (string, error) {
	w.t.Helper()
	if w.run == nil {
		w.t.Fatal("workspace has no CLI runner")
	}

	cmdArgs := []string{"--config", w.ConfigPath, "--db", w.DBPath}
	cmdArgs = append(cmdArgs, args...)

	var out bytes.Buffer
	err := w.run(cmdArgs, "", &out)
	return out.String(), err
}

func parseResult(output []byte, runErr error) *CLIResult {
	result := &CLIResult{
		RawJSON: string(output),
	}
	if runErr != nil {
		result.ExitCode = 1
	}

	var resp struct {
		OK       bool                   `json:"ok"`
		Data     map[string]interface{} `json:"data,omitempty"`
		Error    *CLIError              `json:"error,omitempty"`
		Warnings []CLIWarning           `json:"warnings,omitempty"`
		Meta     *CLIMeta               `json:"meta,omitempty"`
	}

	if err := json.Unmarshal(output, &resp); err != nil {
		// If parsing fails, create a synthetic error
		result.OK = false
		msg := "Failed to parse JSON output: " + err.Error()
		if runErr != nil {
			msg = runErr.Error()
		}
		result.Error = &CLIError{
			Code:    "PARSE_ERROR",
			Message: msg,
			Details: map[string]interface{}{"raw": string(output)},
		}
		return result
	}

	result.OK = resp.OK
	result.Data = resp.Data
	result.Error = resp.Error
	result.Warnings = resp.Warnings
	result.Meta = resp.Meta

	return result
}

// MustSucceed fails the test if the CLI command did not succeed.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		errMsg := "unknown error"
		if r.Error != nil {
			errMsg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("expected command to succeed, got error: %s\nRaw output: %s", errMsg, r.RawJSON)
	}
	return r
}

// MustFailWithMessage fails the test if the CLI command succeeded, or if it failed
// without an error message containing the expected substring.
func (r *CLIResult) MustFailWithMessage(t *testing.T, msgSubstr string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected command to fail, but it succeeded\nRaw output: %s", r.RawJSON)
	}
	if msgSubstr != "" && r.Error != nil {
		if !strings.Contains(r.Error.Message, msgSubstr) && !strings.Contains(r.Error.Suggestion, msgSubstr) {
			t.Errorf("expected error to contain %q, got: %s (suggestion: %s)", msgSubstr, r.Error.Message, r.Error.Suggestion)
		}
	}
	return r
}

// MustFail fails the test if the CLI command did not fail with the expected code.
func (r *CLIResult) MustFail(t *testing.T, expectedCode string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected command to fail with code %s, but it succeeded\nRaw output: %s", expectedCode, r.RawJSON)
	}
	if r.Error == nil {
		t.Fatalf("expected error with code %s, but error is nil\nRaw output: %s", expectedCode, r.RawJSON)
	}
	if r.Error.Code != expectedCode {
		t.Fatalf("expected error code %s, got %s: %s\nRaw output: %s", expectedCode, r.Error.Code, r.Error.Message, r.RawJSON)
	}
	return r
}

// DataList extracts a list from the Data field.
func (r *CLIResult) DataList(key string) []interface{} {
	if r.Data == nil {
		return nil
	}
	if list, ok := r.Data[key].([]interface{}); ok {
		return list
	}
	return nil
}

// DataMap extracts an object from the Data field.
func (r *CLIResult) DataMap(key string) map[string]interface{} {
	if r.Data == nil {
		return nil
	}
	if m, ok := r.Data[key].(map[string]interface{}); ok {
		return m
	}
	return nil
}

// DataString extracts a string from the Data field.
func (r *CLIResult) DataString(key string) string {
	if r.Data == nil {
		return ""
	}
	if s, ok := r.Data[key].(string); ok {
		return s
	}
	return ""
}
