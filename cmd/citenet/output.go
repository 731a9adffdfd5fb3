package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/matsen/citenet/internal/analysis"
	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/reference"
	"github.com/matsen/citenet/internal/report"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search commands

	// Title truncation lengths by context
	ImportTitleMaxLen = 60 // Used in import command output
	SearchTitleMaxLen = 70 // Used in search result summaries
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitCodeFor maps library errors onto exit codes.
func exitCodeFor(err error) int {
	switch {
	case reference.IsMalformedInput(err):
		return ExitDataError
	case errors.Is(err, analysis.ErrInvalidOptions),
		errors.Is(err, report.ErrUnknownCluster),
		errors.Is(err, config.ErrUnknownKey),
		errors.Is(err, config.ErrNotProject):
		return ExitConfigError
	}
	return ExitError
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// errorsToStrings converts a slice of errors to strings.
func errorsToStrings(errs []error) []string {
	strs := make([]string, len(errs))
	for i, e := range errs {
		strs[i] = e.Error()
	}
	return strs
}
