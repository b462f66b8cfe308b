package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination
// for the cankit CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if ce, ok := err.(*CankitError); ok {
		return a.exitCodeFromCankit(ce)
	}

	return 1
}

// exitCodeFromCankit maps CankitError categories to exit codes.
func (a *CLIErrorAdapter) exitCodeFromCankit(err *CankitError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryToolchain:
		return 9 // Toolchain not available
	case CategoryBuild, CategoryFileSystem:
		return 11 // Build error
	case CategoryWatch:
		return 12 // Watch error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if ce, ok := err.(*CankitError); ok {
		if a.verbose {
			return ce.Error()
		}
		switch ce.Category {
		case CategoryConfig, CategoryValidation:
			return ce.Message
		default:
			return fmt.Sprintf("%s: %s", ce.Category, ce.Message)
		}
	}

	return fmt.Sprintf("Error: %v", err)
}

// HandleError processes an error and exits the program with the
// appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.verbose {
		a.logger.Error("command failed", "category", string(GetCategory(err)), "error", err)
	}

	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}
