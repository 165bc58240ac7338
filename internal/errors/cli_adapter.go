package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if dge, ok := As(err); ok {
		return a.exitCodeFromDocGraph(dge)
	}

	return 1
}

// exitCodeFromDocGraph maps DocGraphError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromDocGraph(err *DocGraphError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Inconsistent graph
	case CategoryIndex:
		return 3 // Malformed index
	case CategoryDocument:
		return 4 // Unreadable document
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryInternal:
		return 10 // Internal error
	case CategoryFileSystem:
		return 11 // Output error
	case CategoryRuntime:
		return 12 // Runtime error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if dge, ok := As(err); ok {
		return a.formatDocGraph(dge)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatDocGraph formats a DocGraphError for display, appending sorted context pairs.
func (a *CLIErrorAdapter) formatDocGraph(err *DocGraphError) string {
	if a.verbose {
		return err.Error()
	}

	msg := fmt.Sprintf("%s: %s", err.Category, err.Message)
	if err.Category == CategoryConfig {
		msg = err.Message
	}
	keys := make([]string, 0, len(err.Context))
	for k := range err.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		msg += fmt.Sprintf(" %s=%v", k, err.Context[k])
	}
	if err.Cause != nil {
		msg += fmt.Sprintf(": %v", err.Cause)
	}
	return msg
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	_, _ = fmt.Fprintf(a.out, "%s\n", message)
	a.exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if dge, ok := As(err); ok {
		return dge.Category == CategoryInternal ||
			dge.Category == CategoryRuntime
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if dge, ok := As(err); ok {
		level := a.slogLevelFromSeverity(dge.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(dge.Category)),
		}
		for k, v := range dge.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		if dge.Cause != nil {
			attrs = append(attrs, slog.String("cause", dge.Cause.Error()))
		}

		a.logger.LogAttrs(context.Background(), level, dge.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts DocGraphError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
