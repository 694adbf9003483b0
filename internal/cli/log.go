// Package cli implements the depsync command-line interface.
//
// The commands load a project snapshot, build the reconciliation engine over
// it and print, export or serve the result. The CLI is built using cobra and
// logs through charmbracelet/log.
//
// # Commands
//
//   - reconcile: List the reconciled dependencies of a module
//   - show: Detail one dependency
//   - declare: Add a statement to an already built module store
//   - graph: Export the reconciled graph as JSON, DOT, SVG, PDF or PNG
//   - browse: Interactive dependency browser
//   - serve: JSON HTTP API over the engine
//   - report: Save and inspect reconciliation reports
//   - cache: Manage the metadata cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depsync/pkg/reconcile"
)

// newLogger returns a leveled logger writing to w with short timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logBuild records a finished module store build. Builds that had to skip
// or leave something unmatched are logged at warn level with the gap
// counters attached.
func logBuild(l *log.Logger, module string, s reconcile.BuildStats) {
	kv := []any{
		"libraries", s.Libraries,
		"modules", s.Modules,
		"promotions", s.Promotions,
		"took", s.Duration.Round(time.Millisecond),
	}
	if s.SkippedMalformed == 0 && s.DanglingModules == 0 && s.UnmatchedVersions == 0 {
		l.Info("reconciled "+module, kv...)
		return
	}
	kv = append(kv,
		"skipped", s.SkippedMalformed,
		"dangling", s.DanglingModules,
		"incomparable", s.UnmatchedVersions,
	)
	l.Warn("reconciled "+module+" with gaps", kv...)
}

type loggerKey struct{}

// withLogger attaches l to ctx for commands and the workspace.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger set by withLogger, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
