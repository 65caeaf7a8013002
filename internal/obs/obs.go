// Package obs is the one place that constructs loggers for the rest of
// the module, the same role the teacher's daemonLogger/newSilentLogger
// helpers play around log/slog: every other package accepts a
// *slog.Logger (or uses slog.Default()) rather than building its own
// handler.
package obs

import (
	"log/slog"
	"os"
)

// New builds the process-wide logger: text-handler, leveled, writing to
// stderr so stdout stays reserved for printResult's JSON/human output
// (cmd/littera's two output modes must never be interleaved with log
// lines).
func New(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// Discard is a logger that drops everything, for tests and other callers
// that need a *slog.Logger but no output (mirrors the teacher's
// newSilentLogger/slog.DiscardHandler pattern).
func Discard() *slog.Logger { return slog.New(slog.DiscardHandler) }
