package download

import (
	"io"
	"log/slog"
)

// LogLevel maps -q and -v counts to a slog level: quiet shows errors only,
// the default shows warnings, -v adds info and -vv adds debug.
func LogLevel(quiet bool, verbosity int) slog.Level {
	switch {
	case quiet:
		return slog.LevelError
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// NewLogger builds the process-wide logger once from the verbosity flags.
func NewLogger(w io.Writer, quiet bool, verbosity int) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: LogLevel(quiet, verbosity)}))
}
