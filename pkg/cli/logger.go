package cli

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger writing to w. Verbose lowers the level
// from warn to debug.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
