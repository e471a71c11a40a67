package main

import (
	"io"
	"log/slog"

	"github.com/1broseidon/areawm/internal/config"
)

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger builds the process logger from log_level and log_format.
// verbose forces debug.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler
	if cfg.LogFormat == config.LogFormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}
