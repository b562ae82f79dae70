// Package logging builds the slog logger shared by the cas commands.
package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string

	// LogDir enables a rotating JSON log file at LogDir/cas.log.
	LogDir string

	// Stderr receives human-readable text records. Nil discards them.
	Stderr io.Writer
}

// New returns a logger and a cleanup func that closes the log file, if any.
func New(cfg Config) (*slog.Logger, func() error) {
	level := ParseLevel(cfg.Level)
	cleanup := func() error { return nil }

	var handlers []slog.Handler
	if cfg.Stderr != nil {
		handlers = append(handlers, slog.NewTextHandler(cfg.Stderr, &slog.HandlerOptions{Level: level}))
	}

	if cfg.LogDir != "" {
		lj := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, "cas.log"),
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     10,
			Compress:   true,
		}
		handlers = append(handlers, slog.NewJSONHandler(lj, &slog.HandlerOptions{Level: slog.LevelDebug}))
		cleanup = lj.Close
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewTextHandler(io.Discard, nil)), cleanup
	case 1:
		return slog.New(handlers[0]), cleanup
	}
	return slog.New(fanout(handlers)), cleanup
}

// ParseLevel maps a config level name to a slog level, defaulting to warn.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
