// Package logging builds the slog logger shared by one conversion run.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

type Options struct {
	Level  string
	Format string
	// File, when set, receives a copy of every record through a rotating
	// writer.
	File string
}

// New returns a logger writing to console and, optionally, to a rotating
// log file. The returned closer releases the file and must be called once the
// run is over.
func New(console io.Writer, opts Options) (*slog.Logger, io.Closer, error) {
	handlerOptions := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	path := strings.TrimSpace(opts.File)
	if path == "" {
		return slog.New(newHandler(opts.Format, console, handlerOptions)), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return slog.New(newHandler(opts.Format, console, handlerOptions)), nopCloser{}, err
	}

	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}

	out := io.MultiWriter(console, writer)
	return slog.New(newHandler(opts.Format, out, handlerOptions)), writer, nil
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return slog.NewJSONHandler(out, opts)
	default:
		return slog.NewTextHandler(out, opts)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
