// Package logging builds the process logger and carries it through
// context.Context.
//
// The terminal belongs to progress rendering, so the log is written to a file
// (by default <build-dir>/log). The handle returned by Open must be closed
// before the process exits so the file is flushed.
package logging

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Options configures a logger.
type Options struct {
	Level slog.Level
	// Time keeps timestamps in records. Without it, log files of two runs can
	// be diffed line by line.
	Time bool
}

// New creates a text logger writing to w. It does not set the global logger.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if !opts.Time {
		handlerOpts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		}
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// TimeFromEnv reports whether TSDL_LOG_TIME asks for timestamps.
func TimeFromEnv() bool {
	switch strings.ToLower(os.Getenv("TSDL_LOG_TIME")) {
	case "1", "y", "yes":
		return true
	default:
		return false
	}
}

// File is a logger backed by a buffered log file.
type File struct {
	*slog.Logger

	mu   sync.Mutex
	w    *bufio.Writer
	f    *os.File
	path string
}

// Open creates (truncating) the log file at path, creating its parent
// directory if needed.
func Open(path string, opts Options) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	lf := &File{f: f, w: bufio.NewWriter(f), path: path}
	lf.Logger = New(lf, opts)
	return lf, nil
}

// Write implements io.Writer; slog handlers may be called from many goroutines.
func (l *File) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Path returns the log file location.
func (l *File) Path() string { return l.path }

// Close flushes and closes the log file.
func (l *File) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.w.Flush(); err != nil {
		_ = l.f.Close()
		return err
	}
	return l.f.Close()
}

type key struct{}

var loggerKey = key{}

// Discard is a logger that drops every record.
var Discard = slog.New(slog.DiscardHandler)

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from ctx, or Discard if there is none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return Discard
}
