package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	cleanup := func() {
		f.Close()
	}

	return &Logger{Logger: l}, cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// BuildStarted logs the start of a build
func (l *Logger) BuildStarted(source string) {
	l.Debug("build started", "source", source)
}

// BuildCompleted logs a finished build
func (l *Logger) BuildCompleted(source, output, format string, duration time.Duration) {
	l.Info("build completed",
		"source", source,
		"output", output,
		"format", format,
		"duration", duration.Round(time.Millisecond))
}

// BuildSkipped logs a build short-circuited by the manifest
func (l *Logger) BuildSkipped(source, reason string) {
	l.Debug("build skipped", "source", source, "reason", reason)
}

// ParseFailed logs a parse error for a source file
func (l *Logger) ParseFailed(source string, err error) {
	l.Error("parse failed", "source", source, "error", err)
}

// WriteFailed logs an output write error
func (l *Logger) WriteFailed(output string, err error) {
	l.Error("write failed", "output", output, "error", err)
}

// WatchStarted logs the start of watch mode
func (l *Logger) WatchStarted(source string) {
	l.Info("watching for changes", "source", source)
}

// FileChanged logs a change picked up by the watcher
func (l *Logger) FileChanged(source string) {
	l.Debug("file changed", "source", source)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path, stylesheet, format string) {
	l.Debug("config loaded",
		"path", path,
		"stylesheet", stylesheet,
		"format", format)
}

// ManifestError logs a manifest read or write failure
func (l *Logger) ManifestError(operation string, err error) {
	l.Error("manifest error", "operation", operation, "error", err)
}
