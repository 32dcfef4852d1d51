// Package logger builds the structured slog logger used across notifyd.
// All logs are JSON. They go to stderr and, when a log file is configured,
// to a size-rotated file as well.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the optional log file.
const (
	maxSizeMB  = 50
	maxBackups = 5
	maxAgeDays = 14
)

// New creates a JSON slog.Logger writing to stderr. If logFile is non-empty the
// output is duplicated into a lumberjack-rotated file; its directory is created
// if it does not exist. The returned closer releases the file and is safe to
// call when no file is configured.
func New(logFile string, level slog.Level) (*slog.Logger, io.Closer, error) {
	return newWithWriter(os.Stderr, logFile, level)
}

func newWithWriter(w io.Writer, logFile string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if logFile == "" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nopCloser{}, nil
	}

	dir := filepath.Dir(logFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %q: %w", dir, err)
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	handler := slog.NewJSONHandler(io.MultiWriter(w, rotator), &slog.HandlerOptions{Level: level})
	return slog.New(handler), rotator, nil
}

// Discard returns a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
