// Package logging sets up the application loggers: structured JSON output for
// machine consumption, human-readable text output, and rotating per-service
// file loggers.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	structuredLogger    *slog.Logger
	humanReadableLogger *slog.Logger
	initOnce            sync.Once
)

// Init initializes the application loggers: structured JSON to stdout for
// journald or a log shipper, human-readable text to stderr. The structured
// logger becomes the slog default; the level defaults to Info and can be
// lowered with the debug flag.
func Init(debug bool) {
	initOnce.Do(func() {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		structuredLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		humanReadableLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(structuredLogger)
	})
}

// HumanReadable returns the text logger writing to stderr. It falls back to
// the default logger when Init has not run.
func HumanReadable() *slog.Logger {
	if humanReadableLogger == nil {
		return slog.Default()
	}
	return humanReadableLogger
}

// FileLoggerOptions controls rotation of file loggers created by NewFileLogger.
type FileLoggerOptions struct {
	MaxSizeMB  int // rotate after this size, 0 uses the default
	MaxBackups int // rotated files to keep
	MaxAgeDays int // days to keep rotated files
}

// NewFileLogger creates a service-scoped slog.Logger writing JSON to the given
// file with lumberjack rotation. The returned closer flushes and closes the
// underlying file and should be called on shutdown.
func NewFileLogger(filePath, serviceName string, level slog.Leveler, opts *FileLoggerOptions) (*slog.Logger, func() error, error) {
	// lumberjack does not create directories
	logDir := filepath.Dir(filePath)
	if logDir != "." {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	maxSizeMB := 10
	maxBackups := 3
	maxAgeDays := 28
	if opts != nil {
		if opts.MaxSizeMB > 0 {
			maxSizeMB = opts.MaxSizeMB
		}
		if opts.MaxBackups > 0 {
			maxBackups = opts.MaxBackups
		}
		if opts.MaxAgeDays > 0 {
			maxAgeDays = opts.MaxAgeDays
		}
	}

	logWriter := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   false,
	}

	handler := slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With("service", serviceName)

	return logger, logWriter.Close, nil
}

// Package-level helpers on the default logger.

func Debug(msg string, args ...any) { slog.Debug(msg, args...) }
func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
