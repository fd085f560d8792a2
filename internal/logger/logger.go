// Package logger owns the process-wide structured logger. Packages log
// through the package functions instead of passing a logger around; before
// Init runs (or when it fails), every call is a no-op, so library code never
// has to care whether logging is wired.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Debug   bool
	DataDir string
}

var std *log.Logger

// Init routes log output to a rotating file under <DataDir>/logs. Normal runs
// log warnings and up to the file only, keeping CLI output clean; debug mode
// lowers the level, reports callers, and mirrors everything to stderr.
func Init(cfg Config) error {
	out, err := rotatingFile(cfg.DataDir)
	if err != nil {
		return err
	}

	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "tracker",
		Level:           log.WarnLevel,
	}
	if cfg.Debug {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
		out = io.MultiWriter(os.Stderr, out)
	}

	std = log.NewWithOptions(out, opts)
	return nil
}

func rotatingFile(dataDir string) (io.Writer, error) {
	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "tracker.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}, nil
}

func Debug(msg string, keyvals ...any) {
	if std != nil {
		std.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if std != nil {
		std.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if std != nil {
		std.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if std != nil {
		std.Error(msg, keyvals...)
	}
}
