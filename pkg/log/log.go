package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

var (
	// Logger is the global logger instance
	Logger zerolog.Logger
)

// Level represents log level
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config holds logging configuration
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer

	// FileDir, when non-empty, additionally writes logs to a timestamped
	// file in that directory so a run leaves an on-disk record.
	FileDir string
}

// Init initializes the global logger. It returns the path of the log file
// when file output is enabled.
func Init(cfg Config) (string, error) {
	// Set log level
	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case InfoLevel:
		level = zerolog.InfoLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	// Use JSON or console output
	var sink io.Writer
	if cfg.JSONOutput {
		sink = output
	} else {
		sink = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	var logPath string
	if cfg.FileDir != "" {
		if err := os.MkdirAll(cfg.FileDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create log directory: %w", err)
		}
		name := fmt.Sprintf("devicesync_%s.log", time.Now().Format("2006-01-02_15-04-05"))
		logPath = filepath.Join(cfg.FileDir, name)
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return "", fmt.Errorf("failed to open log file: %w", err)
		}
		sink = zerolog.MultiLevelWriter(sink, file)
	}

	Logger = zerolog.New(sink).With().Timestamp().Logger()
	return logPath, nil
}

// WithComponent creates a child logger with component field
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithAppliance creates a child logger with appliance field
func WithAppliance(host string) zerolog.Logger {
	return Logger.With().Str("appliance", host).Logger()
}

// WithDevice creates a child logger with device field
func WithDevice(name string) zerolog.Logger {
	return Logger.With().Str("device", name).Logger()
}

// WithRunID creates a child logger with run_id field
func WithRunID(runID string) zerolog.Logger {
	return Logger.With().Str("run_id", runID).Logger()
}

// Helper functions for common logging patterns
func Info(msg string) {
	Logger.Info().Msg(msg)
}

func Debug(msg string) {
	Logger.Debug().Msg(msg)
}

func Warn(msg string) {
	Logger.Warn().Msg(msg)
}

func Error(msg string) {
	Logger.Error().Msg(msg)
}

func Errorf(format string, err error) {
	Logger.Error().Err(err).Msg(format)
}

func Fatal(msg string) {
	Logger.Fatal().Msg(msg)
}
