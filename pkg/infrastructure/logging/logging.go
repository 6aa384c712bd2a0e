// Package logging wraps log/slog with level parsing, optional rotated file output and run-scoped fields.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger *slog.Logger
	mu           sync.RWMutex
)

// Config controls the log handler
type Config struct {
	// debug, info, warn, error
	Level string `mapstructure:"level"`
	// json or text
	Format string `mapstructure:"format"`
	// stderr, stdout, file, both
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	WithCaller bool   `mapstructure:"with_caller"`
}

// DefaultConfig logs text at info level to stderr
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "text",
		Output:     "stderr",
		FilePath:   "logs/invopt.log",
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   true,
	}
}

// ParseLevel maps a level name to a slog.Level; unknown names map to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// New builds a logger from cfg without touching the global instance
func New(cfg Config) (*slog.Logger, error) {
	var output io.Writer

	switch strings.ToLower(cfg.Output) {
	case "file", "both":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("log file path is required for output %q", cfg.Output)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		if strings.EqualFold(cfg.Output, "both") {
			output = io.MultiWriter(os.Stderr, fileWriter)
		} else {
			output = fileWriter
		}
	case "stdout":
		output = os.Stdout
	default:
		output = os.Stderr
	}

	return NewWithWriter(cfg, output), nil
}

// NewWithWriter builds a logger writing to w
func NewWithWriter(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.WithCaller,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Init installs the global logger
func Init(cfg Config) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	globalLogger = logger
	mu.Unlock()
	slog.SetDefault(logger)
	return nil
}

// Get returns the global logger, falling back to slog.Default
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type runIDKey struct{}

// ContextWithRunID attaches a scenario run ID to ctx
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext extracts the run ID attached by ContextWithRunID
func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if runID, ok := ctx.Value(runIDKey{}).(string); ok {
		return runID
	}
	return ""
}

// WithContext returns logger annotated with the run ID carried by ctx
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = Get()
	}
	if runID := RunIDFromContext(ctx); runID != "" {
		return logger.With(slog.String("run_id", runID))
	}
	return logger
}

func Debug(ctx context.Context, msg string, args ...any) {
	WithContext(ctx, nil).DebugContext(ctx, msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	WithContext(ctx, nil).InfoContext(ctx, msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	WithContext(ctx, nil).WarnContext(ctx, msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	WithContext(ctx, nil).ErrorContext(ctx, msg, args...)
}

// LogDuration returns a func for defer that logs msg with the elapsed time
func LogDuration(ctx context.Context, logger *slog.Logger, msg string, args ...any) func() {
	start := time.Now()
	return func() {
		args = append(args, slog.Duration("duration", time.Since(start)))
		WithContext(ctx, logger).InfoContext(ctx, msg, args...)
	}
}
