package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeycumines/buckets/internal/config"
)

// logConfig holds the resolved logging configuration for play.
type logConfig struct {
	level   slog.Level
	logFile io.WriteCloser // nil if no file logging
}

// resolveLogConfig resolves log configuration from flags and config defaults.
// Flag values take precedence, including an explicit "info"; config values
// are used only when a flag is empty. The caller must Close() the returned logConfig.logFile
// when done (if non-nil).
func resolveLogConfig(flagPath, flagLevel string, cfg *config.Config) (logConfig, error) {
	var lc logConfig

	resolve := func(key string) string {
		if cfg == nil {
			return ""
		}
		v, _ := cfg.GetGlobalOption(key)
		return v
	}

	// Resolve log level: flag → config → "info".
	levelStr := flagLevel
	if levelStr == "" {
		if v := resolve("log.level"); v != "" {
			levelStr = v
		}
	}
	level, err := parseLevel(levelStr)
	if err != nil {
		return lc, err
	}
	lc.level = level

	// Resolve log path: flag → config → "".
	logPath := flagPath
	if logPath == "" {
		logPath = resolve("log.file")
	}
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return lc, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return lc, fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		lc.logFile = f
	}

	return lc, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

// logger builds the slog.Logger for lc. Without a log file all records are
// discarded, since the terminal belongs to the scoreboard.
func (lc logConfig) logger() *slog.Logger {
	if lc.logFile == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return slog.New(slog.NewJSONHandler(lc.logFile, &slog.HandlerOptions{Level: lc.level}))
}
