// Package logging configures the two loggers the binding shell uses: a
// structured JSON logger (for log aggregation) and a human-readable text
// logger (for the terminal). The detector core never logs — it stays
// allocation-free and synchronous in steady state, so all logging lives
// in this package and is used only by cmd/, mqttpub, wsserver, and ingest.
package logging

import (
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

var levelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
	LevelFatal: "FATAL",
}

var (
	structuredLogger    *slog.Logger
	humanReadableLogger *slog.Logger
)

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		level, _ := a.Value.Any().(slog.Level)
		label, ok := levelNames[level]
		if !ok {
			label = level.String()
		}
		a.Value = slog.StringValue(label)
	}
	return a
}

// Init configures both loggers at the given level. When filePath is
// non-empty, the structured logger writes JSON to a lumberjack-rotated
// file at that path instead of stdout; otherwise it writes JSON to stdout.
// The text logger always writes to stderr.
func Init(level slog.Level, filePath string, maxSizeMB, maxBackups, maxAgeDays int) {
	var structuredOut = os.Stdout
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevel}

	if filePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		structuredLogger = slog.New(slog.NewJSONHandler(rotator, opts))
	} else {
		structuredLogger = slog.New(slog.NewJSONHandler(structuredOut, opts))
	}

	humanReadableLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	}))

	slog.SetDefault(structuredLogger)
}

// ParseLevel maps the config file's textual level to a slog.Level,
// defaulting to Info for anything unrecognized.
func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "fatal":
		return LevelFatal
	default:
		return slog.LevelInfo
	}
}

// Structured returns the JSON logger, for components that emit
// machine-parseable log lines (cmd/ and the mqttpub/wsserver/ingest
// ambient layers).
func Structured() *slog.Logger {
	if structuredLogger == nil {
		return slog.Default()
	}
	return structuredLogger
}

// Human returns the human-readable text logger for terminal-facing
// operator messages. No package in this module calls it at present.
func Human() *slog.Logger {
	if humanReadableLogger == nil {
		return slog.Default()
	}
	return humanReadableLogger
}
