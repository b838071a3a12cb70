// ABOUTME: Debug logging wrapper around slog for verbose mode output
// ABOUTME: Global level via SetLevel; writes to stderr so it never mixes with a task's console records on stdout

package log

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var level atomic.Int64
var runID atomic.Value

func init() {
	level.Store(int64(LevelInfo))
	runID.Store("")
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Store(int64(l))
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return slog.Level(level.Load())
}

// SetRunID tags every subsequent log line with the orchestrator run it
// belongs to, so a verbose run's log output can be correlated against the
// same run's console.Record stream (both keyed by RunID).
func SetRunID(id string) {
	runID.Store(id)
}

func runPrefix() string {
	id, _ := runID.Load().(string)
	if id == "" {
		return ""
	}
	return "[" + id + "] "
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) {
	if slog.Level(level.Load()) > LevelDebug {
		return
	}
	fmt.Fprintf(os.Stderr, runPrefix()+"[DEBUG] "+format+"\n", args...)
}

// Info logs an info message if the level allows it.
func Info(format string, args ...any) {
	if slog.Level(level.Load()) > LevelInfo {
		return
	}
	fmt.Fprintf(os.Stderr, runPrefix()+"[INFO] "+format+"\n", args...)
}

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) {
	if slog.Level(level.Load()) > LevelWarn {
		return
	}
	fmt.Fprintf(os.Stderr, runPrefix()+"[WARN] "+format+"\n", args...)
}

// Error logs an error message (always emitted).
func Error(format string, args ...any) {
	fmt.Fprintf(os.Stderr, runPrefix()+"[ERROR] "+format+"\n", args...)
}
