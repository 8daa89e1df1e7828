// Package logger provides levelled console logging for the habit tracker.
//
// Output is prefixed with [HH:MM:SS] timestamps and colorized when writing to
// a terminal. Implementations are safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Logger is what commands log through
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogLoad(path string, count int)
	LogCompletion(habit *models.Habit)
	LogSave(summary SaveSummary)
}

// SaveSummary describes one save cycle of the habit store
type SaveSummary struct {
	Path     string
	Saved    int
	Deleted  int64
	Duration time.Duration
}

// ConsoleLogger writes levelled messages to a writer.
// Color output is enabled automatically for terminals.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive);
// anything else falls back to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a TTY that should get colors.
// NO_COLOR is honoured through fatih/color.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeLogLevel lower-cases and validates a level, defaulting to "info".
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

// shouldLog checks if a message at the given level passes the configured level.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		level = colorLevel(level)
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, level, message)
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogLoad logs how many habits were read from the store at INFO level.
// Format: "[HH:MM:SS] Loaded <n> habits from <path>"
func (cl *ConsoleLogger) LogLoad(path string, count int) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	noun := "habits"
	if count == 1 {
		noun = "habit"
	}
	fmt.Fprintf(cl.writer, "[%s] Loaded %d %s from %s\n", timestamp(), count, noun, path)
}

// LogCompletion logs a completed habit with its new streak at DEBUG level.
// Format: "[HH:MM:SS] Completed <name> (<periodicity>): streak <n>"
func (cl *ConsoleLogger) LogCompletion(habit *models.Habit) {
	if cl.writer == nil || habit == nil || !cl.shouldLog("debug") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	name := habit.Name
	streak := fmt.Sprintf("streak %d", habit.Streak())
	if cl.colorOutput {
		name = color.New(color.Bold).Sprint(name)
		streak = color.New(color.FgGreen).Sprint(streak)
	}
	fmt.Fprintf(cl.writer, "[%s] Completed %s (%s): %s\n", timestamp(), name, habit.Periodicity, streak)
}

// LogSave logs a save cycle at INFO level.
// Format: "[HH:MM:SS] Saved <n> habits to <path> (<duration>)", plus the
// number of removed records when there were any.
func (cl *ConsoleLogger) LogSave(summary SaveSummary) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	output := fmt.Sprintf("[%s] Saved %d habits to %s (%s)\n", ts, summary.Saved, summary.Path, formatDuration(summary.Duration))
	if summary.Deleted > 0 {
		removed := fmt.Sprintf("Removed %d deleted habits", summary.Deleted)
		if cl.colorOutput {
			removed = color.New(color.FgYellow).Sprint(removed)
		}
		output += fmt.Sprintf("[%s] %s\n", ts, removed)
	}

	cl.writer.Write([]byte(output))
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a short human-readable string.
// Examples: "12ms", "5s", "1m30s"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogDebug(message string) {}
func (n *NoOpLogger) LogInfo(message string) {}
func (n *NoOpLogger) LogWarn(message string) {}
func (n *NoOpLogger) LogError(message string) {}
func (n *NoOpLogger) LogLoad(path string, count int) {}
func (n *NoOpLogger) LogCompletion(habit *models.Habit) {}
func (n *NoOpLogger) LogSave(summary SaveSummary) {}
