// Package logger provides the leveled console logger used by the grob CLI.
//
// Output is timestamped, mutex-guarded and color-coded when the
// destination is a terminal.
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
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// Logger writes leveled, timestamped messages to a single destination.
// A nil Logger discards everything.
type Logger struct {
	writer io.Writer
	level  int
	color  bool
	mu     sync.Mutex
}

// New creates a Logger writing to w at the given minimum level (debug,
// info, warn or error; case-insensitive; empty or unknown defaults to
// info). Color output is enabled when w is a terminal and the color
// library's NO_COLOR handling allows it.
func New(w io.Writer, level string) *Logger {
	return &Logger{
		writer: w,
		level:  parseLevel(level),
		color:  isTerminal(w),
	}
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, args ...any) {
	l.logf(levelDebug, "DEBUG", format, args...)
}

// Infof logs an info-level message.
func (l *Logger) Infof(format string, args ...any) {
	l.logf(levelInfo, "INFO", format, args...)
}

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.logf(levelWarn, "WARN", format, args...)
}

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(levelError, "ERROR", format, args...)
}

func (l *Logger) logf(level int, label string, format string, args ...any) {
	if l == nil || l.writer == nil || level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.color {
		label = colorize(label)
	}
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(l.writer, "[%s] [%s] %s\n", ts, label, fmt.Sprintf(format, args...))
}

func colorize(label string) string {
	switch label {
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(label)
	case "INFO":
		return color.New(color.FgBlue).Sprint(label)
	case "WARN":
		return color.New(color.FgYellow).Sprint(label)
	case "ERROR":
		return color.New(color.FgRed).Sprint(label)
	default:
		return label
	}
}
