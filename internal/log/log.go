// Package log writes leveled, categorized key=value lines to a debug file.
//
// Logging is off until one of the Init functions installs a logger; the
// swipe command does so when --debug or SWIPE_DEBUG is set. Before that,
// every call is a cheap no-op.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel reads a level name case-insensitively, e.g. from SWIPE_LOG_LEVEL.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelDebug, fmt.Errorf("unknown log level %q", s)
}

// Category groups related log messages.
type Category string

const (
	CatPubSub  Category = "pubsub"  // observer bookkeeping
	CatGesture Category = "gesture" // touch lifecycle and classification
	CatConfig  Category = "config"
	CatWatcher Category = "watcher"
	CatUI      Category = "ui"
	CatHistory Category = "history"
	CatTrace   Category = "trace"
	CatReplay  Category = "replay"
)

// Logger is one log destination.
type Logger struct {
	mu       sync.Mutex
	w        io.Writer
	enabled  bool
	minLevel Level
}

var current atomic.Pointer[Logger]

func install(w io.Writer, minLevel Level) *Logger {
	l := &Logger{w: w, enabled: true, minLevel: minLevel}
	current.Store(l)
	return l
}

// Init appends to the file at path and returns a function closing it.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: debug log path is user-controlled
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	install(f, LevelDebug)
	return func() { _ = f.Close() }, nil
}

// InitWithTeaLog opens path through tea.LogToFile so Bubble Tea's own
// debug output lands in the same file.
func InitWithTeaLog(path string, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, err
	}
	install(f, LevelDebug)
	return func() { _ = f.Close() }, nil
}

// InitWithWriter routes log output to w at the given minimum level.
// The returned function restores the previous logger.
func InitWithWriter(w io.Writer, minLevel Level) func() {
	prev := current.Load()
	install(w, minLevel)
	return func() { current.Store(prev) }
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := current.Load(); l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel drops entries below level.
func SetMinLevel(level Level) {
	if l := current.Load(); l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

func Debug(cat Category, msg string, fields ...any) { write(LevelDebug, cat, msg, fields) }
func Info(cat Category, msg string, fields ...any)  { write(LevelInfo, cat, msg, fields) }
func Warn(cat Category, msg string, fields ...any)  { write(LevelWarn, cat, msg, fields) }
func Error(cat Category, msg string, fields ...any) { write(LevelError, cat, msg, fields) }

// ErrorErr logs at error level with err appended as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	errText := "<nil>"
	if err != nil {
		errText = err.Error()
	}
	write(LevelError, cat, msg, append(fields, "error", errText))
}

func write(level Level, cat Category, msg string, fields []any) {
	l := current.Load()
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || level < l.minLevel {
		return
	}
	_, _ = io.WriteString(l.w, formatEntry(time.Now(), level, cat, msg, fields...))
}

// formatEntry renders one line:
//
//	2025-12-06T10:45:00 [WARN] [pubsub] message key=value key2="two words"
func formatEntry(ts time.Time, level Level, cat Category, msg string, fields ...any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", ts.Format("2006-01-02T15:04:05"), level, cat, msg)

	for i := 0; i < len(fields); i += 2 {
		if i+1 == len(fields) {
			fmt.Fprintf(&b, " %v=<missing>", fields[i])
			break
		}
		value := fmt.Sprint(fields[i+1])
		if strings.ContainsAny(value, " \t\n\"") {
			value = fmt.Sprintf("%q", value)
		}
		fmt.Fprintf(&b, " %v=%s", fields[i], value)
	}
	b.WriteByte('\n')
	return b.String()
}
