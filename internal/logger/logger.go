// Package logger provides leveled logging for searchsync.
//
// Warnings and errors always print, since a webhook that drops an event
// must leave a trace. Debug, Info and Section output appears only with
// --verbose. Components take a Named logger so their lines carry a prefix.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

var (
	mu        sync.RWMutex
	threshold Level     = LevelWarn
	output    io.Writer = os.Stderr
)

// SetVerbose lowers the threshold to debug, or restores it to warn.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	if v {
		threshold = LevelDebug
	} else {
		threshold = LevelWarn
	}
}

// IsVerbose reports whether debug output is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return threshold <= LevelDebug
}

// SetOutput redirects all log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Enabled reports whether messages at l are printed.
func Enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= threshold
}

func write(l Level, prefix, format string, args []any) {
	mu.RLock()
	defer mu.RUnlock()
	if l < threshold {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if prefix != "" {
		fmt.Fprintf(output, "[%s] %s: %s\n", l, prefix, msg)
		return
	}
	fmt.Fprintf(output, "[%s] %s\n", l, msg)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) { write(LevelDebug, "", format, args) }

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) { write(LevelInfo, "", format, args) }

// Warn prints a warning regardless of verbose mode.
func Warn(format string, args ...any) { write(LevelWarn, "", format, args) }

// Error prints an error regardless of verbose mode.
func Error(format string, args ...any) { write(LevelError, "", format, args) }

// Section prints a header between phases when verbose.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if threshold <= LevelDebug {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Logger writes through the package output with a component prefix.
type Logger struct {
	name string
}

// Named returns a logger whose lines are prefixed with name.
func Named(name string) *Logger {
	return &Logger{name: name}
}

// Name returns the component prefix.
func (l *Logger) Name() string { return l.name }

func (l *Logger) Debug(format string, args ...any) { write(LevelDebug, l.name, format, args) }
func (l *Logger) Info(format string, args ...any)  { write(LevelInfo, l.name, format, args) }
func (l *Logger) Warn(format string, args ...any)  { write(LevelWarn, l.name, format, args) }
func (l *Logger) Error(format string, args ...any) { write(LevelError, l.name, format, args) }
