// Package logger provides verbose diagnostic logging for kbsearch.
// Logging is scoped: each part of the pipeline obtains a Logger via
// Scope and every line it writes carries that scope, so a --verbose
// run reads as an interleaved trace of feed, session, and history
// activity.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Logger writes lines scoped to one component of the pipeline.
// The zero value writes unscoped lines.
type Logger struct {
	scope string
}

// Scope returns a Logger whose lines are prefixed with name.
func Scope(name string) Logger {
	return Logger{scope: name}
}

// Debug writes a debug-level line if verbose mode is enabled.
func (l Logger) Debug(format string, args ...any) {
	l.write("DEBUG", format, args)
}

// Info writes an informational line if verbose mode is enabled.
func (l Logger) Info(format string, args ...any) {
	l.write("INFO", format, args)
}

// Warn writes a warning line if verbose mode is enabled.
func (l Logger) Warn(format string, args ...any) {
	l.write("WARN", format, args)
}

func (l Logger) write(level, format string, args []any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	prefix := "[" + level + "]"
	if l.scope != "" {
		prefix += " " + l.scope + ":"
	}
	fmt.Fprintf(output, prefix+" "+format+"\n", args...)
}

// Debug writes an unscoped debug-level line.
func Debug(format string, args ...any) {
	Logger{}.Debug(format, args...)
}

// Info writes an unscoped informational line.
func Info(format string, args ...any) {
	Logger{}.Info(format, args...)
}

// Warn writes an unscoped warning line.
func Warn(format string, args ...any) {
	Logger{}.Warn(format, args...)
}
