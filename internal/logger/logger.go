// Package logger provides leveled logging for semdoc.
// Debug, Info and Warn messages are printed only when verbose mode is
// enabled via the --verbose flag. Error messages are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
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

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "[DEBUG] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "[INFO] "+format+"\n", args...)
	}
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "[WARN] "+format+"\n", args...)
	}
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(output, "[ERROR] "+format+"\n", args...)
}

// Fields is a set of key=value pairs appended to every message.
type Fields struct {
	suffix string
}

// With returns Fields for alternating key, value arguments.
// A trailing key without a value is dropped.
func With(kv ...any) Fields {
	return Fields{}.With(kv...)
}

// With returns a copy of f extended with more key, value pairs.
func (f Fields) With(kv ...any) Fields {
	var b strings.Builder
	b.WriteString(f.suffix)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%s", kv[i], quote(kv[i+1]))
	}
	return Fields{suffix: b.String()}
}

// Debug prints a debug message with fields if verbose mode is enabled.
func (f Fields) Debug(format string, args ...any) {
	Debug(format+f.escaped(), args...)
}

// Info prints an informational message with fields if verbose mode is enabled.
func (f Fields) Info(format string, args ...any) {
	Info(format+f.escaped(), args...)
}

// Warn prints a warning with fields if verbose mode is enabled.
func (f Fields) Warn(format string, args ...any) {
	Warn(format+f.escaped(), args...)
}

// Error prints an error with fields.
func (f Fields) Error(format string, args ...any) {
	Error(format+f.escaped(), args...)
}

func (f Fields) escaped() string {
	return strings.ReplaceAll(f.suffix, "%", "%%")
}

func quote(v any) string {
	s := fmt.Sprint(v)
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
