// Package log provides human-friendly logging for skiff.
//
// Everything goes to stderr so that structured command output on stdout
// stays pipeable.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level represents log verbosity.
type Level int

const (
	LevelQuiet   Level = iota // Errors only
	LevelNormal               // Default - key events
	LevelVerbose              // Extra detail
)

// ANSI color codes
const (
	reset  = "\033[0m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
)

// Symbols for quick visual scanning
const (
	symOK   = "+"
	symFail = "!"
	symWarn = "~"
	symInfo = "-"
)

// Logger writes leveled, optionally colored lines.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
	color bool
}

var std = New(os.Stderr)

// New creates a logger.
func New(out io.Writer) *Logger {
	return &Logger{
		out:   out,
		level: LevelNormal,
		color: isTTY(out),
	}
}

// SetLevel sets the global log level.
func SetLevel(l Level) {
	std.mu.Lock()
	std.level = l
	std.mu.Unlock()
}

// SetOutput sets the global output.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	std.out = w
	std.color = isTTY(w)
	std.mu.Unlock()
}

// OK logs a success.
func OK(format string, args ...any) {
	std.log(LevelNormal, symOK, green, format, args...)
}

// Fail logs a failure.
func Fail(format string, args ...any) {
	std.log(LevelQuiet, symFail, red, format, args...)
}

// Warn logs a warning. Heads up, but not fatal.
func Warn(format string, args ...any) {
	std.log(LevelNormal, symWarn, yellow, format, args...)
}

// Info logs information.
func Info(format string, args ...any) {
	std.log(LevelNormal, symInfo, blue, format, args...)
}

// Verbose logs extra detail shown only with -v.
func Verbose(format string, args ...any) {
	std.log(LevelVerbose, symInfo, dim, format, args...)
}

// V returns true if verbose logging is enabled.
func V() bool {
	std.mu.Lock()
	v := std.level >= LevelVerbose
	std.mu.Unlock()
	return v
}

func (l *Logger) log(minLevel Level, sym, color, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level < minLevel {
		return
	}

	msg := fmt.Sprintf(format, args...)

	var line string
	if l.color {
		line = fmt.Sprintf("%s%s%s %s\n", color, sym, reset, msg)
	} else {
		line = fmt.Sprintf("%s %s\n", sym, msg)
	}

	l.out.Write([]byte(line))
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
