// Package logging - logger.go
//
// Levelled file logging shared by every package of the bot.
//
// Behaviour:
//   - One log file per session, truncated (O_TRUNC) when the logger starts
//   - Four levels: DEBUG, INFO, WARN, ERROR
//   - Microsecond timestamps so perception/action interleaving can be read back
//   - DEBUG lines are dropped unless verbose mode is on
//   - Package-level helpers write to the global logger and are no-ops before Init
//
// Level usage:
//   - DEBUG: per-tick detail (match scores, click timing, pixel samples)
//   - INFO: phase transitions, calibrations, startup and shutdown
//   - WARN: recoverable oddities (clamped anchors, weak matches, missing direction)
//   - ERROR: failures that end the run
package logging

import (
	"fmt"
	"io"
	"log"
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

// String returns the tag written in front of every line.
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
		return "UNKNOWN"
	}
}

// Logger is a mutex-guarded levelled logger.
//
// Safe for concurrent use: the perception and action loops log from
// separate goroutines.
type Logger struct {
	closer io.Closer
	logger *log.Logger
	min    Level
	mu     sync.Mutex
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// New creates a logger writing to w. Lines below min are discarded.
func New(w io.Writer, min Level) *Logger {
	return &Logger{
		logger: log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		min:    min,
	}
}

// Init opens path (clearing any previous session) and installs it as the
// global logger.
func Init(path string, verbose bool) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	min := LevelInfo
	if verbose {
		min = LevelDebug
	}
	l := New(file, min)
	l.closer = file

	SetDefault(l)
	l.Info("Logger initialized (log file cleared)")
	return nil
}

// SetDefault replaces the global logger. Passing nil silences the helpers.
func SetDefault(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Close flushes and closes the global log file, if any.
func Close() {
	globalMu.Lock()
	l := globalLogger
	globalLogger = nil
	globalMu.Unlock()

	if l == nil {
		return
	}
	l.Info("Logger closing")
	if l.closer != nil {
		l.closer.Close()
	}
}

func (l *Logger) printf(level Level, format string, v ...interface{}) {
	if level < l.min {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Printf("["+level.String()+"] "+format, v...)
}

// Debug logs debug level messages
func (l *Logger) Debug(format string, v ...interface{}) { l.printf(LevelDebug, format, v...) }

// Info logs info level messages
func (l *Logger) Info(format string, v ...interface{}) { l.printf(LevelInfo, format, v...) }

// Warn logs warning level messages
func (l *Logger) Warn(format string, v ...interface{}) { l.printf(LevelWarn, format, v...) }

// Error logs error level messages
func (l *Logger) Error(format string, v ...interface{}) { l.printf(LevelError, format, v...) }

func current() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Debug is a convenience function for debug logging
func Debug(format string, v ...interface{}) {
	if l := current(); l != nil {
		l.Debug(format, v...)
	}
}

// Info is a convenience function for info logging
func Info(format string, v ...interface{}) {
	if l := current(); l != nil {
		l.Info(format, v...)
	}
}

// Warn is a convenience function for warning logging
func Warn(format string, v ...interface{}) {
	if l := current(); l != nil {
		l.Warn(format, v...)
	}
}

// Error is a convenience function for error logging
func Error(format string, v ...interface{}) {
	if l := current(); l != nil {
		l.Error(format, v...)
	}
}
