// Package logger provides structured JSON logging for the event pipeline.
//
// The logger supports DEBUG, INFO, WARN, and ERROR levels and emits one JSON
// object per line with a timestamp, the message, and any structured fields.
// A package-level default logger backs the convenience functions so the
// pipeline stages share one configuration.
//
// Example:
//
//	logger.Info("Finished trust site", logger.Fields{
//	    "site":   "https://www.groundworkrva.org/",
//	    "events": 12,
//	})
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger writes leveled, structured log entries
type Logger struct {
	mu       sync.Mutex
	minLevel Level
	output   io.Writer
}

// entry is the wire format of a single log line
type entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

var defaultLogger = New(LevelInfo, os.Stderr)

// New creates a logger that discards messages below the minimum level.
func New(level Level, output io.Writer) *Logger {
	return &Logger{minLevel: level, output: output}
}

// SetDefault replaces the package-level logger used by the convenience
// functions. Called once at startup after flags are parsed.
func SetDefault(l *Logger) {
	defaultLogger = l
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}
	if err != nil {
		e.Error = err.Error()
	}

	data, marshalErr := json.Marshal(e)
	if marshalErr != nil {
		// Fields can hold unmarshalable values; fall back to plain text
		l.mu.Lock()
		fmt.Fprintf(l.output, "[%s] %s: %s (marshal error: %v)\n",
			e.Timestamp, e.Level, e.Message, marshalErr)
		l.mu.Unlock()
		return
	}

	l.mu.Lock()
	fmt.Fprintln(l.output, string(data))
	l.mu.Unlock()
}

// Debug logs detailed diagnostic information.
func (l *Logger) Debug(message string, fields Fields) { l.log(LevelDebug, message, fields, nil) }

// Info logs general operational information.
func (l *Logger) Info(message string, fields Fields) { l.log(LevelInfo, message, fields, nil) }

// Warn logs a potential issue that does not stop the run.
func (l *Logger) Warn(message string, fields Fields) { l.log(LevelWarn, message, fields, nil) }

// Error logs a failure, attaching the error to the entry.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using the default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) { defaultLogger.Debug(message, fields) }

// Info logs an info message with the default logger
func Info(message string, fields Fields) { defaultLogger.Info(message, fields) }

// Warn logs a warning with the default logger
func Warn(message string, fields Fields) { defaultLogger.Warn(message, fields) }

// Error logs an error with the default logger
func Error(message string, fields Fields, err error) { defaultLogger.Error(message, fields, err) }
