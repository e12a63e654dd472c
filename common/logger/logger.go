package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents log level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var levelColors = map[Level]string{
	DEBUG: "\033[36m", // Cyan
	INFO:  "\033[32m", // Green
	WARN:  "\033[33m", // Yellow
	ERROR: "\033[31m", // Red
	FATAL: "\033[35m", // Magenta
}

const colorReset = "\033[0m"

// Config holds logger configuration
type Config struct {
	Level       Level
	Output      io.Writer
	JSONFormat  bool
	EnableColor bool
	ShowCaller  bool
	TimeFormat  string
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *Config {
	level := INFO
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		level = parseLevel(lvl)
	}

	return &Config{
		Level:       level,
		Output:      os.Stderr,
		JSONFormat:  os.Getenv("LOG_FORMAT") == "json",
		EnableColor: os.Getenv("LOG_COLOR") != "false",
		ShowCaller:  true,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
	}
}

// Logger represents a structured logger
type Logger struct {
	config *Config
	fields map[string]interface{}
	mu     sync.RWMutex
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Caller    string                 `json:"caller,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// New creates a new logger with given config
func New(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	return &Logger{
		config: config,
		fields: make(map[string]interface{}),
	}
}

// Default returns the default logger singleton
func Default() *Logger {
	once.Do(func() {
		defaultLogger = New(nil)
	})
	return defaultLogger
}

// With creates a child logger with an additional field
func (l *Logger) With(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields creates a child logger with multiple additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	newLogger := &Logger{
		config: l.config,
		fields: make(map[string]interface{}),
	}
	l.mu.RLock()
	for k, v := range l.fields {
		newLogger.fields[k] = v
	}
	l.mu.RUnlock()
	for k, v := range fields {
		newLogger.fields[k] = v
	}
	return newLogger
}

// WithError adds error field to logger
func (l *Logger) WithError(err error) *Logger {
	return l.With("error", err.Error())
}

// Log methods

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(DEBUG, msg, args...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(INFO, msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(WARN, msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(ERROR, msg, args...)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.log(FATAL, msg, args...)
	os.Exit(1)
}

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	if level < l.config.Level {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(l.config.TimeFormat),
		Level:     levelNames[level],
		Message:   msg,
	}

	if l.config.ShowCaller {
		if _, file, line, ok := runtime.Caller(2); ok {
			entry.Caller = fmt.Sprintf("%s:%d", shortenPath(file), line)
		}
	}

	l.mu.RLock()
	if len(l.fields) > 0 {
		entry.Fields = make(map[string]interface{})
		for k, v := range l.fields {
			entry.Fields[k] = v
		}
	}
	l.mu.RUnlock()

	if l.config.JSONFormat {
		l.outputJSON(entry)
	} else {
		l.outputText(level, entry)
	}
}

func (l *Logger) outputJSON(entry LogEntry) {
	data, _ := json.Marshal(entry)
	fmt.Fprintln(l.config.Output, string(data))
}

func (l *Logger) outputText(level Level, entry LogEntry) {
	var sb strings.Builder

	if l.config.EnableColor {
		sb.WriteString(levelColors[level])
	}

	sb.WriteString(entry.Timestamp)
	sb.WriteString(" ")
	sb.WriteString(fmt.Sprintf("[%-5s]", entry.Level))
	sb.WriteString(" ")

	if l.config.EnableColor {
		sb.WriteString(colorReset)
	}

	if entry.Caller != "" {
		sb.WriteString(fmt.Sprintf("[%s] ", entry.Caller))
	}

	sb.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		sb.WriteString(" | ")
		first := true
		for k, v := range entry.Fields {
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s=%v", k, v))
			first = false
		}
	}

	fmt.Fprintln(l.config.Output, sb.String())
}

// ============================================================
// API Call Logger - outbound request/response logging
// ============================================================

// CallLog represents an outbound API call log
type CallLog struct {
	Method   string        `json:"method"`
	Path     string        `json:"path"`
	Status   int           `json:"status"`
	Duration time.Duration `json:"duration_ms"`
	Error    string        `json:"error,omitempty"`
}

// LogCall logs an outbound API call
func (l *Logger) LogCall(call CallLog) {
	level := DEBUG
	if call.Error != "" || call.Status >= 500 {
		level = ERROR
	} else if call.Status >= 400 {
		level = WARN
	}

	msg := fmt.Sprintf("%s %s -> %d (%s)",
		call.Method, call.Path, call.Status, call.Duration)

	fields := map[string]interface{}{
		"method":      call.Method,
		"path":        call.Path,
		"status":      call.Status,
		"duration_ms": call.Duration.Milliseconds(),
	}
	if call.Error != "" {
		fields["error"] = call.Error
	}

	l.WithFields(fields).log(level, msg)
}

// ============================================================
// Helper functions
// ============================================================

func parseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

func shortenPath(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) > 2 {
		return strings.Join(parts[len(parts)-2:], "/")
	}
	return path
}

// ============================================================
// Package-level convenience functions
// ============================================================

func Debug(msg string, args ...interface{}) { Default().Debug(msg, args...) }
func Info(msg string, args ...interface{})  { Default().Info(msg, args...) }
func Warn(msg string, args ...interface{})  { Default().Warn(msg, args...) }
func Error(msg string, args ...interface{}) { Default().Error(msg, args...) }
func Fatal(msg string, args ...interface{}) { Default().Fatal(msg, args...) }

func With(key string, value interface{}) *Logger       { return Default().With(key, value) }
func WithFields(fields map[string]interface{}) *Logger { return Default().WithFields(fields) }
func WithError(err error) *Logger                      { return Default().WithError(err) }
