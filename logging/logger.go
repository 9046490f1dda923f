package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"abapsim/errors"
)

// LogLevel represents the severity level of a log entry
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "OFF"}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelOff {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel converts a configuration string into a LogLevel
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "off", "none", "quiet":
		return LevelOff, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level %q (want debug, info, warn, error or off)", level)
}

// LogField is one key-value pair attached to an entry
type LogField struct {
	Key   string
	Value interface{}
}

// LogEntry is what formatters render. Fields keep the order they were
// attached in; a later field with the same key replaces the earlier one.
type LogEntry struct {
	Time      time.Time
	Level     LogLevel
	Component string
	Message   string
	Fields    []LogField
}

// Lookup returns the value of the field named key
func (e *LogEntry) Lookup(key string) (interface{}, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Logger is the structured logger the engine, parser, REPL and CLI write to.
// Program output never goes through it.
type Logger interface {
	Debug(msg string, fields ...LogField)
	Info(msg string, fields ...LogField)
	Warn(msg string, fields ...LogField)
	Error(msg string, fields ...LogField)

	// ErrorExecution logs err with its code and line when it carries them
	ErrorExecution(err error, fields ...LogField)

	WithFields(fields ...LogField) Logger
	WithComponent(component string) Logger

	SetLevel(level LogLevel)
	GetLevel() LogLevel
	Enabled(level LogLevel) bool
}

// Formatter renders one entry, including the trailing newline
type Formatter interface {
	Format(entry *LogEntry) ([]byte, error)
	GetName() string
}

// sink is shared by a logger and every logger derived from it, so a level
// change on the root reaches component loggers too.
type sink struct {
	level     atomic.Int32
	mu        sync.Mutex
	formatter Formatter
	writer    Writer
}

func (s *sink) write(entry *LogEntry) {
	data, err := s.formatter.Format(entry)
	if err != nil {
		data = []byte(fmt.Sprintf("%s %s (unformattable entry: %v)\n", entry.Level, entry.Message, err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writer.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "abapsim: log write failed: %v\n", err)
	}
}

// DefaultLogger writes formatted entries to one Writer
type DefaultLogger struct {
	sink      *sink
	component string
	fields    []LogField
}

// LoggerConfig contains configuration for the logger
type LoggerConfig struct {
	Level     LogLevel
	Formatter Formatter
	Writer    Writer
}

// NewDefaultLogger creates an info-level text logger on stderr
func NewDefaultLogger() *DefaultLogger {
	return NewDefaultLoggerWithConfig(LoggerConfig{Level: LevelInfo})
}

// NewDefaultLoggerWithConfig creates a logger; a nil formatter means text
// and a nil writer means stderr.
func NewDefaultLoggerWithConfig(config LoggerConfig) *DefaultLogger {
	s := &sink{formatter: config.Formatter, writer: config.Writer}
	if s.formatter == nil {
		s.formatter = NewTextFormatter()
	}
	if s.writer == nil {
		s.writer = NewStderrWriter()
	}
	s.level.Store(int32(config.Level))
	return &DefaultLogger{sink: s}
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() *DefaultLogger {
	return NewDefaultLoggerWithConfig(LoggerConfig{Level: LevelOff, Writer: Discard})
}

// NewLoggerFromSettings builds a logger from the logging section of the
// config file. An empty file path logs to stderr.
func NewLoggerFromSettings(level, format, file string) (*DefaultLogger, error) {
	parsed, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	formatter, err := FormatterByName(format)
	if err != nil {
		return nil, err
	}
	config := LoggerConfig{Level: parsed, Formatter: formatter}
	if file != "" {
		fw, err := NewFileWriter(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		config.Writer = fw
	}
	return NewDefaultLoggerWithConfig(config), nil
}

func (l *DefaultLogger) Debug(msg string, fields ...LogField) { l.log(LevelDebug, msg, fields) }
func (l *DefaultLogger) Info(msg string, fields ...LogField) { l.log(LevelInfo, msg, fields) }
func (l *DefaultLogger) Warn(msg string, fields ...LogField) { l.log(LevelWarn, msg, fields) }
func (l *DefaultLogger) Error(msg string, fields ...LogField) { l.log(LevelError, msg, fields) }

// ErrorExecution logs an execution error. Guard failures are converted to
// their ExecutionError form first.
func (l *DefaultLogger) ErrorExecution(err error, fields ...LogField) {
	if err == nil || !l.Enabled(LevelError) {
		return
	}
	var re *errors.ResourceExceededError
	if errors.As(err, &re) {
		err = re.AsExecutionError()
	}
	execErr, ok := errors.AsExecutionError(err)
	if !ok {
		l.log(LevelError, err.Error(), fields)
		return
	}
	fields = append(fields, CodeField(execErr.Code), StringField("error_type", string(execErr.Type)))
	if execErr.Line > 0 {
		fields = append(fields, LineField(execErr.Line))
	}
	l.log(LevelError, execErr.Message, fields)
}

// WithFields returns a logger that attaches fields to every entry
func (l *DefaultLogger) WithFields(fields ...LogField) Logger {
	child := *l
	child.fields = append(append([]LogField(nil), l.fields...), fields...)
	return &child
}

// WithComponent returns a logger tagged with component
func (l *DefaultLogger) WithComponent(component string) Logger {
	child := *l
	child.component = component
	return &child
}

// SetLevel changes the level of this logger and every logger sharing its sink
func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.sink.level.Store(int32(level))
}

func (l *DefaultLogger) GetLevel() LogLevel {
	return LogLevel(l.sink.level.Load())
}

// Enabled reports whether entries at level would be written
func (l *DefaultLogger) Enabled(level LogLevel) bool {
	current := l.GetLevel()
	return current != LevelOff && level >= current
}

// Close closes the underlying writer
func (l *DefaultLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.writer.Close()
}

func (l *DefaultLogger) log(level LogLevel, msg string, fields []LogField) {
	if !l.Enabled(level) {
		return
	}
	entry := &LogEntry{
		Time:      time.Now(),
		Level:     level,
		Component: l.component,
		Message:   msg,
		Fields:    mergeFields(l.fields, fields),
	}
	l.sink.write(entry)
}

func mergeFields(base, extra []LogField) []LogField {
	if len(base)+len(extra) == 0 {
		return nil
	}
	out := make([]LogField, 0, len(base)+len(extra))
	index := make(map[string]int, cap(out))
	for _, group := range [][]LogField{base, extra} {
		for _, f := range group {
			if i, ok := index[f.Key]; ok {
				out[i] = f
				continue
			}
			index[f.Key] = len(out)
			out = append(out, f)
		}
	}
	return out
}

// Field creates a field with an arbitrary value
func Field(key string, value interface{}) LogField {
	return LogField{Key: key, Value: value}
}

func StringField(key, value string) LogField { return LogField{Key: key, Value: value} }
func IntField(key string, value int) LogField { return LogField{Key: key, Value: value} }
func Int64Field(key string, value int64) LogField { return LogField{Key: key, Value: value} }
func BoolField(key string, value bool) LogField { return LogField{Key: key, Value: value} }
func DurationField(key string, d time.Duration) LogField { return LogField{Key: key, Value: d.String()} }

// ErrorField stores the error text, or "<nil>"
func ErrorField(key string, err error) LogField {
	if err == nil {
		return LogField{Key: key, Value: "<nil>"}
	}
	return LogField{Key: key, Value: err.Error()}
}

// LineField tags an entry with a 1-based source line
func LineField(line int) LogField {
	return LogField{Key: "line", Value: line}
}

// CodeField tags an entry with an error or warning code
func CodeField(code string) LogField {
	return LogField{Key: "code", Value: code}
}
