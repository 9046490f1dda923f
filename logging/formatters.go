package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const textTimeLayout = "2006-01-02 15:04:05.000"

// FormatterByName returns the formatter for a logging.format value
func FormatterByName(name string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return NewTextFormatter(), nil
	case "console":
		return &TextFormatter{Timestamp: true, Color: true}, nil
	case "json":
		return NewJSONFormatter(), nil
	case "simple":
		return NewSimpleFormatter(), nil
	}
	return nil, fmt.Errorf("unknown log format %q (want text, console, json or simple)", name)
}

// TextFormatter renders
//
//	[time] [LEVEL] [component] message (at line N) [k=v, ...]
//
// with the line taken from the "line" field.
type TextFormatter struct {
	Timestamp bool
	Color     bool
}

// NewTextFormatter returns a text formatter with timestamps and no colour
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{Timestamp: true}
}

func (f *TextFormatter) Format(entry *LogEntry) ([]byte, error) {
	var b strings.Builder
	if f.Timestamp {
		fmt.Fprintf(&b, "[%s] ", entry.Time.Format(textTimeLayout))
	}
	fmt.Fprintf(&b, "[%s] ", f.level(entry.Level))
	if entry.Component != "" {
		fmt.Fprintf(&b, "[%s] ", entry.Component)
	}
	b.WriteString(entry.Message)

	var rest []string
	for _, field := range entry.Fields {
		if field.Key == "line" {
			fmt.Fprintf(&b, " (at line %v)", field.Value)
			continue
		}
		rest = append(rest, fmt.Sprintf("%s=%v", field.Key, field.Value))
	}
	if len(rest) > 0 {
		b.WriteString(" [" + strings.Join(rest, ", ") + "]")
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func (f *TextFormatter) GetName() string {
	if f.Color {
		return "console"
	}
	return "text"
}

var levelColors = map[LogLevel]string{
	LevelDebug: "36",
	LevelInfo:  "32",
	LevelWarn:  "33",
	LevelError: "31",
}

func (f *TextFormatter) level(l LogLevel) string {
	code, ok := levelColors[l]
	if !f.Color || !ok {
		return l.String()
	}
	return "\x1b[" + code + "m" + l.String() + "\x1b[0m"
}

// JSONFormatter writes one JSON object per line. Fields are emitted in
// attachment order under "fields".
type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonEntry struct {
	Time      string          `json:"time"`
	Level     string          `json:"level"`
	Component string          `json:"component,omitempty"`
	Message   string          `json:"message"`
	Fields    json.RawMessage `json:"fields,omitempty"`
}

func (f *JSONFormatter) Format(entry *LogEntry) ([]byte, error) {
	out := jsonEntry{
		Time:      entry.Time.Format(time.RFC3339Nano),
		Level:     entry.Level.String(),
		Component: entry.Component,
		Message:   entry.Message,
	}
	if len(entry.Fields) > 0 {
		fields, err := orderedObject(entry.Fields)
		if err != nil {
			return nil, err
		}
		out.Fields = fields
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (f *JSONFormatter) GetName() string {
	return "json"
}

func orderedObject(fields []LogField) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SimpleFormatter writes "LEVEL message" and nothing else
type SimpleFormatter struct{}

func NewSimpleFormatter() *SimpleFormatter {
	return &SimpleFormatter{}
}

func (f *SimpleFormatter) Format(entry *LogEntry) ([]byte, error) {
	return []byte(entry.Level.String() + " " + entry.Message + "\n"), nil
}

func (f *SimpleFormatter) GetName() string {
	return "simple"
}
