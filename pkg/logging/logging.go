// Package logging provides the structured JSON logger used across the
// compile pipeline. Log lines carry a component field (schematic,
// translate, solver, ir) and a per-run id so a full solve can be traced
// end to end.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level is the minimum severity a logger emits.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a string to a Level, defaulting to Info.
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG", "debug":
		return DebugLevel
	case "WARN", "warn", "WARNING", "warning":
		return WarnLevel
	case "ERROR", "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// EnvLevel is the environment variable controlling the default level.
const EnvLevel = "MANIFOLD_LOG_LEVEL"

// Field is one structured key-value pair.
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logging interface.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type entry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// JSONLogger writes one JSON object per line.
type JSONLogger struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	preset []Field
}

// New creates a JSON logger at the given level.
func New(w io.Writer, level Level) *JSONLogger {
	return &JSONLogger{w: w, level: level}
}

// Default returns a stderr logger at the level named by EnvLevel.
func Default() *JSONLogger {
	return New(os.Stderr, ParseLevel(os.Getenv(EnvLevel)))
}

func (l *JSONLogger) log(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}
	var fm map[string]any
	if len(l.preset)+len(fields) > 0 {
		fm = make(map[string]any, len(l.preset)+len(fields))
		for _, f := range l.preset {
			fm[f.Key] = f.Value
		}
		for _, f := range fields {
			fm[f.Key] = f.Value
		}
	}
	e := entry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
		Fields:  fm,
	}
	data, err := json.Marshal(e)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"level":"ERROR","msg":"logging: marshal failed: %v"}`, err))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(append(data, '\n'))
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// With returns a child logger carrying the fields on every line.
func (l *JSONLogger) With(fields ...Field) Logger {
	child := &JSONLogger{w: l.w, level: l.level}
	child.preset = append(append([]Field{}, l.preset...), fields...)
	return child
}

// Nop discards everything. Used as the default in library types so a nil
// check never litters call sites.
type Nop struct{}

func (Nop) Debug(string, ...Field) {}
func (Nop) Info(string, ...Field)  {}
func (Nop) Warn(string, ...Field)  {}
func (Nop) Error(string, ...Field) {}
func (n Nop) With(...Field) Logger { return n }

// Field constructors.

func String(key, value string) Field    { return Field{Key: key, Value: value} }
func Int(key string, value int) Field   { return Field{Key: key, Value: value} }
func Float64(key string, v float64) Field { return Field{Key: key, Value: v} }
func Duration(key string, d time.Duration) Field {
	return Field{Key: key, Value: d.String()}
}

// Err wraps an error value; nil stays nil in the output.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component tags the pipeline stage a line came from.
func Component(name string) Field { return String("component", name) }
