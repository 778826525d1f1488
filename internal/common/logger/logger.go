package logger

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes line-delimited JSON to stdout. One instance per component;
// the component name ends up in the "service" field of every entry.
type Logger struct {
	service string
	mu      *sync.Mutex
	out     io.Writer
}

var stdoutMu sync.Mutex

func New(service string) *Logger {
	return &Logger{service: service, mu: &stdoutMu, out: os.Stdout}
}

// NewWriter is used by tests to capture output.
func NewWriter(service string, w io.Writer) *Logger {
	return &Logger{service: service, mu: &sync.Mutex{}, out: w}
}

func (l *Logger) log(level, action string, fields map[string]any, err error) {
	entry := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"level":     level,
		"service":   l.service,
		"action":    action,
		"hostname":  hostname(),
	}
	for k, v := range fields {
		entry[k] = v
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = json.NewEncoder(l.out).Encode(entry)
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log("INFO", action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log("DEBUG", action, fields, nil) }
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log("ERROR", action, fields, err)
}

func hostname() string { h, _ := os.Hostname(); return h }
