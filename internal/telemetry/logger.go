// Package telemetry provides structured logging and metrics for the
// orchestrator façade and dispatcher. The logger emits one JSON line per
// event, in the same shape GCP's Cloud Logging agent expects when it reads
// structured JSON from a process's stdout/stderr — so the same binary works
// unmodified whether or not it happens to be running on a GCP VM.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/andywolf/orcaspine/internal/security"
)

// Severity mirrors GCP Cloud Logging's severity enum.
type Severity string

const (
	SeverityDefault  Severity = "DEFAULT"
	SeverityDebug    Severity = "DEBUG"
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// LogEntry is a single structured log line.
type LogEntry struct {
	Severity  Severity               `json:"severity"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	ProjectID string                 `json:"project_id"`
	Version   int                    `json:"version"`
	Labels    map[string]string      `json:"labels,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger is the structured logging sink used by the façade and dispatcher.
// It is intentionally not an interface with many implementations: every
// deployment target (local dev, GCP VM, container) reads the same JSON
// line format, so there is only ever one concrete type.
type Logger struct {
	mu        sync.Mutex
	writer    io.Writer
	projectID string
	version   int
	labels    map[string]string
}

// Option configures a Logger.
type Option func(*Logger)

// WithWriter overrides the destination (default os.Stdout).
func WithWriter(w io.Writer) Option {
	return func(l *Logger) { l.writer = w }
}

// WithLabels merges additional constant labels into every entry.
func WithLabels(labels map[string]string) Option {
	return func(l *Logger) {
		for k, v := range labels {
			l.labels[k] = v
		}
	}
}

// New creates a Logger scoped to a single project id.
func New(projectID string, opts ...Option) *Logger {
	l := &Logger{
		writer:    os.Stdout,
		projectID: projectID,
		labels: map[string]string{
			"project_id": projectID,
			"component":  "orcaspine-orchestrator",
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetVersion updates the ProjectState.version stamped onto subsequent entries.
func (l *Logger) SetVersion(version int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.version = version
}

// Log writes a structured entry at the given severity. Message and
// string field values frequently carry planner or executor free text
// (errors, stderr, artifacts), so both are scrubbed before the line is
// emitted.
func (l *Logger) Log(severity Severity, message string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Severity:  severity,
		Message:   security.Scrub(message),
		Timestamp: time.Now().UTC(),
		ProjectID: l.projectID,
		Version:   l.version,
		Labels:    l.labels,
		Fields:    scrubFields(fields),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.writer, `{"severity":"ERROR","message":"failed to marshal log entry: %v"}`+"\n", err)
		return
	}
	fmt.Fprintf(l.writer, "%s\n", data)
}

// scrubFields redacts string-valued fields into a fresh map; the
// caller's map is never mutated.
func scrubFields(fields map[string]interface{}) map[string]interface{} {
	if len(fields) == 0 {
		return fields
	}
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok {
			out[k] = security.Scrub(s)
		} else {
			out[k] = v
		}
	}
	return out
}

func (l *Logger) Info(message string, fields map[string]interface{}) {
	l.Log(SeverityInfo, message, fields)
}

func (l *Logger) Warn(message string, fields map[string]interface{}) {
	l.Log(SeverityWarning, message, fields)
}

func (l *Logger) Error(message string, fields map[string]interface{}) {
	l.Log(SeverityError, message, fields)
}

// Transition logs a single accepted state transition, matching the fields
// recorded in ProjectState.history (TransitionRecord).
func (l *Logger) Transition(intentType, from, to string) {
	l.Info("transition applied", map[string]interface{}{
		"intent_type": intentType,
		"from":        from,
		"to":          to,
	})
}

// Effect logs the outcome of dispatching a single side effect.
func (l *Logger) Effect(kind string, err error) {
	if err != nil {
		l.Warn("effect dispatch failed", map[string]interface{}{"kind": kind, "error": err.Error()})
		return
	}
	l.Info("effect dispatched", map[string]interface{}{"kind": kind})
}
