// Package analytics sends an opt-in, anonymous record of which intent
// types and phases a project passed through to PostHog. It never sees
// goal text, clarification answers, or plan content - only the two
// enum fields a transition already carries.
package analytics

import (
	"runtime"
	"time"

	"github.com/posthog/posthog-go"
)

// enqueuer is the subset of the PostHog client this package uses,
// narrowed so a fake can stand in for tests.
type enqueuer interface {
	Enqueue(msg posthog.Message) error
	Close() error
}

// Sink records transition events. A Sink built with no API key is a
// no-op, matching config.AnalyticsConfig's Enabled=false default.
type Sink struct {
	client     enqueuer
	distinctID string
}

// NewSink builds a Sink against apiKey/endpoint, or a no-op Sink if
// apiKey is empty.
func NewSink(apiKey, endpoint, distinctID string) (*Sink, error) {
	if apiKey == "" {
		return &Sink{}, nil
	}

	cfg := posthog.Config{
		BatchSize: 10,
		Interval:  time.Second,
		Logger:    quietLogger{},
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}

	client, err := posthog.NewWithConfig(apiKey, cfg)
	if err != nil {
		return nil, err
	}
	return &Sink{client: client, distinctID: distinctID}, nil
}

// Transition records one accepted intent's type and the phase it
// resulted in. It never blocks the caller on delivery.
func (s *Sink) Transition(intentType, phase string) {
	if s.client == nil {
		return
	}
	props := posthog.NewProperties().
		Set("intent_type", intentType).
		Set("phase", phase).
		Set("os", runtime.GOOS).
		Set("$process_person_profile", false)

	_ = s.client.Enqueue(posthog.Capture{
		DistinctId: s.distinctID,
		Event:      "orcaspine_transition",
		Properties: props,
	})
}

// Close flushes pending events.
func (s *Sink) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}
func (quietLogger) Logf(string, ...interface{})   {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}
