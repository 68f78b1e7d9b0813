package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/logging"
)

// CloudSink ships log lines straight to GCP Cloud Logging via its API.
// The default Logger output already matches what the Cloud Logging
// agent scrapes off a GCP VM's stdout; this sink covers deployments
// where no agent runs (containers, laptops with ADC configured).
// It plugs in as the Logger's writer: each Write receives exactly one
// marshalled LogEntry line.
type CloudSink struct {
	client *logging.Client
	logger *logging.Logger
}

// NewCloudSink connects to Cloud Logging for gcpProject and writes
// entries under logID. Credentials come from Application Default
// Credentials.
func NewCloudSink(ctx context.Context, gcpProject, logID string) (*CloudSink, error) {
	client, err := logging.NewClient(ctx, gcpProject)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create cloud logging client: %w", err)
	}
	return &CloudSink{client: client, logger: client.Logger(logID)}, nil
}

// Write forwards one log line synchronously. LogSync keeps delivery
// ordered with the transition that produced the line and means there is
// no buffered backlog to flush on exit.
func (s *CloudSink) Write(p []byte) (int, error) {
	entry, err := cloudEntry(p)
	if err != nil {
		return 0, err
	}
	if err := s.logger.LogSync(context.Background(), entry); err != nil {
		return 0, fmt.Errorf("telemetry: ship log entry: %w", err)
	}
	return len(p), nil
}

// Close releases the underlying client.
func (s *CloudSink) Close() error {
	return s.client.Close()
}

// cloudEntry lifts severity, timestamp, and labels out of a marshalled
// LogEntry line so Cloud Logging can index them, keeping the full line
// verbatim as the structured payload.
func cloudEntry(line []byte) (logging.Entry, error) {
	var e LogEntry
	if err := json.Unmarshal(line, &e); err != nil {
		return logging.Entry{}, fmt.Errorf("telemetry: parse log line: %w", err)
	}
	return logging.Entry{
		Timestamp: e.Timestamp,
		Severity:  logging.ParseSeverity(string(e.Severity)),
		Payload:   json.RawMessage(line),
		Labels:    e.Labels,
	}, nil
}
