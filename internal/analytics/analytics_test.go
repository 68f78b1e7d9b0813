package analytics

import (
	"testing"

	"github.com/posthog/posthog-go"
)

type fakeEnqueuer struct {
	captured []posthog.Capture
	closed   bool
}

func (f *fakeEnqueuer) Enqueue(msg posthog.Message) error {
	if c, ok := msg.(posthog.Capture); ok {
		f.captured = append(f.captured, c)
	}
	return nil
}

func (f *fakeEnqueuer) Close() error {
	f.closed = true
	return nil
}

func TestSink_NoAPIKeyIsNoOp(t *testing.T) {
	sink, err := NewSink("", "", "p1")
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}

	// Should not panic and should do nothing observable.
	sink.Transition("create_project", "planning")
	if err := sink.Close(); err != nil {
		t.Errorf("Close() on no-op sink: %v", err)
	}
}

func TestSink_TransitionOnlyCarriesTypeAndPhase(t *testing.T) {
	fake := &fakeEnqueuer{}
	sink := &Sink{client: fake, distinctID: "p1"}

	sink.Transition("approve_plan", "executing")

	if len(fake.captured) != 1 {
		t.Fatalf("captured %d events, want 1", len(fake.captured))
	}

	got := fake.captured[0]
	if got.DistinctId != "p1" {
		t.Errorf("DistinctId = %q, want %q", got.DistinctId, "p1")
	}
	if got.Event != "orcaspine_transition" {
		t.Errorf("Event = %q, want orcaspine_transition", got.Event)
	}

	props := map[string]any(got.Properties)
	if props["intent_type"] != "approve_plan" {
		t.Errorf("intent_type = %v, want approve_plan", props["intent_type"])
	}
	if props["phase"] != "executing" {
		t.Errorf("phase = %v, want executing", props["phase"])
	}

	for _, forbidden := range []string{"goal", "answer", "plan", "question"} {
		if _, ok := props[forbidden]; ok {
			t.Errorf("Properties unexpectedly contains %q", forbidden)
		}
	}
}

func TestSink_CloseDelegatesToClient(t *testing.T) {
	fake := &fakeEnqueuer{}
	sink := &Sink{client: fake}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !fake.closed {
		t.Error("Close() did not delegate to the underlying client")
	}
}
