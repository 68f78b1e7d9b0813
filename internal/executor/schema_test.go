package executor

import (
	"encoding/json"
	"testing"
)

func TestValidateTaskEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		task    TaskEnvelope
		wantErr bool
	}{
		{
			name: "full envelope",
			task: TaskEnvelope{
				TaskID:          "t1",
				Inputs:          map[string]any{"title": "wire the scheduler"},
				Constraints:     map[string]any{"timeout": "10m"},
				ExpectedOutputs: []string{"diff"},
			},
		},
		{
			name: "nil inputs marshal as null and still validate",
			task: TaskEnvelope{TaskID: "t2"},
		},
		{
			name:    "empty task id",
			task:    TaskEnvelope{TaskID: "", Inputs: map[string]any{}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := json.Marshal(tt.task)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			err = validateTaskEnvelope(payload)
			if tt.wantErr && err == nil {
				t.Error("validateTaskEnvelope accepted an invalid envelope")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateTaskEnvelope: %v", err)
			}
		})
	}
}

func TestResultEnvelopeValid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"success envelope", `{"task_id":"t1","status":"success","artifacts":["out"]}`, true},
		{"failure envelope without task_id", `{"status":"failure","error":"exit 1"}`, true},
		{"status outside the enum", `{"status":"done"}`, false},
		{"missing status", `{"task_id":"t1"}`, false},
		{"artifacts of the wrong type", `{"status":"success","artifacts":"out"}`, false},
		{"not JSON at all", `build completed`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resultEnvelopeValid([]byte(tt.raw)); got != tt.want {
				t.Errorf("resultEnvelopeValid(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
