package executor

import "testing"

func TestParseResult(t *testing.T) {
	tests := []struct {
		name     string
		taskID   string
		raw      string
		wantEnv  ResultEnvelope
	}{
		{
			name:   "well-formed JSON envelope",
			taskID: "t1",
			raw:    `{"task_id":"t1","status":"success","artifacts":["out.txt"]}`,
			wantEnv: ResultEnvelope{
				TaskID:    "t1",
				Status:    "success",
				Artifacts: []string{"out.txt"},
			},
		},
		{
			name:   "JSON envelope missing task_id is filled in",
			taskID: "t2",
			raw:    `{"status":"failure","error":"exit 1"}`,
			wantEnv: ResultEnvelope{
				TaskID: "t2",
				Status: "failure",
				Error:  "exit 1",
			},
		},
		{
			name:   "free text falls back to a success artifact",
			taskID: "t3",
			raw:    "  build completed, 0 errors  \n",
			wantEnv: ResultEnvelope{
				TaskID:    "t3",
				Status:    "success",
				Artifacts: []string{"build completed, 0 errors"},
			},
		},
		{
			name:   "JSON with no status is treated as free text",
			taskID: "t4",
			raw:    `{"note":"not an envelope"}`,
			wantEnv: ResultEnvelope{
				TaskID:    "t4",
				Status:    "success",
				Artifacts: []string{`{"note":"not an envelope"}`},
			},
		},
		{
			name:   "JSON with an unknown status is treated as free text",
			taskID: "t6",
			raw:    `{"task_id":"t6","status":"maybe"}`,
			wantEnv: ResultEnvelope{
				TaskID:    "t6",
				Status:    "success",
				Artifacts: []string{`{"task_id":"t6","status":"maybe"}`},
			},
		},
		{
			name:   "empty output is a success with one empty artifact",
			taskID: "t5",
			raw:    "",
			wantEnv: ResultEnvelope{
				TaskID:    "t5",
				Status:    "success",
				Artifacts: []string{""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseResult(tt.taskID, []byte(tt.raw))
			if got.TaskID != tt.wantEnv.TaskID || got.Status != tt.wantEnv.Status || got.Error != tt.wantEnv.Error {
				t.Fatalf("parseResult() = %+v, want %+v", got, tt.wantEnv)
			}
			if len(got.Artifacts) != len(tt.wantEnv.Artifacts) {
				t.Fatalf("Artifacts = %v, want %v", got.Artifacts, tt.wantEnv.Artifacts)
			}
			for i := range got.Artifacts {
				if got.Artifacts[i] != tt.wantEnv.Artifacts[i] {
					t.Errorf("Artifacts[%d] = %q, want %q", i, got.Artifacts[i], tt.wantEnv.Artifacts[i])
				}
			}
		})
	}
}
