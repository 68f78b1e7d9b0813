package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/andywolf/orcaspine/internal/telemetry"
)

// DockerExecutor runs an execution task inside a one-shot container:
// the task envelope is piped to the image over stdin and its stdout is
// parsed as a ResultEnvelope, falling back to a free-text success when
// the image prints plain text instead of JSON.
type DockerExecutor struct {
	image   string
	workDir string
	logger  *telemetry.Logger
}

// NewDockerExecutor builds a DockerExecutor that mounts workDir at
// /workspace inside image for every run.
func NewDockerExecutor(image, workDir string, logger *telemetry.Logger) *DockerExecutor {
	return &DockerExecutor{image: image, workDir: workDir, logger: logger}
}

func (d *DockerExecutor) Run(ctx context.Context, task TaskEnvelope) (ResultEnvelope, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return ResultEnvelope{}, fmt.Errorf("executor: marshal task envelope: %w", err)
	}
	if err := validateTaskEnvelope(payload); err != nil {
		return ResultEnvelope{}, err
	}

	args := []string{
		"run", "--rm", "-i",
		"-v", fmt.Sprintf("%s:/workspace", d.workDir),
		"-w", "/workspace",
		d.image,
	}
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdin = bytes.NewReader(payload)

	stdout, stderr, err := runAndCollect(cmd)
	if err != nil {
		return ResultEnvelope{}, fmt.Errorf("executor: docker run for task %s: %w", task.TaskID, err)
	}
	if d.logger != nil && len(stderr) > 0 {
		d.logger.Warn("executor stderr", map[string]any{"task_id": task.TaskID, "stderr": string(stderr)})
	}

	return parseResult(task.TaskID, stdout), nil
}

// runAndCollect starts cmd and reads stdout/stderr concurrently so that
// neither pipe's OS buffer filling while the other is read sequentially
// can deadlock the process.
func runAndCollect(cmd *exec.Cmd) (stdout, stderr []byte, err error) {
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("start: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		stdout, _ = io.ReadAll(stdoutPipe)
	}()
	go func() {
		defer wg.Done()
		stderr, _ = io.ReadAll(stderrPipe)
	}()
	wg.Wait()

	if waitErr := cmd.Wait(); waitErr != nil {
		if _, ok := waitErr.(*exec.ExitError); !ok {
			return stdout, stderr, waitErr
		}
	}
	return stdout, stderr, nil
}

// parseResult interprets a backend's stdout as a ResultEnvelope when it
// passes the result schema, or otherwise as free text success whose
// sole artifact is that text.
func parseResult(taskID string, raw []byte) ResultEnvelope {
	if resultEnvelopeValid(raw) {
		var envelope ResultEnvelope
		if err := json.Unmarshal(raw, &envelope); err == nil {
			if envelope.TaskID == "" {
				envelope.TaskID = taskID
			}
			return envelope
		}
	}
	return ResultEnvelope{
		TaskID:    taskID,
		Status:    "success",
		Artifacts: []string{strings.TrimSpace(string(raw))},
	}
}
