package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/andywolf/orcaspine/internal/github"
)

// RemoteDispatchExecutor hands an execution task to a GitHub Actions
// workflow via a repository_dispatch event, authenticating as a GitHub
// App installation so the dispatch survives short-lived runner
// credentials. It is fire-and-forget: the workflow's actual outcome is
// expected to re-enter the orchestrator later as its own agent_result
// intent (e.g. via a webhook-fed CLI command), not as this call's
// return value.
type RemoteDispatchExecutor struct {
	tokens     *github.TokenManager
	owner      string
	repo       string
	eventType  string
	httpClient *http.Client
}

// NewRemoteDispatchExecutor builds an executor that dispatches to
// owner/repo using tokens minted by tm.
func NewRemoteDispatchExecutor(tm *github.TokenManager, owner, repo, eventType string) *RemoteDispatchExecutor {
	if eventType == "" {
		eventType = "orcaspine-execution-task"
	}
	return &RemoteDispatchExecutor{
		tokens:     tm,
		owner:      owner,
		repo:       repo,
		eventType:  eventType,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type repositoryDispatchBody struct {
	EventType     string          `json:"event_type"`
	ClientPayload json.RawMessage `json:"client_payload"`
}

func (r *RemoteDispatchExecutor) Run(ctx context.Context, task TaskEnvelope) (ResultEnvelope, error) {
	token, err := r.tokens.Token()
	if err != nil {
		return ResultEnvelope{}, fmt.Errorf("executor: mint installation token: %w", err)
	}

	// The client payload is the task envelope verbatim, schema-checked
	// before it leaves the process.
	taskJSON, err := json.Marshal(task)
	if err != nil {
		return ResultEnvelope{}, fmt.Errorf("executor: marshal task envelope: %w", err)
	}
	if err := validateTaskEnvelope(taskJSON); err != nil {
		return ResultEnvelope{}, err
	}

	payload, err := json.Marshal(repositoryDispatchBody{EventType: r.eventType, ClientPayload: taskJSON})
	if err != nil {
		return ResultEnvelope{}, fmt.Errorf("executor: marshal dispatch body: %w", err)
	}

	url := fmt.Sprintf("https://api.github.com/repos/%s/%s/dispatches", r.owner, r.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return ResultEnvelope{}, fmt.Errorf("executor: build dispatch request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return ResultEnvelope{}, fmt.Errorf("executor: dispatch request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		return ResultEnvelope{}, fmt.Errorf("executor: dispatch returned status %d", resp.StatusCode)
	}

	return ResultEnvelope{
		TaskID:    task.TaskID,
		Status:    "success",
		Artifacts: []string{"dispatched to " + r.owner + "/" + r.repo + " as " + r.eventType},
	}, nil
}
