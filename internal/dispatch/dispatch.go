// Package dispatch is the state machine's only non-pure collaborator
// (C4): it walks the effect list transit produced, in order, awaiting
// each before starting the next, and turns every dispatch_agent_task
// effect into a follow-up agent_result intent once the backend answers.
package dispatch

import (
	"context"
	"time"

	"github.com/andywolf/orcaspine/internal/executor"
	"github.com/andywolf/orcaspine/internal/llmclient"
	"github.com/andywolf/orcaspine/internal/planning"
	"github.com/andywolf/orcaspine/internal/promptctx"
	"github.com/andywolf/orcaspine/internal/state"
	"github.com/andywolf/orcaspine/internal/telemetry"
)

// ApprovalSurface is notified when the machine asks for a human
// approval; it never returns a value the machine consumes, since
// approvals are only resolved by a later approve_plan/approve_execution
// intent arriving through the façade.
type ApprovalSurface interface {
	Notify(ctx context.Context, approval state.ApprovalRequest) error
}

// Dispatcher executes effects on behalf of the façade.
type Dispatcher struct {
	Planner  llmclient.Planner
	Executor executor.Executor
	Approval ApprovalSurface
	Logger   *telemetry.Logger
	Metrics  *telemetry.Metrics
	Now      func() time.Time
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

// Execute runs effects in list order and returns the agent_result
// intents produced by any dispatch_agent_task effects, in the same
// order. request_approval effects never produce a follow-up intent:
// their resolution arrives later as its own approve_plan or
// approve_execution intent from outside.
func (d *Dispatcher) Execute(ctx context.Context, effects []state.Effect) []state.Intent {
	var followUps []state.Intent
	for _, effect := range effects {
		switch effect.Kind {
		case state.EffectDispatchAgentTask:
			followUps = append(followUps, d.dispatchTask(ctx, *effect.Task))
		case state.EffectRequestApproval:
			d.requestApproval(ctx, *effect.Approval)
		}
	}
	return followUps
}

func (d *Dispatcher) dispatchTask(ctx context.Context, task state.AgentTask) state.Intent {
	var result state.AgentResult
	switch task.Type {
	case state.AgentTaskPlanning:
		result = d.dispatchPlanning(ctx, task)
	case state.AgentTaskExecution:
		result = d.dispatchExecution(ctx, task)
	default:
		result = state.AgentResult{TaskID: task.ID, Status: state.ResultFailure, Error: "dispatch: unknown agent task type"}
	}

	if d.Logger != nil {
		d.Logger.Effect(string(state.EffectDispatchAgentTask), resultErr(result))
	}
	if d.Metrics != nil {
		outcome := "success"
		if result.Status == state.ResultFailure {
			outcome = "failure"
		}
		d.Metrics.EffectsDispatched.WithLabelValues(string(state.EffectDispatchAgentTask), outcome).Inc()
	}

	return state.Intent{Type: state.IntentAgentResult, Result: &result}
}

func (d *Dispatcher) requestApproval(ctx context.Context, approval state.ApprovalRequest) {
	var err error
	if d.Approval != nil {
		err = d.Approval.Notify(ctx, approval)
	}
	if d.Logger != nil {
		d.Logger.Effect(string(state.EffectRequestApproval), err)
	}
	if d.Metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		d.Metrics.EffectsDispatched.WithLabelValues(string(state.EffectRequestApproval), outcome).Inc()
	}
}

// dispatchPlanning implements the one-retry policy from the planning
// output normalizer's contract: call the planner, try to normalize; on
// failure, call again with the strict-JSON reminder appended; give up
// after that.
func (d *Dispatcher) dispatchPlanning(ctx context.Context, task state.AgentTask) state.AgentResult {
	prompt := promptctx.PromptFor(task.Input)

	output, err := d.planAndNormalize(ctx, prompt)
	if err != nil {
		output, err = d.planAndNormalize(ctx, prompt+"\n"+planning.StrictJSONReminder)
	}
	if err != nil {
		if d.Metrics != nil {
			d.Metrics.ParseFailures.Inc()
		}
		return state.AgentResult{TaskID: task.ID, Status: state.ResultFailure, Error: err.Error()}
	}
	return state.AgentResult{TaskID: task.ID, Status: state.ResultSuccess, Output: output}
}

func (d *Dispatcher) planAndNormalize(ctx context.Context, prompt string) (*planning.PlanningOutput, error) {
	if d.Planner == nil {
		return nil, errNilPlanner
	}
	raw, err := d.Planner.Plan(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return planning.Normalize(raw)
}

func (d *Dispatcher) dispatchExecution(ctx context.Context, task state.AgentTask) state.AgentResult {
	if d.Executor == nil {
		return state.AgentResult{TaskID: task.ID, Status: state.ResultFailure, Error: errNilExecutor.Error()}
	}

	envelope := executor.TaskEnvelope{TaskID: task.ID, Inputs: task.Input}
	result, err := d.Executor.Run(ctx, envelope)
	if err != nil {
		return state.AgentResult{TaskID: task.ID, Status: state.ResultFailure, Error: err.Error()}
	}

	status := state.ResultFailure
	if result.Status == "success" {
		status = state.ResultSuccess
	}
	return state.AgentResult{
		TaskID:    task.ID,
		Status:    status,
		Output:    result,
		Artifacts: result.Artifacts,
		Logs:      result.Logs,
		Error:     result.Error,
	}
}

func resultErr(result state.AgentResult) error {
	if result.Status == state.ResultFailure {
		return errBackend(result.Error)
	}
	return nil
}
