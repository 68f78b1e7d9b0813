package state

import "time"

func transitApprovePlan(s *ProjectState, intent Intent, now time.Time) (*ProjectState, []Effect) {
	idx := findApproval(s, intent.ApprovalID)
	if idx < 0 || s.Approvals[idx].Type != ApprovalPlan || s.Approvals[idx].PlanID != intent.PlanID {
		appendSystemFailure(s, "approve_plan: no matching plan approval for "+intent.ApprovalID, now)
		applyTransition(s, PhaseError, IntentApprovePlan, now)
		return s, nil
	}
	plan, ok := s.Plans[intent.PlanID]
	if !ok {
		appendSystemFailure(s, "approve_plan: plan not found "+intent.PlanID, now)
		applyTransition(s, PhaseError, IntentApprovePlan, now)
		return s, nil
	}

	removeApproval(s, idx)
	s.CurrentPlanID = intent.PlanID

	newTasks := make([]AgentTask, 0, len(plan.Tasks))
	for _, def := range plan.Tasks {
		newTasks = append(newTasks, newExecutionTask(def, plan.ID, now))
	}
	s.PendingTasks = append(s.PendingTasks, newTasks...)

	if len(newTasks) == 0 && !s.Settings.RequireExecutionApproval {
		applyTransition(s, PhaseCompleted, IntentApprovePlan, now)
		return s, nil
	}

	if s.Settings.RequireExecutionApproval {
		taskIDs := taskIDsOf(newTasks)
		approval := ApprovalRequest{
			ID:          approvalID(ApprovalExecutionStart, "", taskIDs, now),
			Type:        ApprovalExecutionStart,
			RequestedAt: now,
			PlanID:      intent.PlanID,
			TaskIDs:     taskIDs,
		}
		s.Approvals = append(s.Approvals, approval)
		applyTransition(s, PhaseAwaitingExecutionApproval, IntentApprovePlan, now)
		return s, []Effect{{Kind: EffectRequestApproval, Approval: &approval}}
	}

	effects := dispatchTasks(s, newTasks, now)
	applyTransition(s, PhaseExecuting, IntentApprovePlan, now)
	return s, effects
}

func transitApproveExecution(s *ProjectState, intent Intent, now time.Time) (*ProjectState, []Effect) {
	idx := findApproval(s, intent.ApprovalID)
	if idx < 0 || (s.Approvals[idx].Type != ApprovalExecutionStart && s.Approvals[idx].Type != ApprovalExecutionRetry) {
		appendSystemFailure(s, "approve_execution: no matching execution approval for "+intent.ApprovalID, now)
		applyTransition(s, PhaseError, IntentApproveExecution, now)
		return s, nil
	}

	approval := s.Approvals[idx]
	removeApproval(s, idx)

	var toDispatch []AgentTask
	for _, id := range approval.TaskIDs {
		ti := findTask(s, id)
		if ti < 0 {
			continue
		}
		toDispatch = append(toDispatch, s.PendingTasks[ti])
	}

	effects := dispatchTasks(s, toDispatch, now)
	applyTransition(s, PhaseExecuting, IntentApproveExecution, now)
	return s, effects
}

func transitRunTasks(s *ProjectState, intent Intent, now time.Time) (*ProjectState, []Effect) {
	for _, a := range s.Approvals {
		if a.Type == ApprovalExecutionStart {
			appendDiscussion(s, DiscussionSystem, "run_tasks rejected: an execution_start approval is still pending", now, nil)
			applyTransition(s, s.Phase, IntentRunTasks, now)
			return s, nil
		}
	}

	var targets []AgentTask
	if len(intent.TaskIDs) > 0 {
		for _, id := range intent.TaskIDs {
			ti := findTask(s, id)
			if ti >= 0 && s.PendingTasks[ti].Type == AgentTaskExecution && s.PendingTasks[ti].Status == TaskPending {
				targets = append(targets, s.PendingTasks[ti])
			}
		}
	} else {
		for _, t := range s.PendingTasks {
			if t.Type == AgentTaskExecution && t.Status == TaskPending {
				targets = append(targets, t)
			}
		}
	}

	effects := dispatchTasks(s, targets, now)
	applyTransition(s, s.Phase, IntentRunTasks, now)
	return s, effects
}

func transitRetryTasks(current *ProjectState, intent Intent, now time.Time) (*ProjectState, []Effect) {
	var failedIDs []string
	for _, t := range current.PendingTasks {
		if t.Type != AgentTaskExecution || t.Status != TaskFailed {
			continue
		}
		if len(intent.TaskIDs) > 0 && !contains(intent.TaskIDs, t.ID) {
			continue
		}
		failedIDs = append(failedIDs, t.ID)
	}
	if len(failedIDs) == 0 {
		// Boundary behavior: retry_tasks with nothing to retry leaves
		// state byte-for-byte unchanged, not even a version bump.
		return current, nil
	}

	s := current.Clone()
	for _, id := range failedIDs {
		ti := findTask(s, id)
		s.PendingTasks[ti].Status = TaskPending
		s.PendingTasks[ti].DispatchedAt = nil
		delete(s.Execution.Results, id)
	}
	recomputeExecution(s)

	if s.Settings.RequireRetryApproval {
		approval := ApprovalRequest{
			ID:          approvalID(ApprovalExecutionRetry, "", failedIDs, now),
			Type:        ApprovalExecutionRetry,
			RequestedAt: now,
			TaskIDs:     failedIDs,
		}
		s.Approvals = append(s.Approvals, approval)
		applyTransition(s, PhaseAwaitingExecutionApproval, IntentRetryTasks, now)
		return s, []Effect{{Kind: EffectRequestApproval, Approval: &approval}}
	}

	var toDispatch []AgentTask
	for _, id := range failedIDs {
		toDispatch = append(toDispatch, s.PendingTasks[findTask(s, id)])
	}
	effects := dispatchTasks(s, toDispatch, now)
	applyTransition(s, PhaseExecuting, IntentRetryTasks, now)
	return s, effects
}

// dispatchTasks marks each of tasks dispatched in s.PendingTasks (by id)
// and returns one dispatch_agent_task effect per task, in the same
// order the caller passed them.
func dispatchTasks(s *ProjectState, tasks []AgentTask, now time.Time) []Effect {
	effects := make([]Effect, 0, len(tasks))
	for _, t := range tasks {
		idx := findTask(s, t.ID)
		if idx < 0 {
			continue
		}
		dispatchedAt := now
		s.PendingTasks[idx].Status = TaskInProgress
		s.PendingTasks[idx].DispatchedAt = &dispatchedAt
		dispatched := s.PendingTasks[idx]
		effects = append(effects, Effect{Kind: EffectDispatchAgentTask, Task: &dispatched})
	}
	return effects
}

func taskIDsOf(tasks []AgentTask) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}
