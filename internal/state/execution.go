package state

// recomputeExecution derives ExecutionState.Summary and Failures from
// PendingTasks + Results from scratch. It is never treated as primary:
// calling it after any execution update self-heals any drift between
// task status and the results map.
func recomputeExecution(s *ProjectState) {
	if s.Execution == nil {
		s.Execution = &ExecutionState{Results: map[string]AgentResult{}}
	}
	if s.Execution.Results == nil {
		s.Execution.Results = map[string]AgentResult{}
	}

	summary := ExecutionSummary{}
	var failures []ExecutionFailure

	for _, t := range s.PendingTasks {
		if t.Type != AgentTaskExecution {
			continue
		}
		summary.Total++
		switch t.Status {
		case TaskCompleted:
			summary.Completed++
		case TaskFailed:
			summary.Failed++
			reason := ""
			if result, ok := s.Execution.Results[t.ID]; ok {
				reason = result.Error
			}
			failures = append(failures, ExecutionFailure{TaskID: t.ID, Reason: reason})
		case TaskInProgress:
			summary.InProgress++
		}
	}

	s.Execution.Summary = summary
	s.Execution.Failures = failures
}

// executionTerminalPhase decides the project's next phase once an
// execution result has been folded in, using the freshly recomputed
// summary.
func executionTerminalPhase(s *ProjectState, fallback Phase) Phase {
	summary := s.Execution.Summary
	if summary.Total > 0 && summary.Completed == summary.Total {
		return PhaseCompleted
	}
	if summary.Failed > 0 && summary.InProgress == 0 && (summary.Completed+summary.Failed) == summary.Total {
		return PhaseError
	}
	return fallback
}
