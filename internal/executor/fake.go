package executor

import "context"

// FakeExecutor returns a scripted ResultEnvelope for each task id, or a
// default success when the id has no script entry. Tests use this
// instead of shelling out to Docker.
type FakeExecutor struct {
	Results map[string]ResultEnvelope
	Calls   []string
}

func (f *FakeExecutor) Run(_ context.Context, task TaskEnvelope) (ResultEnvelope, error) {
	f.Calls = append(f.Calls, task.TaskID)
	if f.Results != nil {
		if r, ok := f.Results[task.TaskID]; ok {
			return r, nil
		}
	}
	return ResultEnvelope{TaskID: task.TaskID, Status: "success"}, nil
}
