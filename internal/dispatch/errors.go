package dispatch

import "errors"

var (
	errNilPlanner  = errors.New("dispatch: no planner configured")
	errNilExecutor = errors.New("dispatch: no executor configured")
)

// errBackend wraps a backend-reported failure message so the logger's
// Effect() call sees a non-nil error without allocating a new type for
// every failure reason.
func errBackend(message string) error {
	if message == "" {
		message = "backend reported failure"
	}
	return errors.New(message)
}
