package planning

import "errors"

// ErrNoJSON is returned when no JSON object could be located in raw
// string output by any of the three extraction strategies.
var ErrNoJSON = errors.New("planning: No valid JSON object found in response")

// ValidationError describes why a decoded object failed structural
// validation. Reason is a short, stable phrase suitable for a discussion
// entry or log line.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "planning: " + e.Reason
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
