// Package llmclient adapts external LLM SDKs to the single method the
// dispatcher needs: turn a rendered prompt into raw text. Parsing that
// text into a PlanningOutput is internal/planning's job, not this
// package's — a planner here is a dumb text-in, text-out transport.
package llmclient

import "context"

// Planner sends prompt to a language model and returns its raw text
// response, unparsed. ctx governs the call's deadline; the dispatcher
// applies its own retry policy around normalization failures, not
// around Planner itself — a Planner error always means the backend
// could not be reached or refused the request outright.
type Planner interface {
	Plan(ctx context.Context, prompt string) (string, error)
}
