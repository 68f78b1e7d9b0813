// Package secrets resolves secret references (API keys, GitHub App private
// keys) used by the LLM and execution transport adapters. It is ambient
// infrastructure: the orchestrator core never calls this package directly.
package secrets

import "context"

// Fetcher resolves an opaque secret reference to its value.
type Fetcher interface {
	FetchSecret(ctx context.Context, ref string) (string, error)
	Close() error
}
