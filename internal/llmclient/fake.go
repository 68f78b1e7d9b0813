package llmclient

import "context"

// FakePlanner returns scripted responses in order, one per call,
// repeating the last entry once the script is exhausted. It is the
// seam integration and scenario tests drive instead of a real SDK.
type FakePlanner struct {
	Responses []string
	calls     int
}

func (f *FakePlanner) Plan(_ context.Context, _ string) (string, error) {
	if len(f.Responses) == 0 {
		return "", nil
	}
	idx := f.calls
	if idx >= len(f.Responses) {
		idx = len(f.Responses) - 1
	}
	f.calls++
	return f.Responses[idx], nil
}

// Calls reports how many times Plan has been invoked.
func (f *FakePlanner) Calls() int { return f.calls }
