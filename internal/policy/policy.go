// Package policy evaluates a plan's execution task roles against an
// operator-supplied Rego bundle to decide whether execution approval
// should be required for this approve_plan even when
// settings.requireExecutionApproval is false project-wide. It is
// ambient, optional infrastructure: the state machine itself knows
// nothing about policy, and a Gate with no bundle configured never
// overrides anything.
package policy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Decision is the outcome of evaluating one plan's task roles against
// the loaded bundle's require_execution_approval rule set.
type Decision struct {
	RequireExecutionApproval bool
	Reasons                  []string
}

// Input is what a plan evaluation exposes to Rego as `input`.
type Input struct {
	PlanID     string   `json:"planId"`
	Goal       string   `json:"goal"`
	Milestones []string `json:"milestones"`
	Features   []string `json:"features"`
	TaskTitles []string `json:"taskTitles"`
	TaskRoles  []string `json:"taskRoles"`
}

// Gate loads a directory of .rego files once and evaluates plans
// against their "require_execution_approval" rule under package
// orcaspine.policy.
type Gate struct {
	modules []func(*rego.Rego)
}

// NewGate loads every *.rego file under bundlePath. An empty bundlePath
// returns a Gate that never overrides anything, matching
// config.PolicyConfig's Enabled=false default.
func NewGate(bundlePath string) (*Gate, error) {
	if bundlePath == "" {
		return &Gate{}, nil
	}

	var files []string
	if err := filepath.WalkDir(bundlePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".rego") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("policy: walk bundle %s: %w", bundlePath, err)
	}

	modules := make([]func(*rego.Rego), 0, len(files))
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("policy: read %s: %w", path, err)
		}
		modules = append(modules, rego.Module(path, string(content)))
	}
	return &Gate{modules: modules}, nil
}

// Evaluate runs the loaded bundle's orcaspine.policy.require_execution_approval
// rule against input. A Gate with no modules loaded always returns
// RequireExecutionApproval: false, so approve_plan's branch falls back
// to settings.requireExecutionApproval alone.
func (g *Gate) Evaluate(ctx context.Context, input Input) (Decision, error) {
	if len(g.modules) == 0 {
		return Decision{}, nil
	}

	opts := append([]func(*rego.Rego){
		rego.Query("data.orcaspine.policy.require_execution_approval"),
		rego.Input(input),
	}, g.modules...)

	rs, err := rego.New(opts...).Eval(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "undefined") {
			return Decision{}, nil
		}
		return Decision{}, fmt.Errorf("policy: evaluate: %w", err)
	}

	var reasons []string
	for _, result := range rs {
		for _, expr := range result.Expressions {
			set, ok := expr.Value.([]any)
			if !ok {
				continue
			}
			for _, item := range set {
				if s, ok := item.(string); ok {
					reasons = append(reasons, s)
				}
			}
		}
	}

	return Decision{RequireExecutionApproval: len(reasons) > 0, Reasons: reasons}, nil
}
