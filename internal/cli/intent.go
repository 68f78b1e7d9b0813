package cli

import (
	"context"
	"fmt"

	"github.com/andywolf/orcaspine/internal/analytics"
	"github.com/andywolf/orcaspine/internal/config"
	"github.com/andywolf/orcaspine/internal/state"
)

// trackTransition records intentType/phase with the configured
// analytics sink, if any. Failures are swallowed - analytics never
// blocks or fails a command.
func trackTransition(cfg *config.Config, intentType state.IntentType, phase state.Phase) {
	if !cfg.Analytics.Enabled {
		return
	}
	sink, err := analytics.NewSink(cfg.Analytics.APIKey, cfg.Analytics.Endpoint, cfg.Project.ID)
	if err != nil {
		return
	}
	sink.Transition(string(intentType), string(phase))
	_ = sink.Close()
}

// runIntent loads config, initializes the façade against the already
// persisted project, and issues a single intent, printing the
// resulting state. It is the shared body for every subcommand other
// than create (which bootstraps a project that doesn't exist yet) and
// status (which issues no intent at all).
func runIntent(intent state.Intent) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	f, err := buildFacade(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	s, err := f.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if s == nil {
		return fmt.Errorf("no project initialized yet; run `orcaspine create` first")
	}
	res, err := f.HandleIntent(ctx, intent)
	if err != nil {
		return fmt.Errorf("%s: %w", intent.Type, err)
	}
	trackTransition(cfg, intent.Type, res.State.Phase)
	printState(res.State)
	return nil
}
