package main

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/claimcheck/internal/audit"
	"github.com/sells-group/claimcheck/internal/clarify"
	"github.com/sells-group/claimcheck/internal/config"
	"github.com/sells-group/claimcheck/internal/decision"
	"github.com/sells-group/claimcheck/internal/model"
)

// systemEnv holds the initialized audit sink and clarification system shared
// by the serve/evaluate/audit commands.
type systemEnv struct {
	Sink    audit.Sink
	Tracker *clarify.Tracker
	System  *clarify.System
}

// Close releases resources held by the environment.
func (e *systemEnv) Close() {
	if e.Sink != nil {
		_ = e.Sink.Close()
	}
}

// initSystem opens the configured audit sink and wires the clarification
// system. Callers should defer env.Close().
func initSystem(ctx context.Context) (*systemEnv, error) {
	sink, err := initSink(ctx)
	if err != nil {
		return nil, err
	}

	engine := decision.NewEngine(decisionConfig(cfg.Decision))
	tracker := clarify.NewTracker(sink)
	return &systemEnv{
		Sink:    sink,
		Tracker: tracker,
		System:  clarify.NewSystem(engine, tracker),
	}, nil
}

// initSink opens the audit sink named by the config driver.
func initSink(ctx context.Context) (audit.Sink, error) {
	switch cfg.Audit.Driver {
	case "", "memory":
		return audit.NewMemory(), nil
	case "sqlite":
		sink, err := audit.NewSQLite(cfg.Audit.SQLitePath)
		if err != nil {
			return nil, eris.Wrap(err, "open sqlite audit sink")
		}
		if err := sink.Migrate(ctx); err != nil {
			_ = sink.Close()
			return nil, eris.Wrap(err, "migrate sqlite audit sink")
		}
		return sink, nil
	case "postgres":
		sink, err := audit.NewPostgres(ctx, cfg.Audit.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "open postgres audit sink")
		}
		if err := sink.Migrate(ctx); err != nil {
			_ = sink.Close()
			return nil, eris.Wrap(err, "migrate postgres audit sink")
		}
		return sink, nil
	default:
		return nil, eris.New(fmt.Sprintf("unknown audit driver %q", cfg.Audit.Driver))
	}
}

// decisionConfig maps the flat config section onto the engine config.
func decisionConfig(c config.DecisionConfig) decision.Config {
	return decision.Config{
		ConfidenceLow:             c.ConfidenceLow,
		ConfidenceMedium:          c.ConfidenceMedium,
		ConfidenceHigh:            c.ConfidenceHigh,
		ConflictSeverityThreshold: c.ConflictSeverityThreshold,
		TimeoutSecs: map[model.Priority]int{
			model.PriorityLow:      c.TimeoutLowSecs,
			model.PriorityMedium:   c.TimeoutMediumSecs,
			model.PriorityHigh:     c.TimeoutHighSecs,
			model.PriorityCritical: c.TimeoutCriticalSecs,
		},
	}
}
