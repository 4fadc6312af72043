// Package decision decides whether, how urgently, and why a claim needs
// human clarification.
package decision

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/claimcheck/internal/model"
)

// Config holds the confidence bands, the conflict severity cutoff, and the
// per-priority response timeout table.
type Config struct {
	ConfidenceLow             float64
	ConfidenceMedium          float64
	ConfidenceHigh            float64
	ConflictSeverityThreshold float64
	TimeoutSecs               map[model.Priority]int
}

// DefaultConfig returns the stock thresholds: bands at 0.5/0.7/0.85,
// conflict severity cutoff 0.6, and timeouts from one hour down to five
// minutes as priority rises.
func DefaultConfig() Config {
	return Config{
		ConfidenceLow:             0.5,
		ConfidenceMedium:          0.7,
		ConfidenceHigh:            0.85,
		ConflictSeverityThreshold: 0.6,
		TimeoutSecs: map[model.Priority]int{
			model.PriorityLow:      3600,
			model.PriorityMedium:   1800,
			model.PriorityHigh:     900,
			model.PriorityCritical: 300,
		},
	}
}

// Decision is the outcome of a clarification evaluation.
type Decision struct {
	Escalate bool
	Priority model.Priority
	Reason   string
}

// Engine evaluates confidence metrics, conflicts, and agent outcomes
// against configured thresholds.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine. A zero-value timeout table falls back to
// the defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.TimeoutSecs == nil {
		cfg.TimeoutSecs = DefaultConfig().TimeoutSecs
	}
	return &Engine{cfg: cfg}
}

// Evaluate runs the escalation checks in order. Each fired check appends a
// reason and raises the priority floor; priority is never lowered. The
// agent-error check runs across every result, not a single representative.
func (e *Engine) Evaluate(confidence model.ConfidenceMetrics, conflicts []model.EvidenceConflict, results map[model.AgentType]model.AgentResult) Decision {
	var reasons []string
	priority := model.PriorityLow

	if confidence.Overall < e.cfg.ConfidenceLow {
		reasons = append(reasons, "very low overall confidence")
		priority = model.MaxPriority(priority, model.PriorityHigh)
	} else if confidence.Overall < e.cfg.ConfidenceMedium {
		reasons = append(reasons, "low overall confidence")
		priority = model.MaxPriority(priority, model.PriorityMedium)
	}

	if name, value := confidence.LowestMetric(); value < e.cfg.ConfidenceLow {
		reasons = append(reasons, fmt.Sprintf("low %s score: %.2f", name, value))
		priority = model.MaxPriority(priority, model.PriorityMedium)
	}

	highSeverity := 0
	for _, c := range conflicts {
		if c.Severity > e.cfg.ConflictSeverityThreshold {
			highSeverity++
		}
	}
	if highSeverity > 0 {
		reasons = append(reasons, fmt.Sprintf("high severity conflicts detected: %d", highSeverity))
		priority = model.MaxPriority(priority, model.PriorityHigh)
	} else if len(conflicts) > 0 {
		reasons = append(reasons, fmt.Sprintf("evidence conflicts detected: %d", len(conflicts)))
		priority = model.MaxPriority(priority, model.PriorityMedium)
	}

	for _, agent := range sortedAgents(results) {
		r := results[agent]
		if !r.Success && r.Error != "" {
			reasons = append(reasons, fmt.Sprintf("agent %s execution failed: %s", agent, r.Error))
			priority = model.MaxPriority(priority, model.PriorityMedium)
		}
	}

	if len(reasons) == 0 {
		return Decision{Escalate: false, Priority: model.PriorityLow, Reason: "no clarification needed"}
	}

	d := Decision{Escalate: true, Priority: priority, Reason: strings.Join(reasons, "; ")}
	zap.L().Debug("decision: clarification required",
		zap.String("priority", string(d.Priority)),
		zap.String("reason", d.Reason),
	)
	return d
}

// TimeoutFor returns the response timeout in seconds for a priority.
func (e *Engine) TimeoutFor(priority model.Priority) int {
	if secs, ok := e.cfg.TimeoutSecs[priority]; ok {
		return secs
	}
	return DefaultConfig().TimeoutSecs[model.PriorityLow]
}

func sortedAgents(m map[model.AgentType]model.AgentResult) []model.AgentType {
	agents := make([]model.AgentType, 0, len(m))
	for a := range m {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i] < agents[j] })
	return agents
}
