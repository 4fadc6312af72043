package model

import "time"

// ConflictType tags the category of a detected evidence conflict.
type ConflictType string

const (
	ConflictContradictorySources  ConflictType = "contradictory_sources"
	ConflictConflictingFacts      ConflictType = "conflicting_facts"
	ConflictCredibilityDispute    ConflictType = "credibility_dispute"
	ConflictTemporalInconsistency ConflictType = "temporal_inconsistency"
	ConflictMethodology           ConflictType = "methodology_conflict"
)

// ConflictSource is one evidence or agent snippet implicated in a conflict.
// Only the fields relevant to the conflict type are populated.
type ConflictSource struct {
	Source      string    `json:"source,omitempty"`
	Agent       AgentType `json:"agent_type,omitempty"`
	Verdict     string    `json:"verdict,omitempty"`
	Confidence  float64   `json:"confidence,omitempty"`
	FactKey     string    `json:"fact_key,omitempty"`
	Value       float64   `json:"value,omitempty"`
	Credibility float64   `json:"credibility_score,omitempty"`
	Date        string    `json:"date,omitempty"`
}

// EvidenceConflict records a detected disagreement among evidence items or
// agent outputs. Immutable once created.
type EvidenceConflict struct {
	ID                 string           `json:"conflict_id"`
	Type               ConflictType     `json:"conflict_type"`
	Sources            []ConflictSource `json:"conflicting_sources"`
	Description        string           `json:"conflict_description"`
	Severity           float64          `json:"severity"`
	DetectedAt         time.Time        `json:"detected_at"`
	ResolutionRequired bool             `json:"resolution_required"`
}

// MaxSeverity returns the highest severity among conflicts, or 0 for an
// empty set.
func MaxSeverity(conflicts []EvidenceConflict) float64 {
	var max float64
	for _, c := range conflicts {
		if c.Severity > max {
			max = c.Severity
		}
	}
	return max
}
