package model

// Weights for the overall confidence score. Agent confidence feeds the
// third slot during scoring but is not stored as a metric of its own.
// The six weights sum to 1.0.
const (
	WeightSourceReliability   = 0.25
	WeightFactVerification    = 0.25
	WeightAgentConfidence     = 0.25
	WeightTemporalConsistency = 0.10
	WeightCrossReference      = 0.10
	WeightMethodology         = 0.05
)

// ConfidenceMetrics is the six-dimensional score summarizing how
// trustworthy the current evidence and agent state is. All fields lie in
// [0,1]; Overall is derived from the others plus the agent-confidence
// intermediate and is never set independently.
type ConfidenceMetrics struct {
	Overall             float64 `json:"overall_confidence"`
	SourceReliability   float64 `json:"source_reliability"`
	FactVerification    float64 `json:"fact_verification"`
	TemporalConsistency float64 `json:"temporal_consistency"`
	CrossReference      float64 `json:"cross_reference_score"`
	Methodology         float64 `json:"methodology_score"`
}

// IsLowConfidence reports whether overall confidence is below threshold.
func (m ConfidenceMetrics) IsLowConfidence(threshold float64) bool {
	return m.Overall < threshold
}

// named pairs each field with its wire label, in a fixed order so
// LowestMetric is deterministic under ties.
func (m ConfidenceMetrics) named() []struct {
	Name  string
	Value float64
} {
	return []struct {
		Name  string
		Value float64
	}{
		{"overall_confidence", m.Overall},
		{"source_reliability", m.SourceReliability},
		{"fact_verification", m.FactVerification},
		{"temporal_consistency", m.TemporalConsistency},
		{"cross_reference_score", m.CrossReference},
		{"methodology_score", m.Methodology},
	}
}

// LowestMetric returns the name and value of the lowest-scoring metric.
// Ties resolve to the first in field order.
func (m ConfidenceMetrics) LowestMetric() (string, float64) {
	entries := m.named()
	lowest := entries[0]
	for _, e := range entries[1:] {
		if e.Value < lowest.Value {
			lowest = e
		}
	}
	return lowest.Name, lowest.Value
}
