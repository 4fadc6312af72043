// Package confidence computes the multi-dimensional confidence metrics
// that drive clarification decisions.
package confidence

import (
	"math"

	"github.com/sells-group/claimcheck/internal/model"
)

// placeholderTemporalScore stands in for real temporal reasoning, which is
// not implemented. The field and its weight are kept so a real computation
// can replace this constant without changing the metric shape.
const placeholderTemporalScore = 0.8

// crossReferenceTarget is the number of independent sources at which the
// cross-reference score saturates.
const crossReferenceTarget = 5.0

// Scorer derives ConfidenceMetrics from an evidence set and per-agent
// results. It is a pure function of its inputs: empty input degrades to
// mid-range defaults instead of failing.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Compute scores the evidence and agent results across all dimensions and
// combines them into the weighted overall score.
func (s *Scorer) Compute(evidence []model.EvidenceRecord, results map[model.AgentType]model.AgentResult) model.ConfidenceMetrics {
	sourceReliability := scoreSourceReliability(evidence)
	factVerification := scoreFactVerification(evidence)
	agentConfidence := scoreAgentConfidence(results)
	crossReference := scoreCrossReference(evidence)
	methodology := scoreMethodology(results)

	overall := sourceReliability*model.WeightSourceReliability +
		factVerification*model.WeightFactVerification +
		agentConfidence*model.WeightAgentConfidence +
		placeholderTemporalScore*model.WeightTemporalConsistency +
		crossReference*model.WeightCrossReference +
		methodology*model.WeightMethodology

	return model.ConfidenceMetrics{
		Overall:             overall,
		SourceReliability:   sourceReliability,
		FactVerification:    factVerification,
		TemporalConsistency: placeholderTemporalScore,
		CrossReference:      crossReference,
		Methodology:         methodology,
	}
}

// scoreSourceReliability averages credibility over evidence items that
// declare one. No declared credibility yields the 0.5 default.
func scoreSourceReliability(evidence []model.EvidenceRecord) float64 {
	var sum float64
	var n int
	for _, e := range evidence {
		if e.CredibilityScore != nil {
			sum += *e.CredibilityScore
			n++
		}
	}
	if n == 0 {
		return 0.5
	}
	return sum / float64(n)
}

// scoreFactVerification is the fraction of evidence items marked verified.
func scoreFactVerification(evidence []model.EvidenceRecord) float64 {
	if len(evidence) == 0 {
		return 0.5
	}
	verified := 0
	for _, e := range evidence {
		if e.Verified {
			verified++
		}
	}
	return float64(verified) / float64(len(evidence))
}

// scoreAgentConfidence averages the self-reported confidence of agents
// that declare one. This feeds the overall weighting but is not stored as
// a metric field.
func scoreAgentConfidence(results map[model.AgentType]model.AgentResult) float64 {
	var sum float64
	var n int
	for _, r := range results {
		if r.Confidence != nil {
			sum += *r.Confidence
			n++
		}
	}
	if n == 0 {
		return 0.5
	}
	return sum / float64(n)
}

// scoreCrossReference rewards more independent sources, capped at 1.
func scoreCrossReference(evidence []model.EvidenceRecord) float64 {
	return math.Min(float64(len(evidence))/crossReferenceTarget, 1.0)
}

// scoreMethodology is the fraction of agents that ran successfully.
func scoreMethodology(results map[model.AgentType]model.AgentResult) float64 {
	if len(results) == 0 {
		return 0.5
	}
	success := 0
	for _, r := range results {
		if r.Success {
			success++
		}
	}
	return float64(success) / float64(len(results))
}
