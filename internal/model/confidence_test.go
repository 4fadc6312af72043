package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowestMetric(t *testing.T) {
	t.Parallel()

	m := ConfidenceMetrics{
		Overall:             0.7,
		SourceReliability:   0.9,
		FactVerification:    0.3,
		TemporalConsistency: 0.8,
		CrossReference:      0.6,
		Methodology:         0.5,
	}
	name, value := m.LowestMetric()
	assert.Equal(t, "fact_verification", name)
	assert.Equal(t, 0.3, value)
}

func TestLowestMetric_TieKeepsFieldOrder(t *testing.T) {
	t.Parallel()

	m := ConfidenceMetrics{
		Overall:             0.5,
		SourceReliability:   0.5,
		FactVerification:    0.5,
		TemporalConsistency: 0.5,
		CrossReference:      0.5,
		Methodology:         0.5,
	}
	name, value := m.LowestMetric()
	assert.Equal(t, "overall_confidence", name)
	assert.Equal(t, 0.5, value)
}

func TestIsLowConfidence(t *testing.T) {
	t.Parallel()

	m := ConfidenceMetrics{Overall: 0.65}
	assert.True(t, m.IsLowConfidence(0.7))
	assert.False(t, m.IsLowConfidence(0.6))
	assert.False(t, m.IsLowConfidence(0.65))
}

func TestWeightsSumToOne(t *testing.T) {
	t.Parallel()

	sum := WeightSourceReliability + WeightFactVerification + WeightAgentConfidence +
		WeightTemporalConsistency + WeightCrossReference + WeightMethodology
	assert.InDelta(t, 1.0, sum, 1e-9)
}
