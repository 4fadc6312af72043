package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/claimcheck/internal/model"
)

func f(v float64) *float64 { return &v }

func TestDetect_CleanEvidenceNoConflicts(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "A", Claim: "c1", Verdict: "false", Confidence: 0.9, CredibilityScore: f(0.9)},
		{Source: "B", Claim: "c1", Verdict: "false", Confidence: 0.8, CredibilityScore: f(0.85)},
	}
	results := map[model.AgentType]model.AgentResult{
		model.AgentClaimParser: {Success: true, Data: map[string]any{"verdict": "false"}},
	}

	assert.Empty(t, NewDetector().Detect(evidence, results))
}

func TestSourceContradictions_TrueVersusFalse(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "Medical Journal", Claim: "c1", Verdict: "true", Confidence: 0.9},
		{Source: "Tabloid", Claim: "c1", Verdict: "false", Confidence: 0.8},
	}

	conflicts := NewDetector().Detect(evidence, nil)
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	assert.Equal(t, model.ConflictContradictorySources, c.Type)
	assert.Len(t, c.Sources, 2)
	// min(1, 1.2 * mean(0.9, 0.8)) = min(1, 1.02) = 1.
	assert.Equal(t, 1.0, c.Severity)
	assert.True(t, c.ResolutionRequired)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.DetectedAt.IsZero())
}

func TestSourceContradictions_CaseFolded(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "A", Claim: "c1", Verdict: "True", Confidence: 0.5},
		{Source: "B", Claim: "c1", Verdict: "FALSE", Confidence: 0.5},
	}
	conflicts := NewDetector().Detect(evidence, nil)
	require.Len(t, conflicts, 1)
	assert.Equal(t, model.ConflictContradictorySources, conflicts[0].Type)
}

func TestSourceContradictions_UnrecognizedVocabularyIgnored(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "A", Claim: "c1", Verdict: "probably", Confidence: 0.5},
		{Source: "B", Claim: "c1", Verdict: "unclear", Confidence: 0.5},
	}
	assert.Empty(t, NewDetector().Detect(evidence, nil))
}

func TestSourceContradictions_SeparateClaimsDoNotCollide(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "A", Claim: "c1", Verdict: "true"},
		{Source: "B", Claim: "c2", Verdict: "false"},
	}
	assert.Empty(t, NewDetector().Detect(evidence, nil))
}

func TestSourceContradictions_MissingClaimKeyShareBucket(t *testing.T) {
	t.Parallel()

	// Untagged evidence collides in the "unknown" bucket.
	evidence := []model.EvidenceRecord{
		{Source: "A", Verdict: "true", Confidence: 0.5},
		{Source: "B", Verdict: "false", Confidence: 0.5},
	}
	conflicts := NewDetector().Detect(evidence, nil)
	require.Len(t, conflicts, 1)
	assert.Contains(t, conflicts[0].Description, "unknown")
}

func TestFactConflicts_DeviationFlagged(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "A", Facts: map[string]any{"deaths": float64(100)}},
		{Source: "B", Facts: map[string]any{"deaths": float64(100)}},
		{Source: "C", Facts: map[string]any{"deaths": float64(200)}},
	}

	conflicts := NewDetector().Detect(evidence, nil)
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	assert.Equal(t, model.ConflictConflictingFacts, c.Type)
	// mean 133.33, sample stddev 57.74, cv 0.433.
	assert.InDelta(t, 0.433, c.Severity, 0.001)
	assert.Len(t, c.Sources, 3)
	assert.Equal(t, "deaths", c.Sources[0].FactKey)
}

func TestFactConflicts_TightValuesPass(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "A", Facts: map[string]any{"deaths": float64(100)}},
		{Source: "B", Facts: map[string]any{"deaths": float64(105)}},
	}
	assert.Empty(t, NewDetector().Detect(evidence, nil))
}

func TestFactConflicts_SingleValuePerKeyIgnored(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "A", Facts: map[string]any{"deaths": float64(100)}},
		{Source: "B", Facts: map[string]any{"cases": float64(9000)}},
	}
	assert.Empty(t, NewDetector().Detect(evidence, nil))
}

func TestFactConflicts_NonNumericExcluded(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "A", Facts: map[string]any{"location": "Geneva"}},
		{Source: "B", Facts: map[string]any{"location": "Lyon"}},
	}
	assert.Empty(t, NewDetector().Detect(evidence, nil))
}

func TestCredibilityDisputes(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{SourceURL: "https://x.example", CredibilityScore: f(0.9)},
		{SourceURL: "https://x.example", CredibilityScore: f(0.2)},
	}

	conflicts := NewDetector().Detect(evidence, nil)
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	assert.Equal(t, model.ConflictCredibilityDispute, c.Type)
	assert.InDelta(t, 0.7, c.Severity, 1e-9)
}

func TestCredibilityDisputes_SmallSpreadPasses(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "X", CredibilityScore: f(0.8)},
		{Source: "X", CredibilityScore: f(0.6)},
	}
	assert.Empty(t, NewDetector().Detect(evidence, nil))
}

func TestCredibilityDisputes_DistinctSourcesNotCompared(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "X", CredibilityScore: f(0.95)},
		{Source: "Y", CredibilityScore: f(0.1)},
	}
	assert.Empty(t, NewDetector().Detect(evidence, nil))
}

func TestTemporalInconsistencies_DuplicateDates(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "A", Date: "2021-06-01"},
		{Source: "B", Date: "2021-06-01"},
	}

	conflicts := NewDetector().Detect(evidence, nil)
	require.Len(t, conflicts, 1)
	assert.Equal(t, model.ConflictTemporalInconsistency, conflicts[0].Type)
	assert.Equal(t, 0.6, conflicts[0].Severity)
}

func TestTemporalInconsistencies_DistinctDatesPass(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "A", Date: "2021-06-01"},
		{Source: "B", Date: "2021-07-01"},
	}
	assert.Empty(t, NewDetector().Detect(evidence, nil))
}

func TestMethodologyConflicts_ContradictoryAgents(t *testing.T) {
	t.Parallel()

	results := map[model.AgentType]model.AgentResult{
		model.AgentClaimParser: {
			Success:    true,
			Data:       map[string]any{"verdict": "true"},
			Confidence: f(0.7),
		},
		model.AgentEvidenceCollector: {
			Success: true,
			Data:    map[string]any{"conclusion": "false"},
		},
	}

	conflicts := NewDetector().Detect(nil, results)
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	assert.Equal(t, model.ConflictMethodology, c.Type)
	assert.Equal(t, 0.8, c.Severity)
	assert.Len(t, c.Sources, 2)
}

func TestMethodologyConflicts_DistinctButNotContradictory(t *testing.T) {
	t.Parallel()

	results := map[model.AgentType]model.AgentResult{
		model.AgentClaimParser:       {Success: true, Data: map[string]any{"verdict": "true"}},
		model.AgentEvidenceCollector: {Success: true, Data: map[string]any{"verdict": "plausible"}},
	}
	assert.Empty(t, NewDetector().Detect(nil, results))
}

func TestMethodologyConflicts_FailedAgentsExcluded(t *testing.T) {
	t.Parallel()

	results := map[model.AgentType]model.AgentResult{
		model.AgentClaimParser:       {Success: true, Data: map[string]any{"verdict": "true"}},
		model.AgentEvidenceCollector: {Success: false, Data: map[string]any{"verdict": "false"}},
	}
	assert.Empty(t, NewDetector().Detect(nil, results))
}

func TestDetect_UnionOfDetectors(t *testing.T) {
	t.Parallel()

	evidence := []model.EvidenceRecord{
		{Source: "A", Claim: "c1", Verdict: "true", Confidence: 0.9, Facts: map[string]any{"deaths": float64(100)}},
		{Source: "B", Claim: "c1", Verdict: "false", Confidence: 0.8, Facts: map[string]any{"deaths": float64(500)}},
	}
	results := map[model.AgentType]model.AgentResult{
		model.AgentClaimParser:       {Success: true, Data: map[string]any{"verdict": "verified"}},
		model.AgentEvidenceCollector: {Success: true, Data: map[string]any{"verdict": "disputed"}},
	}

	conflicts := NewDetector().Detect(evidence, results)

	types := make(map[model.ConflictType]int)
	for _, c := range conflicts {
		types[c.Type]++
	}
	assert.Equal(t, 1, types[model.ConflictContradictorySources])
	assert.Equal(t, 1, types[model.ConflictConflictingFacts])
	assert.Equal(t, 1, types[model.ConflictMethodology])
	assert.Len(t, conflicts, 3)
}
