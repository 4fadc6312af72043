package clarify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/claimcheck/internal/model"
)

func TestFormatPromptMultipleChoice(t *testing.T) {
	t.Parallel()

	req := model.ClarificationRequest{
		Type:        model.TypeMultipleChoice,
		Title:       "Resolve Evidence Conflicts",
		Description: "Multiple sources disagree.",
		Options: []model.Option{
			{ID: "a", Label: "Trust A"},
			{ID: "b", Label: "Trust B"},
		},
		Context: model.RequestContext{
			ClaimID:   "claim-1",
			Metrics:   model.ConfidenceMetrics{Overall: 0.55},
			Conflicts: []model.EvidenceConflict{{ID: "c1"}, {ID: "c2"}},
		},
	}

	prompt := FormatPrompt(req)

	assert.Equal(t, model.TypeMultipleChoice, prompt.Type)
	assert.Equal(t, req.Options, prompt.Options)
	assert.Equal(t, "Claim ID: claim-1 | Overall Confidence: 0.55 | Evidence Conflicts: 2", prompt.ContextSummary)
}

func TestFormatPromptValueConfirmation(t *testing.T) {
	t.Parallel()

	req := model.ClarificationRequest{
		Type:         model.TypeValueConfirmation,
		Title:        "Confirm Analysis Results",
		DefaultValue: "likely true",
		Context: model.RequestContext{
			ClaimID: "claim-2",
			Metrics: model.ConfidenceMetrics{Overall: 0.61},
		},
	}

	prompt := FormatPrompt(req)

	assert.Equal(t, "likely true", prompt.ValueToConfirm)
	assert.InDelta(t, 0.61, prompt.Confidence, 1e-9)
	assert.Equal(t, "Please confirm if this value is correct (confidence: 0.61)", prompt.Description)
}

func TestFormatPromptInputDefault(t *testing.T) {
	t.Parallel()

	req := model.ClarificationRequest{
		Type:         model.TypeInput,
		Title:        "Provide Additional Guidance",
		Description:  "The system needs additional guidance.",
		DefaultValue: "skip",
	}

	prompt := FormatPrompt(req)

	assert.Equal(t, "skip", prompt.DefaultValue)
	assert.Contains(t, prompt.Description, "Default value: skip")
}

func TestFormatPromptCustomCarriesAgentData(t *testing.T) {
	t.Parallel()

	req := model.ClarificationRequest{
		Type:  model.TypeCustom,
		Title: "Complex Situation Review",
		Context: model.RequestContext{
			ClaimID: "claim-3",
			AgentData: map[model.AgentType]map[string]any{
				model.AgentClaimParser: {"verdict": "true"},
			},
		},
	}

	prompt := FormatPrompt(req)

	assert.NotNil(t, prompt.CustomData)
	assert.Contains(t, prompt.CustomData, "agent_results")
}
