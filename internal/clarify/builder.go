// Package clarify assembles clarification requests from evaluation results,
// tracks their lifecycle, and runs the orchestration surface that pipelines
// call into when automated analysis is not confident enough to proceed.
package clarify

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/claimcheck/internal/decision"
	"github.com/sells-group/claimcheck/internal/model"
)

// claimExcerptLen bounds how much claim content is quoted in request titles
// and descriptions.
const claimExcerptLen = 100

// Builder turns an escalation decision into a concrete clarification
// request, picking the modality that fits the situation.
type Builder struct {
	engine *decision.Engine
}

// NewBuilder creates a Builder that sources timeouts from engine.
func NewBuilder(engine *decision.Engine) *Builder {
	return &Builder{engine: engine}
}

// Build creates a pending clarification request for claim from the decision
// d and the evaluation inputs that produced it.
func (b *Builder) Build(claim model.Claim, metrics model.ConfidenceMetrics, conflicts []model.EvidenceConflict, results map[model.AgentType]model.AgentResult, d decision.Decision) model.ClarificationRequest {
	kind := selectType(metrics, conflicts)
	excerpt := claim.Excerpt(claimExcerptLen)

	var title, description string
	var options []model.Option
	switch kind {
	case model.TypeMultipleChoice:
		title = "Resolve Evidence Conflicts"
		description = fmt.Sprintf("Multiple sources provide conflicting information about: %s", excerpt)
		options = resolutionOptions(conflicts)
	case model.TypeValueConfirmation:
		title = "Confirm Analysis Results"
		description = fmt.Sprintf("Please confirm the analysis results for: %s", excerpt)
	case model.TypeInput:
		title = "Provide Additional Guidance"
		description = fmt.Sprintf("The system needs additional guidance for: %s", excerpt)
	default:
		title = "Complex Situation Review"
		description = fmt.Sprintf("A complex situation requires human review: %s", excerpt)
	}

	now := time.Now().UTC()
	return model.ClarificationRequest{
		ID:          uuid.New().String(),
		Type:        kind,
		Priority:    d.Priority,
		Status:      model.StatusPending,
		ClaimID:     claim.ID,
		Agent:       model.AgentOrchestrator,
		Title:       title,
		Description: description,
		Context: model.RequestContext{
			ClaimID:   claim.ID,
			Metrics:   metrics,
			Conflicts: conflicts,
			AgentData: agentData(results),
			Reason:    d.Reason,
		},
		Options:        options,
		TimeoutSeconds: b.engine.TimeoutFor(d.Priority),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// selectType picks the clarification modality. Conflicts are resolved by
// choosing among them; otherwise lower confidence calls for more open-ended
// input.
func selectType(metrics model.ConfidenceMetrics, conflicts []model.EvidenceConflict) model.ClarificationType {
	if len(conflicts) > 0 {
		return model.TypeMultipleChoice
	}
	if metrics.Overall < 0.4 {
		return model.TypeInput
	}
	if metrics.Overall < 0.8 {
		return model.TypeValueConfirmation
	}
	return model.TypeCustom
}

// resolutionOptions builds the selectable answers for a conflict-resolution
// request: one per contradictory source, plus the standing fallbacks.
func resolutionOptions(conflicts []model.EvidenceConflict) []model.Option {
	var options []model.Option
	for _, conflict := range conflicts {
		if conflict.Type != model.ConflictContradictorySources {
			continue
		}
		for i, source := range conflict.Sources {
			name := source.Source
			if name == "" {
				name = "Unknown Source"
			}
			verdict := source.Verdict
			if verdict == "" {
				verdict = "Unknown"
			}
			options = append(options, model.Option{
				ID:          fmt.Sprintf("source_%s_%d", conflict.ID, i),
				Label:       fmt.Sprintf("Trust %s", name),
				Description: fmt.Sprintf("Verdict: %s (Confidence: %.2f)", verdict, source.Confidence),
				Data: map[string]any{
					"source":     source.Source,
					"verdict":    source.Verdict,
					"confidence": source.Confidence,
				},
			})
		}
	}

	options = append(options,
		model.Option{
			ID:          "request_more_evidence",
			Label:       "Request Additional Evidence",
			Description: "Ask for more sources before making a decision",
			Data:        map[string]any{"action": "request_more_evidence"},
		},
		model.Option{
			ID:          "manual_review",
			Label:       "Escalate for Manual Review",
			Description: "Flag this claim for detailed manual investigation",
			Data:        map[string]any{"action": "escalate"},
		},
	)
	return options
}

// agentData extracts the raw payloads of agents that produced data, keyed by
// agent type, for the request context.
func agentData(results map[model.AgentType]model.AgentResult) map[model.AgentType]map[string]any {
	var data map[model.AgentType]map[string]any
	for agent, result := range results {
		if len(result.Data) == 0 {
			continue
		}
		if data == nil {
			data = make(map[model.AgentType]map[string]any)
		}
		data[agent] = result.Data
	}
	return data
}
