package clarify

import (
	"fmt"
	"strings"

	"github.com/sells-group/claimcheck/internal/model"
)

// Prompt is the display form of a clarification request, shaped for a UI or
// operator console. Fields beyond the common header are populated per
// modality.
type Prompt struct {
	Type           model.ClarificationType `json:"type"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Options        []model.Option          `json:"options,omitempty"`
	AllowMultiple  bool                    `json:"allow_multiple,omitempty"`
	ValueToConfirm any                     `json:"value_to_confirm,omitempty"`
	Confidence     float64                 `json:"confidence,omitempty"`
	DefaultValue   any                     `json:"default_value,omitempty"`
	CustomData     map[string]any          `json:"custom_data,omitempty"`
	ContextSummary string                  `json:"context_summary"`
}

// FormatPrompt renders a request into its display form.
func FormatPrompt(req model.ClarificationRequest) Prompt {
	prompt := Prompt{
		Type:           req.Type,
		Title:          req.Title,
		Description:    req.Description,
		ContextSummary: summarizeContext(req.Context),
	}

	switch req.Type {
	case model.TypeMultipleChoice:
		prompt.Options = req.Options
	case model.TypeValueConfirmation:
		prompt.ValueToConfirm = req.DefaultValue
		prompt.Confidence = req.Context.Metrics.Overall
		prompt.Description = fmt.Sprintf("Please confirm if this value is correct (confidence: %.2f)", prompt.Confidence)
	case model.TypeInput:
		if req.DefaultValue != nil {
			prompt.DefaultValue = req.DefaultValue
			prompt.Description += fmt.Sprintf("\n\nDefault value: %v", req.DefaultValue)
		}
	case model.TypeCustom:
		if len(req.Context.AgentData) > 0 {
			prompt.CustomData = map[string]any{"agent_results": req.Context.AgentData}
		}
	}

	return prompt
}

// summarizeContext renders the request context as a one-line summary.
func summarizeContext(ctx model.RequestContext) string {
	var parts []string
	if ctx.ClaimID != "" {
		parts = append(parts, fmt.Sprintf("Claim ID: %s", ctx.ClaimID))
	}
	parts = append(parts, fmt.Sprintf("Overall Confidence: %.2f", ctx.Metrics.Overall))
	if len(ctx.Conflicts) > 0 {
		parts = append(parts, fmt.Sprintf("Evidence Conflicts: %d", len(ctx.Conflicts)))
	}
	if len(parts) == 0 {
		return "No additional context available."
	}
	return strings.Join(parts, " | ")
}
