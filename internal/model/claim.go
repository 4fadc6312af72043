package model

import (
	"strings"
	"time"
)

// AgentType identifies which analysis agent produced a result.
type AgentType string

const (
	AgentClaimParser       AgentType = "claim_parser"
	AgentEvidenceCollector AgentType = "evidence_collector"
	AgentReportGenerator   AgentType = "report_generator"
	AgentOrchestrator      AgentType = "orchestrator"
)

// Claim is a unit of content submitted for fact-checking.
type Claim struct {
	ID          string    `json:"claim_id"`
	Content     string    `json:"content"`
	SourceURL   string    `json:"source_url,omitempty"`
	SubmittedAt time.Time `json:"submitted_at,omitempty"`
}

// Excerpt returns the claim content truncated to max characters, with an
// ellipsis appended when truncation occurred.
func (c Claim) Excerpt(max int) string {
	content := strings.TrimSpace(c.Content)
	if max <= 0 || len(content) <= max {
		return content
	}
	return content[:max] + "..."
}

// AgentResult holds the output of a single analysis agent.
type AgentResult struct {
	Agent      AgentType      `json:"agent_type"`
	Success    bool           `json:"success"`
	Data       map[string]any `json:"data,omitempty"`
	Error      string         `json:"error,omitempty"`
	Confidence *float64       `json:"confidence,omitempty"`
	DurationMS int64          `json:"duration_ms,omitempty"`
}

// Verdict returns the verdict carried in the result data, falling back to a
// "conclusion" key. The second return is false when neither is present or
// the value is not a string.
func (r AgentResult) Verdict() (string, bool) {
	if r.Data == nil {
		return "", false
	}
	for _, key := range []string{"verdict", "conclusion"} {
		if v, ok := r.Data[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}
