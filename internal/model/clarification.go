package model

import "time"

// ClarificationType selects the modality of a clarification request.
type ClarificationType string

const (
	TypeInput             ClarificationType = "input"
	TypeMultipleChoice    ClarificationType = "multiple_choice"
	TypeValueConfirmation ClarificationType = "value_confirmation"
	TypeAction            ClarificationType = "action"
	TypeCustom            ClarificationType = "custom"
)

// Priority is the urgency of a clarification request.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// priorityRank maps priority labels to numeric ranks for comparison.
// Higher rank means more urgent. Comparing the string labels directly would
// sort critical < high < low < medium, which is wrong.
var priorityRank = map[Priority]int{
	PriorityLow:      0,
	PriorityMedium:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

// Rank returns the numeric urgency rank of p (low=0 .. critical=3).
// Unrecognized priorities rank below low.
func (p Priority) Rank() int {
	rank, ok := priorityRank[p]
	if !ok {
		return -1
	}
	return rank
}

// MaxPriority returns the more urgent of a and b.
func MaxPriority(a, b Priority) Priority {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Status is the lifecycle state of a clarification request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusExpired    Status = "expired"
)

// Terminal reports whether s permits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Option is one selectable answer in a multiple-choice clarification.
type Option struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
}

// RequestContext is the typed envelope of trace data carried on a request:
// the metrics and conflicts that triggered it, the raw agent payloads, and
// the decision reason.
type RequestContext struct {
	ClaimID   string                       `json:"claim_id"`
	Metrics   ConfidenceMetrics            `json:"confidence_metrics"`
	Conflicts []EvidenceConflict           `json:"conflicts,omitempty"`
	AgentData map[AgentType]map[string]any `json:"agent_results,omitempty"`
	Reason    string                       `json:"reason"`
}

// ClarificationRequest is a structured request for human input. Response
// and ResponseUserID are populated if and only if Status is completed.
type ClarificationRequest struct {
	ID             string            `json:"request_id"`
	Type           ClarificationType `json:"clarification_type"`
	Priority       Priority          `json:"priority"`
	Status         Status            `json:"status"`
	ClaimID        string            `json:"claim_id"`
	Agent          AgentType         `json:"agent_type"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Context        RequestContext    `json:"context"`
	Options        []Option          `json:"options,omitempty"`
	DefaultValue   any               `json:"default_value,omitempty"`
	TimeoutSeconds int               `json:"timeout_seconds,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Response       map[string]any    `json:"response,omitempty"`
	ResponseUserID string            `json:"response_user_id,omitempty"`
}

// ExpiredAt reports whether the request's timeout has elapsed as of now.
// Requests without a timeout never expire.
func (r ClarificationRequest) ExpiredAt(now time.Time) bool {
	if r.TimeoutSeconds <= 0 {
		return false
	}
	return now.After(r.CreatedAt.Add(time.Duration(r.TimeoutSeconds) * time.Second))
}

// ClarificationResponse records a human answer to a clarification request.
// Created exactly once per request.
type ClarificationResponse struct {
	RequestID           string         `json:"request_id"`
	Data                map[string]any `json:"response_data"`
	UserID              string         `json:"user_id"`
	ResponseTimeSeconds float64        `json:"response_time_seconds"`
	Confidence          *float64       `json:"confidence,omitempty"`
	Notes               string         `json:"notes,omitempty"`
	Timestamp           time.Time      `json:"timestamp"`
}
