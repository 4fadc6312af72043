// Package audit provides the audit trail sink the clarification core logs
// into. The core only depends on the Sink interface; memory, sqlite, and
// postgres implementations are provided for the process surface.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/claimcheck/internal/model"
)

// Event is a single audit trail entry.
type Event struct {
	ID        string          `json:"event_id"`
	Agent     model.AgentType `json:"agent_type"`
	Type      string          `json:"event_type"`
	ClaimID   string          `json:"claim_id,omitempty"`
	UserID    string          `json:"user_id,omitempty"`
	Data      map[string]any  `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Sink accepts audit events from the clarification core.
type Sink interface {
	// LogEvent records an event and returns its id. A missing event id or
	// timestamp is filled in by the sink.
	LogEvent(ctx context.Context, event Event) (string, error)

	// ListEvents returns events, optionally filtered by claim id, oldest
	// first.
	ListEvents(ctx context.Context, claimID string) ([]Event, error)

	Close() error
}

// stamp fills in the id and timestamp for an event about to be recorded.
func stamp(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return event
}
