package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/claimcheck/internal/model"
)

func TestMemorySink_LogAndList(t *testing.T) {
	t.Parallel()

	sink := NewMemory()
	ctx := context.Background()

	id, err := sink.LogEvent(ctx, Event{
		Agent:   model.AgentOrchestrator,
		Type:    "clarification_requested",
		ClaimID: "claim-1",
		Data:    map[string]any{"request_id": "req-1"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = sink.LogEvent(ctx, Event{
		Agent:   model.AgentOrchestrator,
		Type:    "clarification_responded",
		ClaimID: "claim-2",
		UserID:  "reviewer-7",
	})
	require.NoError(t, err)

	all, err := sink.ListEvents(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.False(t, all[0].CreatedAt.IsZero())

	scoped, err := sink.ListEvents(ctx, "claim-2")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "clarification_responded", scoped[0].Type)
	assert.Equal(t, "reviewer-7", scoped[0].UserID)
}

func TestMemorySink_PreservesExplicitID(t *testing.T) {
	t.Parallel()

	sink := NewMemory()
	id, err := sink.LogEvent(context.Background(), Event{ID: "fixed-id", Type: "x"})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
}
