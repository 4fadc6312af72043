package clarify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/claimcheck/internal/audit"
	"github.com/sells-group/claimcheck/internal/config"
	"github.com/sells-group/claimcheck/internal/model"
)

func TestSweeperExpiresOverdueRequests(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(audit.NewMemory())
	overdue := testRequest("claim-1", model.PriorityMedium)
	overdue.TimeoutSeconds = 1
	overdue.CreatedAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, tracker.Track(context.Background(), overdue))

	sweeper := NewSweeper(tracker, config.SweepConfig{IntervalSecs: 1, RetrySecs: 1})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		req, ok := tracker.Get(overdue.ID)
		return ok && req.Status == model.StatusExpired
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
