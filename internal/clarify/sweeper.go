package clarify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/claimcheck/internal/config"
)

// Sweeper expires overdue clarification requests in the background.
type Sweeper struct {
	tracker *Tracker
	cfg     config.SweepConfig
}

// NewSweeper creates a background expiry sweeper.
func NewSweeper(tracker *Tracker, cfg config.SweepConfig) *Sweeper {
	return &Sweeper{
		tracker: tracker,
		cfg:     cfg,
	}
}

// Run starts the periodic sweep loop. It blocks until ctx is cancelled.
// After a failed sweep the next attempt comes sooner, on the retry delay.
func (s *Sweeper) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.IntervalSecs) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	retry := time.Duration(s.cfg.RetrySecs) * time.Second
	if retry <= 0 {
		retry = time.Minute
	}

	log := zap.L().With(zap.String("component", "clarify.sweeper"))
	log.Info("starting expiry sweeper",
		zap.Duration("interval", interval),
		zap.Duration("retry_delay", retry),
	)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("expiry sweeper stopped")
			return
		case <-timer.C:
			delay := interval
			expired, err := s.tracker.SweepExpired(ctx)
			if err != nil {
				log.Error("sweep: failed to expire requests", zap.Error(err))
				delay = retry
			} else if expired > 0 {
				log.Info("sweep: expired clarification requests", zap.Int("count", expired))
			}
			timer.Reset(delay)
		}
	}
}
