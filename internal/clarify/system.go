package clarify

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/claimcheck/internal/confidence"
	"github.com/sells-group/claimcheck/internal/conflict"
	"github.com/sells-group/claimcheck/internal/decision"
	"github.com/sells-group/claimcheck/internal/model"
)

// Callback is invoked when a new clarification request is created. Callback
// failures are logged and never fail the request.
type Callback func(ctx context.Context, req model.ClarificationRequest) error

// System is the clarification orchestrator: it scores confidence, detects
// conflicts, decides whether to escalate, builds and tracks requests, and
// routes responses back.
type System struct {
	scorer   *confidence.Scorer
	detector *conflict.Detector
	engine   *decision.Engine
	builder  *Builder
	tracker  *Tracker

	mu        sync.Mutex
	callbacks []Callback
}

// NewSystem wires a System around the given decision engine and tracker.
func NewSystem(engine *decision.Engine, tracker *Tracker) *System {
	return &System{
		scorer:   confidence.NewScorer(),
		detector: conflict.NewDetector(),
		engine:   engine,
		builder:  NewBuilder(engine),
		tracker:  tracker,
	}
}

// RegisterCallback adds a callback to notify on every new request.
func (s *System) RegisterCallback(cb Callback) {
	s.mu.Lock()
	s.callbacks = append(s.callbacks, cb)
	s.mu.Unlock()
}

// EvaluateAndRequest runs the full evaluation pipeline for a claim. It
// returns the created request, or nil when no clarification is needed.
func (s *System) EvaluateAndRequest(ctx context.Context, claim model.Claim, results map[model.AgentType]model.AgentResult, evidence []model.EvidenceRecord, metrics model.ConfidenceMetrics) (*model.ClarificationRequest, error) {
	conflicts := s.detector.Detect(evidence, results)
	d := s.engine.Evaluate(metrics, conflicts, results)
	if !d.Escalate {
		zap.L().Debug("no clarification needed",
			zap.String("claim_id", claim.ID),
			zap.String("reason", d.Reason))
		return nil, nil
	}

	req := s.builder.Build(claim, metrics, conflicts, results, d)
	if err := s.tracker.Track(ctx, req); err != nil {
		return nil, eris.Wrap(err, "clarify: tracking request")
	}
	s.notify(ctx, req)

	zap.L().Info("clarification requested",
		zap.String("claim_id", claim.ID),
		zap.String("request_id", req.ID),
		zap.String("title", req.Title))
	return &req, nil
}

// ProcessResponse records a human answer to a pending request. The request
// must exist and still be pending.
func (s *System) ProcessResponse(ctx context.Context, requestID string, data map[string]any, userID string) (*model.ClarificationResponse, error) {
	req, ok := s.tracker.Get(requestID)
	if !ok {
		return nil, eris.Wrapf(ErrRequestNotFound, "clarify: request %s", requestID)
	}
	if req.Status != model.StatusPending {
		return nil, eris.Wrapf(ErrRequestNotPending, "clarify: request %s has status %s", requestID, req.Status)
	}

	resp := model.ClarificationResponse{
		RequestID:           requestID,
		Data:                data,
		UserID:              userID,
		ResponseTimeSeconds: time.Since(req.CreatedAt).Seconds(),
		Timestamp:           time.Now().UTC(),
	}
	if v, ok := data["confidence"].(float64); ok {
		resp.Confidence = &v
	}
	if v, ok := data["notes"].(string); ok {
		resp.Notes = v
	}

	if err := s.tracker.RecordResponse(ctx, resp); err != nil {
		return nil, eris.Wrap(err, "clarify: recording response")
	}
	return &resp, nil
}

// Cancel withdraws a still-active request.
func (s *System) Cancel(ctx context.Context, requestID, userID string) error {
	return s.tracker.UpdateStatus(ctx, requestID, model.StatusCancelled, userID)
}

// Metrics computes confidence metrics from evidence and agent results.
func (s *System) Metrics(evidence []model.EvidenceRecord, results map[model.AgentType]model.AgentResult) model.ConfidenceMetrics {
	return s.scorer.Compute(evidence, results)
}

// Pending lists requests still awaiting a response, most urgent first.
func (s *System) Pending() []model.ClarificationRequest {
	return s.tracker.Pending()
}

// ForClaim lists all requests for a claim, oldest first.
func (s *System) ForClaim(claimID string) []model.ClarificationRequest {
	return s.tracker.ForClaim(claimID)
}

// Get returns the request with the given id.
func (s *System) Get(requestID string) (model.ClarificationRequest, bool) {
	return s.tracker.Get(requestID)
}

// ExportAudit snapshots tracked requests, optionally scoped to one claim.
func (s *System) ExportAudit(claimID string) AuditExport {
	return s.tracker.ExportAudit(claimID)
}

// notify fans the new request out to registered callbacks. Each callback
// runs in its own goroutine; panics and errors are logged and contained.
func (s *System) notify(ctx context.Context, req model.ClarificationRequest) {
	s.mu.Lock()
	cbs := make([]Callback, len(s.callbacks))
	copy(cbs, s.callbacks)
	s.mu.Unlock()
	if len(cbs) == 0 {
		return
	}

	g := new(errgroup.Group)
	for _, cb := range cbs {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					zap.L().Error("clarification callback panicked",
						zap.String("request_id", req.ID),
						zap.Any("panic", r))
				}
			}()
			if err := cb(ctx, req); err != nil {
				zap.L().Error("clarification callback failed",
					zap.String("request_id", req.ID),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
