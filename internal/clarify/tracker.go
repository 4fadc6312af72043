package clarify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/claimcheck/internal/audit"
	"github.com/sells-group/claimcheck/internal/model"
)

// Tracker holds the lifecycle state of clarification requests. Requests stay
// in the active set until they reach a terminal status, then move to the
// terminal set; responses are kept alongside. All state is in memory and
// guarded by a single mutex. Audit events are emitted for every mutation.
type Tracker struct {
	mu        sync.Mutex
	active    map[string]*model.ClarificationRequest
	terminal  map[string]*model.ClarificationRequest
	responses map[string]model.ClarificationResponse
	sink      audit.Sink
}

// NewTracker creates a Tracker logging into sink.
func NewTracker(sink audit.Sink) *Tracker {
	return &Tracker{
		active:    make(map[string]*model.ClarificationRequest),
		terminal:  make(map[string]*model.ClarificationRequest),
		responses: make(map[string]model.ClarificationResponse),
		sink:      sink,
	}
}

// Track registers a new request with the tracker.
func (t *Tracker) Track(ctx context.Context, req model.ClarificationRequest) error {
	t.mu.Lock()
	cp := req
	t.active[req.ID] = &cp
	t.mu.Unlock()

	_, err := t.sink.LogEvent(ctx, audit.Event{
		Agent:   req.Agent,
		Type:    "clarification_requested",
		ClaimID: req.ClaimID,
		Data: map[string]any{
			"request_id":         req.ID,
			"clarification_type": string(req.Type),
			"priority":           string(req.Priority),
			"title":              req.Title,
		},
	})
	if err != nil {
		return eris.Wrap(err, "tracker: logging request event")
	}

	zap.L().Info("tracking clarification request",
		zap.String("request_id", req.ID),
		zap.String("claim_id", req.ClaimID),
		zap.String("priority", string(req.Priority)))
	return nil
}

// UpdateStatus transitions a request to status. Terminal requests cannot
// transition further.
func (t *Tracker) UpdateStatus(ctx context.Context, requestID string, status model.Status, userID string) error {
	t.mu.Lock()
	event, err := t.updateStatusLocked(requestID, status, userID)
	t.mu.Unlock()
	if err != nil {
		return err
	}

	if _, err := t.sink.LogEvent(ctx, event); err != nil {
		return eris.Wrap(err, "tracker: logging status event")
	}
	return nil
}

// updateStatusLocked performs the transition and returns the audit event to
// emit. Caller holds t.mu.
func (t *Tracker) updateStatusLocked(requestID string, status model.Status, userID string) (audit.Event, error) {
	req, ok := t.active[requestID]
	if !ok {
		if _, done := t.terminal[requestID]; done {
			return audit.Event{}, eris.Wrapf(ErrRequestNotPending, "tracker: request %s", requestID)
		}
		return audit.Event{}, eris.Wrapf(ErrRequestNotFound, "tracker: request %s", requestID)
	}

	oldStatus := req.Status
	req.Status = status
	req.UpdatedAt = time.Now().UTC()
	if status.Terminal() {
		t.terminal[requestID] = req
		delete(t.active, requestID)
	}

	return audit.Event{
		Agent:   req.Agent,
		Type:    "clarification_status_changed",
		ClaimID: req.ClaimID,
		UserID:  userID,
		Data: map[string]any{
			"request_id": requestID,
			"old_status": string(oldStatus),
			"new_status": string(status),
		},
	}, nil
}

// RecordResponse attaches a human answer to an active request and completes
// it. Responding to an unknown request or one already in a terminal state is
// an error.
func (t *Tracker) RecordResponse(ctx context.Context, resp model.ClarificationResponse) error {
	t.mu.Lock()
	req, ok := t.active[resp.RequestID]
	if !ok {
		_, done := t.terminal[resp.RequestID]
		t.mu.Unlock()
		if done {
			return eris.Wrapf(ErrRequestNotPending, "tracker: request %s", resp.RequestID)
		}
		return eris.Wrapf(ErrRequestNotFound, "tracker: request %s", resp.RequestID)
	}

	if resp.Timestamp.IsZero() {
		resp.Timestamp = time.Now().UTC()
	}
	req.Response = resp.Data
	req.ResponseUserID = resp.UserID
	t.responses[resp.RequestID] = resp
	statusEvent, err := t.updateStatusLocked(resp.RequestID, model.StatusCompleted, resp.UserID)
	t.mu.Unlock()
	if err != nil {
		return err
	}

	if _, err := t.sink.LogEvent(ctx, statusEvent); err != nil {
		return eris.Wrap(err, "tracker: logging status event")
	}
	_, err = t.sink.LogEvent(ctx, audit.Event{
		Agent:  model.AgentOrchestrator,
		Type:   "clarification_responded",
		UserID: resp.UserID,
		Data: map[string]any{
			"request_id":            resp.RequestID,
			"response_time_seconds": resp.ResponseTimeSeconds,
			"confidence":            resp.Confidence,
		},
	})
	if err != nil {
		return eris.Wrap(err, "tracker: logging response event")
	}

	zap.L().Info("recorded clarification response",
		zap.String("request_id", resp.RequestID),
		zap.String("user_id", resp.UserID))
	return nil
}

// Get returns a snapshot of the request with the given id, active or
// terminal.
func (t *Tracker) Get(requestID string) (model.ClarificationRequest, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if req, ok := t.active[requestID]; ok {
		return *req, true
	}
	if req, ok := t.terminal[requestID]; ok {
		return *req, true
	}
	return model.ClarificationRequest{}, false
}

// Response returns the recorded response for a request, if any.
func (t *Tracker) Response(requestID string) (model.ClarificationResponse, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	resp, ok := t.responses[requestID]
	return resp, ok
}

// ForClaim returns all requests for a claim, oldest first.
func (t *Tracker) ForClaim(claimID string) []model.ClarificationRequest {
	t.mu.Lock()
	var out []model.ClarificationRequest
	for _, req := range t.active {
		if req.ClaimID == claimID {
			out = append(out, *req)
		}
	}
	for _, req := range t.terminal {
		if req.ClaimID == claimID {
			out = append(out, *req)
		}
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Pending returns all requests still awaiting a response, most urgent
// first, ties broken oldest first.
func (t *Tracker) Pending() []model.ClarificationRequest {
	t.mu.Lock()
	var out []model.ClarificationRequest
	for _, req := range t.active {
		if req.Status == model.StatusPending {
			out = append(out, *req)
		}
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Priority.Rank(), out[j].Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// SweepExpired transitions every active request whose timeout has elapsed
// to expired and returns how many were expired.
func (t *Tracker) SweepExpired(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	t.mu.Lock()
	var expired []string
	for id, req := range t.active {
		if req.ExpiredAt(now) {
			expired = append(expired, id)
		}
	}
	sort.Strings(expired)

	var events []audit.Event
	for _, id := range expired {
		event, err := t.updateStatusLocked(id, model.StatusExpired, "")
		if err != nil {
			continue
		}
		events = append(events, event)
	}
	t.mu.Unlock()

	for _, event := range events {
		if _, err := t.sink.LogEvent(ctx, event); err != nil {
			return len(events), eris.Wrap(err, "tracker: logging expiry event")
		}
		zap.L().Warn("clarification request expired",
			zap.String("request_id", event.Data["request_id"].(string)),
			zap.String("claim_id", event.ClaimID))
	}
	return len(events), nil
}

// AuditExport is a point-in-time snapshot of tracked requests and their
// responses.
type AuditExport struct {
	ExportTimestamp time.Time                     `json:"export_timestamp"`
	ClaimID         string                        `json:"claim_id,omitempty"`
	RequestCount    int                           `json:"request_count"`
	Requests        []model.ClarificationRequest  `json:"requests"`
	Responses       []model.ClarificationResponse `json:"responses"`
	PendingCount    int                           `json:"pending_count"`
	CompletedCount  int                           `json:"completed_count"`
}

// ExportAudit snapshots all tracked requests, or only those for claimID
// when it is non-empty.
func (t *Tracker) ExportAudit(claimID string) AuditExport {
	var requests []model.ClarificationRequest
	if claimID != "" {
		requests = t.ForClaim(claimID)
	} else {
		t.mu.Lock()
		for _, req := range t.active {
			requests = append(requests, *req)
		}
		for _, req := range t.terminal {
			requests = append(requests, *req)
		}
		t.mu.Unlock()
		sort.Slice(requests, func(i, j int) bool {
			return requests[i].CreatedAt.Before(requests[j].CreatedAt)
		})
	}

	export := AuditExport{
		ExportTimestamp: time.Now().UTC(),
		ClaimID:         claimID,
		RequestCount:    len(requests),
		Requests:        requests,
	}
	t.mu.Lock()
	for _, req := range requests {
		if resp, ok := t.responses[req.ID]; ok {
			export.Responses = append(export.Responses, resp)
		}
	}
	t.mu.Unlock()
	for _, req := range requests {
		switch req.Status {
		case model.StatusPending:
			export.PendingCount++
		case model.StatusCompleted:
			export.CompletedCount++
		}
	}
	return export
}
