package audit

import (
	"context"
	"sync"
)

// MemorySink keeps audit events in process memory. It is the default sink
// and the one used throughout the tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) LogEvent(_ context.Context, event Event) (string, error) {
	event = stamp(event)
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	return event.ID, nil
}

func (m *MemorySink) ListEvents(_ context.Context, claimID string) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Event, 0, len(m.events))
	for _, e := range m.events {
		if claimID != "" && e.ClaimID != claimID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *MemorySink) Close() error {
	return nil
}
