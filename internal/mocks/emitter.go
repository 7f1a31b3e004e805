package mocks

import (
	"context"
	"sync"

	"github.com/nexusboard/nexus-api/internal/events"
)

// MockEmitter implements events.Emitter for testing. It records every
// emitted event and optionally delegates to EmitEventFn.
type MockEmitter struct {
	EmitEventFn func(ctx context.Context, event *events.Event) error

	mu     sync.Mutex
	events []*events.Event
}

// EmitEvent implements events.Emitter.
func (m *MockEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}
	return nil
}

// Events returns a copy of all emitted events.
func (m *MockEmitter) Events() []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.Event, len(m.events))
	copy(out, m.events)
	return out
}

// Verify interface compliance at compile time.
var _ events.Emitter = (*MockEmitter)(nil)
