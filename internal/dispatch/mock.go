package dispatch

import (
	"sync"

	"github.com/rifthouse/rifthouse/internal/events"
)

// MockBroadcaster is a mock implementation of Broadcaster for testing.
// It is safe for concurrent use.
type MockBroadcaster struct {
	mu sync.Mutex

	// Spies for method calls
	DeliverFunc func(playerID string, ev events.Event) error

	// Call records
	DeliverCalls []DeliverCall
}

// DeliverCall holds the arguments for a call to Deliver.
type DeliverCall struct {
	PlayerID string
	Event    events.Event
}

// NewMockBroadcaster creates a new mock broadcaster.
func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{}
}

// Deliver records the call and executes the mock function if provided.
func (m *MockBroadcaster) Deliver(playerID string, ev events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeliverCalls = append(m.DeliverCalls, DeliverCall{PlayerID: playerID, Event: ev})
	if m.DeliverFunc != nil {
		return m.DeliverFunc(playerID, ev)
	}
	return nil
}

// Delivered returns the recorded calls for the given event type.
func (m *MockBroadcaster) Delivered(t events.Type) []DeliverCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []DeliverCall
	for _, c := range m.DeliverCalls {
		if c.Event.Type == t {
			out = append(out, c)
		}
	}
	return out
}

var _ Broadcaster = (*MockBroadcaster)(nil)
