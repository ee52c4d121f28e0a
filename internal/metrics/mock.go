package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	queueJoins         int
	matchesFormed      int
	matchesCancelled   int
	acceptTimeouts     int
	draftsCompleted    int
	actionsSynthesized int
	draftDurations     []float64
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		draftDurations: make([]float64, 0),
	}
}

func (m *Mock) IncQueueJoins() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueJoins++
}

func (m *Mock) IncMatchesFormed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesFormed++
}

func (m *Mock) IncMatchesCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCancelled++
}

func (m *Mock) IncAcceptTimeouts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acceptTimeouts++
}

func (m *Mock) IncDraftsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draftsCompleted++
}

func (m *Mock) IncActionsSynthesized() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actionsSynthesized++
}

func (m *Mock) ObserveDraftDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draftDurations = append(m.draftDurations, seconds)
}

func (m *Mock) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = seconds
}

// MatchesFormed returns the number of times IncMatchesFormed was called.
func (m *Mock) MatchesFormed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesFormed
}

// MatchesCancelled returns the number of times IncMatchesCancelled was called.
func (m *Mock) MatchesCancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCancelled
}

// AcceptTimeouts returns the number of times IncAcceptTimeouts was called.
func (m *Mock) AcceptTimeouts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acceptTimeouts
}

// DraftsCompleted returns the number of times IncDraftsCompleted was called.
func (m *Mock) DraftsCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draftsCompleted
}

// ActionsSynthesized returns the number of times IncActionsSynthesized was called.
func (m *Mock) ActionsSynthesized() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.actionsSynthesized
}
