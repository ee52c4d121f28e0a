package launcher

import (
	"sync"

	"github.com/rifthouse/rifthouse/internal/balancer"
)

// MockLauncher is a mock implementation of GameLauncher for testing.
// It is safe for concurrent use.
type MockLauncher struct {
	mu sync.Mutex

	// Spies for method calls
	NotifyDraftCompletedFunc func(matchID string, team1, team2 []balancer.TeamAssignment, picks map[string]map[string]int, bans map[string][]int) error

	// Call records
	NotifyDraftCompletedCalls []NotifyDraftCompletedCall
}

// NotifyDraftCompletedCall holds the arguments for a call to NotifyDraftCompleted.
type NotifyDraftCompletedCall struct {
	MatchID string
	Team1   []balancer.TeamAssignment
	Team2   []balancer.TeamAssignment
	Picks   map[string]map[string]int
	Bans    map[string][]int
}

// NewMock creates a new mock launcher.
func NewMock() *MockLauncher {
	return &MockLauncher{}
}

// NotifyDraftCompleted records the call and executes the mock function if provided.
func (m *MockLauncher) NotifyDraftCompleted(matchID string, team1, team2 []balancer.TeamAssignment, picks map[string]map[string]int, bans map[string][]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyDraftCompletedCalls = append(m.NotifyDraftCompletedCalls, NotifyDraftCompletedCall{
		MatchID: matchID,
		Team1:   team1,
		Team2:   team2,
		Picks:   picks,
		Bans:    bans,
	})
	if m.NotifyDraftCompletedFunc != nil {
		return m.NotifyDraftCompletedFunc(matchID, team1, team2, picks, bans)
	}
	return nil
}
