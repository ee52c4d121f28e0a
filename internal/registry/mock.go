package registry

import (
	"fmt"
	"sync"
)

// MockRegistry is a mock implementation of PlayerRegistry for testing.
// It is safe for concurrent use.
type MockRegistry struct {
	mu sync.Mutex

	// Spies for method calls
	GetPlayerFunc     func(id string) (*Player, error)
	UpsertPlayersFunc func(players []Player) error
	GetAllPlayersFunc func() ([]Player, error)

	// Call records
	GetPlayerCalls     []string
	UpsertPlayersCalls [][]Player

	// Players is consulted by the default GetPlayer implementation.
	Players map[string]Player
}

// NewMock creates a new mock registry.
func NewMock() *MockRegistry {
	return &MockRegistry{
		Players: make(map[string]Player),
	}
}

// GetPlayer records the call and executes the mock function if provided,
// otherwise it serves from the Players map.
func (m *MockRegistry) GetPlayer(id string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayerCalls = append(m.GetPlayerCalls, id)
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(id)
	}
	if p, ok := m.Players[id]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
}

// UpsertPlayers records the call and updates the Players map.
func (m *MockRegistry) UpsertPlayers(players []Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayersCalls = append(m.UpsertPlayersCalls, players)
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(players)
	}
	for _, p := range players {
		m.Players[p.ID] = p
	}
	return nil
}

// GetAllPlayers executes the mock function if provided, otherwise it returns
// the Players map contents in unspecified order.
func (m *MockRegistry) GetAllPlayers() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	players := make([]Player, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, p)
	}
	return players, nil
}
