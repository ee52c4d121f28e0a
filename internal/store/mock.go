package store

import (
	"sync"

	"github.com/rifthouse/rifthouse/internal/match"
)

// MockStore is an in-memory mock implementation of match.Store for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	SaveMatchFunc         func(rec *match.Record) error
	GetMatchFunc          func(matchID string) (*match.Record, error)
	LoadActiveMatchesFunc func() ([]*match.Record, error)

	// Call records
	SaveMatchCalls []match.Record

	// Records is consulted by the default implementations.
	Records map[string]*match.Record
}

// NewMock creates a new mock store.
func NewMock() *MockStore {
	return &MockStore{
		Records: make(map[string]*match.Record),
	}
}

// SaveMatch records the call and stores a copy of the record.
func (m *MockStore) SaveMatch(rec *match.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveMatchCalls = append(m.SaveMatchCalls, *rec)
	if m.SaveMatchFunc != nil {
		return m.SaveMatchFunc(rec)
	}
	cp := *rec
	m.Records[rec.ID] = &cp
	return nil
}

// GetMatch executes the mock function if provided, otherwise it serves from
// the Records map.
func (m *MockStore) GetMatch(matchID string) (*match.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	rec, ok := m.Records[matchID]
	if !ok {
		return nil, match.ErrMatchNotFound
	}
	cp := *rec
	return &cp, nil
}

// LoadActiveMatches executes the mock function if provided, otherwise it
// returns every non-terminal record.
func (m *MockStore) LoadActiveMatches() ([]*match.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadActiveMatchesFunc != nil {
		return m.LoadActiveMatchesFunc()
	}
	var records []*match.Record
	for _, rec := range m.Records {
		if !rec.Status.Terminal() {
			cp := *rec
			records = append(records, &cp)
		}
	}
	return records, nil
}

// Saves returns the number of SaveMatch calls so far.
func (m *MockStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SaveMatchCalls)
}

var _ match.Store = (*MockStore)(nil)
