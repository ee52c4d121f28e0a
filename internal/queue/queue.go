package queue

import (
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rifthouse/rifthouse/internal/registry"
)

// New creates a queue manager. matchSize is the number of entries consumed
// into one match; active guards the player-uniqueness invariant.
func New(matchSize int, active ActiveMatchChecker) *Manager {
	return &Manager{
		matchSize: matchSize,
		active:    active,
	}
}

// SetActiveMatchChecker replaces the checker. Wiring hook for main, where
// the queue is built before the match coordinator that consumes it.
func (m *Manager) SetActiveMatchChecker(active ActiveMatchChecker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = active
}

// Join adds a player to the waiting pool. It is rejected when the player is
// already queued or already part of a non-terminal match.
func (m *Manager) Join(player registry.Player) JoinResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.Player.ID == player.ID {
			log.Debug("Join rejected, player already queued", "playerID", player.ID)
			return JoinAlreadyQueued
		}
	}
	if m.active != nil && m.active.IsPlayerActive(player.ID) {
		log.Debug("Join rejected, player already in a match", "playerID", player.ID)
		return JoinAlreadyInMatch
	}

	m.entries = append(m.entries, Entry{
		Player:    player,
		JoinTime:  time.Now(),
		JoinOrder: m.nextOrder,
	})
	m.nextOrder++
	log.Info("Player joined queue", "playerID", player.ID, "queue_size", len(m.entries), "bot", player.IsBot)
	return JoinAccepted
}

// Leave removes a player from the waiting pool. Returns false when the
// player was not queued.
func (m *Manager) Leave(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.Player.ID == playerID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			log.Info("Player left queue", "playerID", playerID, "queue_size", len(m.entries))
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current entries in join order.
func (m *Manager) Snapshot() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Size returns the current number of waiting entries.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// TryFormMatch consumes the entries for one match and hands them to form,
// all under the queue lock, so entry removal is atomic with match creation:
// no observer ever sees the entries both queued and in a match, or in
// neither. If form returns an error the entries stay queued untouched.
//
// The pool is ready once it holds matchSize entries including at least one
// human. The earliest entries are taken; if the earliest matchSize are all
// bots, the earliest human replaces the most recent of them so a formed
// match always has someone to answer the acceptance gate.
func (m *Manager) TryFormMatch(form func([]Entry) error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) < m.matchSize {
		return false
	}

	firstHuman := -1
	for i, e := range m.entries {
		if !e.Player.IsBot {
			firstHuman = i
			break
		}
	}
	if firstHuman == -1 {
		log.Debug("Queue full of bots only, not forming a match", "queue_size", len(m.entries))
		return false
	}

	picked := make(map[int]bool, m.matchSize)
	for i := 0; i < m.matchSize; i++ {
		picked[i] = true
	}
	if firstHuman >= m.matchSize {
		delete(picked, m.matchSize-1)
		picked[firstHuman] = true
	}

	consumed := make([]Entry, 0, m.matchSize)
	remaining := make([]Entry, 0, len(m.entries)-m.matchSize)
	for i, e := range m.entries {
		if picked[i] {
			consumed = append(consumed, e)
		} else {
			remaining = append(remaining, e)
		}
	}

	if err := form(consumed); err != nil {
		log.Error("Match formation failed, keeping entries queued", "error", err, "count", len(consumed))
		return false
	}
	m.entries = remaining

	log.Info("Consumed queue entries into a match", "count", len(consumed), "queue_size", len(m.entries))
	return true
}

// Requeue returns entries to the pool at their original join order. Used on
// match cancellation; a decline never penalizes teammates' queue position.
// An entry is skipped when its player rejoined on their own between the
// cancellation and the requeue, so a player id never appears twice.
func (m *Manager) Requeue(entries []Entry) {
	if len(entries) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	queued := make(map[string]bool, len(m.entries))
	for _, e := range m.entries {
		queued[e.Player.ID] = true
	}
	for _, e := range entries {
		if queued[e.Player.ID] {
			log.Debug("Skipping requeue, player already queued", "playerID", e.Player.ID)
			continue
		}
		m.entries = append(m.entries, e)
	}
	sort.SliceStable(m.entries, func(i, j int) bool {
		return m.entries[i].JoinOrder < m.entries[j].JoinOrder
	})
	log.Info("Requeued players", "count", len(entries), "queue_size", len(m.entries))
}
