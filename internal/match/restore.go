package match

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rifthouse/rifthouse/internal/draft"
)

// Restore rebuilds the in-memory state for every non-terminal match from the
// store. Draft sessions are reconstructed by replaying the persisted action
// log; deadline timers are re-armed on the way out. Called once at startup,
// before any commands are admitted.
func (c *Coordinator) Restore() error {
	records, err := c.store.LoadActiveMatches()
	if err != nil {
		return fmt.Errorf("failed to load active matches: %w", err)
	}

	for _, rec := range records {
		m, err := c.restoreOne(rec)
		if err != nil {
			log.Error("Failed to restore match, cancelling it", "error", err, "matchID", rec.ID)
			rec.Status = StatusCancelled
			rec.CancelReason = "unrecoverable after restart"
			if saveErr := c.store.SaveMatch(rec); saveErr != nil {
				log.Error("Failed to persist cancellation", "error", saveErr, "matchID", rec.ID)
			}
			continue
		}
		c.mu.Lock()
		c.matches[m.ID] = m
		c.mu.Unlock()
		c.armRestored(m)
		log.Info("Restored match", "matchID", m.ID, "status", m.Status())
	}
	return nil
}

func (c *Coordinator) restoreOne(rec *Record) (*Match, error) {
	m := &Match{
		ID:             rec.ID,
		Team1:          rec.Team1,
		Team2:          rec.Team2,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
		AcceptDeadline: rec.AcceptDeadline,
		Acceptances:    rec.Acceptances,
		CancelReason:   rec.CancelReason,
		participants:   make(map[string]bool, len(rec.Acceptances)),
		entries:        rec.QueueEntries,
		status:         rec.Status,
	}
	for id := range rec.Acceptances {
		m.participants[id] = true
	}

	if rec.Status == StatusDraft {
		session, err := draft.NewSession(rec.ID, draftSlots(rec.Team1, rec.Team2), rec.Phases, c.poolSize)
		if err != nil {
			return nil, err
		}
		if err := session.Replay(rec.ActionLog); err != nil {
			return nil, err
		}
		m.session = session
		m.draftStarted = true
		m.draftBegan = rec.UpdatedAt
	}
	return m, nil
}

// armRestored re-arms the deadline for a restored match. A lapsed
// acceptance deadline fires immediately; a draft phase gets a fresh full
// timeout, since the in-flight remainder was lost with the process.
func (c *Coordinator) armRestored(m *Match) {
	m.mu.Lock()
	switch m.Status() {
	case StatusAwaitingAcceptance:
		matchID := m.ID
		remaining := time.Until(m.AcceptDeadline)
		if remaining < 0 {
			remaining = 0
		}
		m.acceptTimer = time.AfterFunc(remaining, func() {
			c.OnAcceptanceDeadline(matchID)
		})
	case StatusDraft:
		c.advanceLocked(m)
	}
	terminal := m.Status().Terminal()
	m.mu.Unlock()

	if terminal {
		c.remove(m.ID)
	}
}
