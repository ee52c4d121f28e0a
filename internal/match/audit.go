package match

import (
	"time"

	"github.com/charmbracelet/log"
)

// StartAudit runs a periodic cross-component consistency scan. Findings are
// logged, never auto-repaired; a firing audit means a synchronization bug
// worth a human look. StopAudit stops it.
func (c *Coordinator) StartAudit(interval time.Duration) {
	if interval <= 0 {
		return
	}
	c.mu.Lock()
	if c.auditStop != nil {
		c.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	c.auditStop = stop
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.audit()
			}
		}
	}()
}

func (c *Coordinator) StopAudit() {
	c.mu.Lock()
	if c.auditStop != nil {
		close(c.auditStop)
		c.auditStop = nil
	}
	c.mu.Unlock()
}

// audit checks the two uniqueness invariants: no player both queued and in
// an active match, and no player in two active matches at once.
func (c *Coordinator) audit() {
	inMatch := make(map[string]string)

	c.mu.RLock()
	for id, m := range c.matches {
		if m.Status().Terminal() {
			continue
		}
		for pid := range m.participants {
			if other, ok := inMatch[pid]; ok {
				log.Error("Audit: player in two active matches", "playerID", pid, "matchID", id, "otherMatchID", other)
				continue
			}
			inMatch[pid] = id
		}
	}
	c.mu.RUnlock()

	for _, e := range c.queue.Snapshot() {
		if matchID, ok := inMatch[e.Player.ID]; ok {
			log.Error("Audit: player queued while in an active match", "playerID", e.Player.ID, "matchID", matchID)
		}
	}
}
