package match

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/rifthouse/rifthouse/internal/balancer"
	"github.com/rifthouse/rifthouse/internal/events"
	"github.com/rifthouse/rifthouse/internal/launcher"
	"github.com/rifthouse/rifthouse/internal/metrics"
	"github.com/rifthouse/rifthouse/internal/queue"
)

// New creates the match lifecycle coordinator.
func New(store Store, q PlayerQueue, sink events.Sink, gl launcher.GameLauncher, m metrics.Metrics, opts Options) *Coordinator {
	return &Coordinator{
		matches:       make(map[string]*Match),
		store:         store,
		queue:         q,
		sink:          sink,
		launcher:      gl,
		metrics:       m,
		acceptTimeout: opts.AcceptTimeout,
		phaseTimeout:  opts.PhaseTimeout,
		phases:        opts.Phases,
		poolSize:      opts.PoolSize,
	}
}

// TryFormMatch asks the queue for a full set of candidates and, still under
// the queue lock, creates and registers the match from them: entry
// consumption and registration are one atomic step, so the consumed players
// are never observable as neither queued nor in a match. Returns nil when
// the queue was not ready. Invoked after every successful join.
func (c *Coordinator) TryFormMatch() *Match {
	var formed *Match
	c.queue.TryFormMatch(func(entries []queue.Entry) error {
		m, err := c.createMatch(entries)
		if err != nil {
			return err
		}
		formed = m
		return nil
	})
	if formed != nil {
		// Persisting, notifying and timer arming happen outside the
		// queue lock; the dispatcher reacts to MatchFound by reading
		// the queue.
		c.finalizeFormation(formed)
	}
	return formed
}

// createMatch balances the candidates into two teams and registers the
// match. Runs inside the queue's form callback.
func (c *Coordinator) createMatch(entries []queue.Entry) (*Match, error) {
	candidates := make([]balancer.Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, balancer.Candidate{Player: e.Player, JoinOrder: e.JoinOrder})
	}
	team1, team2, quality, err := balancer.Balance(candidates)
	if err != nil {
		// Invariant violation: the queue handed us a set the balancer
		// rejects. Surfaced loudly, entries stay queued.
		return nil, fmt.Errorf("balancer rejected candidates: %w", err)
	}

	now := time.Now()
	m := &Match{
		ID:             uuid.New().String(),
		Team1:          team1,
		Team2:          team2,
		Quality:        quality,
		CreatedAt:      now,
		UpdatedAt:      now,
		AcceptDeadline: now.Add(c.acceptTimeout),
		Acceptances:    make(map[string]Acceptance, len(entries)),
		participants:   make(map[string]bool, len(entries)),
		entries:        entries,
		status:         StatusForming,
	}
	for _, ta := range append(append([]balancer.TeamAssignment{}, team1...), team2...) {
		m.participants[ta.Player.ID] = true
		if ta.Player.IsBot {
			// Bots accept internally; they never surface to the
			// synchronization layer as needing a decision.
			m.Acceptances[ta.Player.ID] = AcceptanceAccepted
		} else {
			m.Acceptances[ta.Player.ID] = AcceptancePending
		}
	}

	// Forming is instantaneous; the gate opens in the same step.
	m.setStatus(StatusAwaitingAcceptance)

	c.mu.Lock()
	c.matches[m.ID] = m
	c.mu.Unlock()

	c.metrics.IncMatchesFormed()
	log.Info("Match formed", "matchID", m.ID, "mmr_delta", quality.MMRDelta, "autofills", quality.Autofills)
	return m, nil
}

// finalizeFormation persists the freshly registered match, notifies its
// humans and arms the acceptance timer. The status gate covers the case of
// a command cancelling the match before this runs.
func (c *Coordinator) finalizeFormation(m *Match) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Status() != StatusAwaitingAcceptance {
		return
	}
	c.persist(m)
	c.emit(events.Event{
		Type:    events.TypeMatchFound,
		MatchID: m.ID,
		Payload: MatchFoundPayload{MatchID: m.ID, Team1: m.Team1, Team2: m.Team2, AcceptDeadline: m.AcceptDeadline},
	}, humanIDs(m))

	matchID := m.ID
	m.acceptTimer = time.AfterFunc(c.acceptTimeout, func() {
		c.OnAcceptanceDeadline(matchID)
	})
}

// Accept records a participant's acceptance. The Draft transition fires
// exactly once even when the final accept races the deadline timer: both are
// serialized on the match lock and the draftStarted flag is set atomically
// with the transition.
func (c *Coordinator) Accept(matchID, playerID string) AcceptResult {
	m := c.get(matchID)
	if m == nil {
		return AcceptMatchNotFound
	}

	m.mu.Lock()
	res := c.acceptLocked(m, playerID)
	terminal := m.Status().Terminal()
	m.mu.Unlock()

	if terminal {
		c.remove(matchID)
	}
	return res
}

func (c *Coordinator) acceptLocked(m *Match, playerID string) AcceptResult {
	if m.Status() != StatusAwaitingAcceptance {
		log.Debug("Accept rejected, wrong state", "matchID", m.ID, "playerID", playerID, "status", m.Status())
		return AcceptWrongState
	}
	if _, ok := m.Acceptances[playerID]; !ok {
		return AcceptInvalidPlayer
	}
	if m.Acceptances[playerID] == AcceptanceDeclined {
		// A decline is final; it is already cancelling the match.
		return AcceptWrongState
	}

	m.Acceptances[playerID] = AcceptanceAccepted
	log.Info("Player accepted match", "matchID", m.ID, "playerID", playerID)

	for _, a := range m.Acceptances {
		if a != AcceptanceAccepted {
			return AcceptOK
		}
	}
	if m.draftStarted {
		return AcceptOK
	}
	m.draftStarted = true
	c.startDraftLocked(m)
	return AcceptOK
}

// Decline cancels the match and requeues everyone who had not declined,
// join order preserved. Re-entering the queue is the decliner's own
// explicit action, never automatic.
func (c *Coordinator) Decline(matchID, playerID string) AcceptResult {
	m := c.get(matchID)
	if m == nil {
		return AcceptMatchNotFound
	}

	m.mu.Lock()
	res := func() AcceptResult {
		if m.Status() != StatusAwaitingAcceptance {
			log.Debug("Decline rejected, wrong state", "matchID", m.ID, "playerID", playerID, "status", m.Status())
			return AcceptWrongState
		}
		if _, ok := m.Acceptances[playerID]; !ok {
			return AcceptInvalidPlayer
		}
		m.Acceptances[playerID] = AcceptanceDeclined
		log.Info("Player declined match", "matchID", m.ID, "playerID", playerID)
		c.cancelLocked(m, fmt.Sprintf("declined by %s", playerID), requeueNonDeclining(m))
		return AcceptOK
	}()
	terminal := m.Status().Terminal()
	m.mu.Unlock()

	if terminal {
		c.remove(matchID)
	}
	return res
}

// OnAcceptanceDeadline fires when the acceptance gate expires. It is just
// another serialized command: a race with the final Accept resolves to
// whichever takes the match lock first, and the loser sees the state gate.
func (c *Coordinator) OnAcceptanceDeadline(matchID string) {
	m := c.get(matchID)
	if m == nil {
		return
	}

	m.mu.Lock()
	if m.Status() == StatusAwaitingAcceptance {
		pending := 0
		for _, a := range m.Acceptances {
			if a == AcceptancePending {
				pending++
			}
		}
		if pending > 0 {
			log.Info("Acceptance deadline expired", "matchID", m.ID, "pending", pending)
			c.metrics.IncAcceptTimeouts()
			// Players still pending at the deadline are treated like
			// decliners: everyone else requeues, they do not.
			c.cancelLocked(m, "acceptance deadline expired", requeueAccepted(m))
		}
	}
	terminal := m.Status().Terminal()
	m.mu.Unlock()

	if terminal {
		c.remove(matchID)
	}
}

// cancelLocked is the single cancellation path: stops timers, closes any
// draft session, persists the terminal record, notifies, and releases the
// given entries back to the queue before the match is archived. Called with
// m.mu held.
func (c *Coordinator) cancelLocked(m *Match, reason string, requeue []queue.Entry) {
	if m.acceptTimer != nil {
		m.acceptTimer.Stop()
	}
	if m.phaseTimer != nil {
		m.phaseTimer.Stop()
	}
	if m.session != nil {
		m.session.Close()
	}

	m.CancelReason = reason
	m.setStatus(StatusCancelled)
	c.persist(m)

	// Requeue before notifying, so dispatchers reading the queue in
	// response see the entries already back in it.
	c.queue.Requeue(requeue)
	c.emit(events.Event{
		Type:    events.TypeMatchCancelled,
		MatchID: m.ID,
		Payload: MatchCancelledPayload{MatchID: m.ID, Reason: reason},
	}, humanIDs(m))

	c.metrics.IncMatchesCancelled()
	log.Info("Match cancelled", "matchID", m.ID, "reason", reason, "requeued", len(requeue))
}

// requeueNonDeclining picks the entries of every participant who had not
// declined, pending ones included.
func requeueNonDeclining(m *Match) []queue.Entry {
	out := make([]queue.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if m.Acceptances[e.Player.ID] != AcceptanceDeclined {
			out = append(out, e)
		}
	}
	return out
}

// requeueAccepted picks only the entries of participants who had accepted.
func requeueAccepted(m *Match) []queue.Entry {
	out := make([]queue.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if m.Acceptances[e.Player.ID] == AcceptanceAccepted {
			out = append(out, e)
		}
	}
	return out
}

// IsPlayerActive reports whether the player participates in any
// non-terminal match. This backs the queue's uniqueness check.
func (c *Coordinator) IsPlayerActive(playerID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, m := range c.matches {
		if m.participants[playerID] && !m.Status().Terminal() {
			return true
		}
	}
	return false
}

// Resync returns the full current state of a match for the given
// participant. It never mutates state, so clients may call it on every
// reconnect without side effects.
func (c *Coordinator) Resync(matchID, playerID string) (*StateSnapshot, error) {
	m := c.get(matchID)
	if m == nil {
		// Archived matches are served from the store.
		rec, err := c.store.GetMatch(matchID)
		if err != nil {
			return nil, err
		}
		if _, ok := rec.Acceptances[playerID]; !ok {
			return nil, fmt.Errorf("player %s is not a participant of match %s", playerID, matchID)
		}
		return &StateSnapshot{Record: *rec}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.participants[playerID] {
		return nil, fmt.Errorf("player %s is not a participant of match %s", playerID, matchID)
	}
	snap := &StateSnapshot{Record: *m.snapshotLocked()}
	if m.session != nil {
		snap.CurrentPhaseIndex = m.session.Current
		snap.Picks = m.session.Picks()
		snap.Bans = m.session.Bans()
	}
	return snap, nil
}

// Matches returns a point-in-time list of the live matches.
func (c *Coordinator) Matches() []*Record {
	c.mu.RLock()
	ms := make([]*Match, 0, len(c.matches))
	for _, m := range c.matches {
		ms = append(ms, m)
	}
	c.mu.RUnlock()

	out := make([]*Record, 0, len(ms))
	for _, m := range ms {
		m.mu.Lock()
		out = append(out, m.snapshotLocked())
		m.mu.Unlock()
	}
	return out
}

// snapshotLocked builds the persisted record. Called with m.mu held.
func (m *Match) snapshotLocked() *Record {
	rec := &Record{
		ID:             m.ID,
		Status:         m.Status(),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		AcceptDeadline: m.AcceptDeadline,
		Team1:          m.Team1,
		Team2:          m.Team2,
		Acceptances:    make(map[string]Acceptance, len(m.Acceptances)),
		QueueEntries:   m.entries,
		CancelReason:   m.CancelReason,
	}
	for id, a := range m.Acceptances {
		rec.Acceptances[id] = a
	}
	if m.session != nil {
		rec.Phases = m.session.Phases
		rec.ActionLog = m.session.Log
	}
	return rec
}

// persist writes the match record; failures are logged and the in-memory
// state stays authoritative.
func (c *Coordinator) persist(m *Match) {
	if err := c.store.SaveMatch(m.snapshotLocked()); err != nil {
		log.Error("Failed to persist match", "error", err, "matchID", m.ID)
	}
}

func (c *Coordinator) emit(ev events.Event, recipients []string) {
	if c.sink != nil {
		c.sink.Publish(ev, recipients)
	}
}

// humanIDs returns the ids of the match's human participants, the only
// recipients of outbound events.
func humanIDs(m *Match) []string {
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		if !e.Player.IsBot {
			out = append(out, e.Player.ID)
		}
	}
	return out
}

func (c *Coordinator) get(matchID string) *Match {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.matches[matchID]
}

func (c *Coordinator) remove(matchID string) {
	c.mu.Lock()
	delete(c.matches, matchID)
	c.mu.Unlock()
}

var _ queue.ActiveMatchChecker = (*Coordinator)(nil)
