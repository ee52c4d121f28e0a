package match

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/rifthouse/rifthouse/internal/balancer"
	"github.com/rifthouse/rifthouse/internal/draft"
	"github.com/rifthouse/rifthouse/internal/events"
)

// startDraftLocked transitions the match into Draft and opens the ban/pick
// session. Called with m.mu held, exactly once per match (guarded by
// m.draftStarted at the call sites).
func (c *Coordinator) startDraftLocked(m *Match) {
	if m.acceptTimer != nil {
		m.acceptTimer.Stop()
	}

	session, err := draft.NewSession(m.ID, draftSlots(m.Team1, m.Team2), c.phases, c.poolSize)
	if err != nil {
		log.Error("Failed to open draft session", "error", err, "matchID", m.ID)
		c.cancelLocked(m, "draft session could not be opened", m.entries)
		return
	}
	m.session = session
	m.draftBegan = time.Now()
	m.setStatus(StatusDraft)
	c.persist(m)

	c.emit(events.Event{
		Type:    events.TypeDraftStarted,
		MatchID: m.ID,
		Payload: DraftStartedPayload{MatchID: m.ID, Team1: m.Team1, Team2: m.Team2, Phases: session.Phases},
	}, humanIDs(m))
	log.Info("Draft started", "matchID", m.ID, "phases", len(session.Phases))

	c.advanceLocked(m)
}

// draftSlots freezes the slot assignment: team1 in lane order on slots 0-4,
// team2 on slots 5-9.
func draftSlots(team1, team2 []balancer.TeamAssignment) []draft.Slot {
	slots := make([]draft.Slot, 0, 2*draft.SlotsPerTeam)
	for _, ta := range team1 {
		slots = append(slots, draft.Slot{PlayerID: ta.Player.ID, IsBot: ta.Player.IsBot, Lane: ta.Lane})
	}
	for _, ta := range team2 {
		slots = append(slots, draft.Slot{PlayerID: ta.Player.ID, IsBot: ta.Player.IsBot, Lane: ta.Lane})
	}
	return slots
}

// SubmitDraftAction applies one ban or pick from the acting player. The
// session validates turn order, phase kind and champion availability; a
// rejected action leaves the session untouched.
func (c *Coordinator) SubmitDraftAction(matchID string, actingSlot int, championID int, kind draft.ActionKind) draft.Result {
	m := c.get(matchID)
	if m == nil {
		return draft.ResultSessionNotFound
	}

	m.mu.Lock()
	res := func() draft.Result {
		if m.Status() != StatusDraft || m.session == nil {
			return draft.ResultSessionClosed
		}
		phaseIndex := m.session.Current
		res := m.session.SubmitAction(actingSlot, championID, kind)
		if res != draft.ResultOK {
			log.Debug("Draft action rejected", "matchID", m.ID, "slot", actingSlot, "result", res)
			return res
		}
		if m.phaseTimer != nil {
			m.phaseTimer.Stop()
		}
		applied := m.session.Log[len(m.session.Log)-1]
		c.persist(m)
		c.emit(events.Event{
			Type:    events.TypeDraftActionApplied,
			MatchID: m.ID,
			Payload: DraftActionAppliedPayload{MatchID: m.ID, PhaseIndex: phaseIndex, Action: applied},
		}, humanIDs(m))

		c.advanceLocked(m)
		return draft.ResultOK
	}()
	terminal := m.Status().Terminal()
	m.mu.Unlock()

	if terminal {
		c.remove(matchID)
	}
	return res
}

// SubmitPlayerDraftAction resolves the player's acting slot and submits the
// action. Players act only for their own slot.
func (c *Coordinator) SubmitPlayerDraftAction(matchID, playerID string, championID int, kind draft.ActionKind) draft.Result {
	m := c.get(matchID)
	if m == nil {
		return draft.ResultSessionNotFound
	}

	slot := -1
	m.mu.Lock()
	if m.session != nil {
		for i, s := range m.session.Slots {
			if s.PlayerID == playerID {
				slot = i
				break
			}
		}
	}
	m.mu.Unlock()

	if slot < 0 {
		return draft.ResultNotYourTurn
	}
	return c.SubmitDraftAction(matchID, slot, championID, kind)
}

// OnPhaseDeadline fires when the acting player's phase timer expires. The
// armed phase index makes stale timers harmless: if the action landed first
// the cursor has moved on and the handler is a no-op.
func (c *Coordinator) OnPhaseDeadline(matchID string, phaseIndex int) {
	m := c.get(matchID)
	if m == nil {
		return
	}

	m.mu.Lock()
	if m.Status() == StatusDraft && m.session != nil && m.session.Current == phaseIndex {
		if _, ok := m.session.CurrentPhase(); ok {
			log.Info("Draft phase deadline expired, synthesizing", "matchID", m.ID, "phase", phaseIndex)
			c.synthesizeLocked(m)
			c.advanceLocked(m)
		}
	}
	terminal := m.Status().Terminal()
	m.mu.Unlock()

	if terminal {
		c.remove(matchID)
	}
}

// CancelDraft aborts a draft in progress. All ten participants return to
// the queue in join order; nobody declined anything here.
func (c *Coordinator) CancelDraft(matchID, reason string) error {
	m := c.get(matchID)
	if m == nil {
		return ErrMatchNotFound
	}

	m.mu.Lock()
	err := func() error {
		if m.Status() != StatusDraft {
			return ErrWrongState
		}
		c.cancelLocked(m, reason, m.entries)
		return nil
	}()
	terminal := m.Status().Terminal()
	m.mu.Unlock()

	if terminal {
		c.remove(matchID)
	}
	return err
}

// advanceLocked drives the session past every consecutive bot phase, then
// either completes the draft or arms the acting human's timer. Called with
// m.mu held.
func (c *Coordinator) advanceLocked(m *Match) {
	for {
		if _, ok := m.session.CurrentPhase(); !ok {
			break
		}
		if !m.session.ActingIsBot() {
			c.armPhaseTimerLocked(m)
			return
		}
		c.synthesizeLocked(m)
	}
	if m.session.Complete() {
		c.completeDraftLocked(m)
	}
}

// synthesizeLocked applies the deterministic fallback action for the
// current phase and publishes it like any player action.
func (c *Coordinator) synthesizeLocked(m *Match) {
	phaseIndex := m.session.Current
	action, err := m.session.Synthesize()
	if err != nil {
		log.Error("Failed to synthesize draft action", "error", err, "matchID", m.ID, "phase", phaseIndex)
		c.cancelLocked(m, "draft action synthesis failed", m.entries)
		return
	}
	c.metrics.IncActionsSynthesized()
	c.persist(m)
	c.emit(events.Event{
		Type:    events.TypeDraftActionApplied,
		MatchID: m.ID,
		Payload: DraftActionAppliedPayload{MatchID: m.ID, PhaseIndex: phaseIndex, Action: action},
	}, humanIDs(m))
}

// armPhaseTimerLocked schedules synthesis for the current phase. The timer
// carries the phase index it was armed for, so it can only ever act on that
// exact phase.
func (c *Coordinator) armPhaseTimerLocked(m *Match) {
	if m.phaseTimer != nil {
		m.phaseTimer.Stop()
	}
	matchID := m.ID
	phaseIndex := m.session.Current
	m.phaseTimer = time.AfterFunc(c.phaseTimeout, func() {
		c.OnPhaseDeadline(matchID, phaseIndex)
	})
}

// completeDraftLocked archives the finished match and hands the composition
// to the game launcher. Called with m.mu held.
func (c *Coordinator) completeDraftLocked(m *Match) {
	if m.phaseTimer != nil {
		m.phaseTimer.Stop()
	}
	m.setStatus(StatusCompleted)
	c.persist(m)

	picks := m.session.Picks()
	bans := m.session.Bans()
	c.emit(events.Event{
		Type:    events.TypeDraftCompleted,
		MatchID: m.ID,
		Payload: DraftCompletedPayload{MatchID: m.ID, Picks: picks, Bans: bans},
	}, humanIDs(m))

	launcherPicks := make(map[string]map[string]int, len(picks))
	for side, lanes := range picks {
		launcherPicks[string(side)] = lanes
	}
	launcherBans := make(map[string][]int, len(bans))
	for side, ids := range bans {
		launcherBans[string(side)] = ids
	}
	if err := c.launcher.NotifyDraftCompleted(m.ID, m.Team1, m.Team2, launcherPicks, launcherBans); err != nil {
		log.Error("Failed to notify game launcher", "error", err, "matchID", m.ID)
	}

	c.metrics.IncDraftsCompleted()
	c.metrics.ObserveDraftDuration(time.Since(m.draftBegan).Seconds())
	log.Info("Draft completed", "matchID", m.ID, "duration", time.Since(m.draftBegan))
}
