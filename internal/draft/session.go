package draft

import (
	"fmt"
	"time"
)

// NewSession creates the ban/pick session for a match entering draft. The
// slots are the ten participants frozen from the match's team assignments,
// team1 first in lane order; they never change for the session's lifetime.
func NewSession(matchID string, slots []Slot, phases []Phase, poolSize int) (*Session, error) {
	if len(slots) != 2*SlotsPerTeam {
		return nil, fmt.Errorf("session requires exactly %d slots, got %d", 2*SlotsPerTeam, len(slots))
	}
	if len(phases) == 0 {
		return nil, fmt.Errorf("session requires a non-empty phase sequence")
	}
	if poolSize < len(phases) {
		return nil, fmt.Errorf("champion pool of %d cannot cover %d phases", poolSize, len(phases))
	}
	return &Session{
		MatchID:  matchID,
		Phases:   phases,
		Slots:    slots,
		poolSize: poolSize,
		used:     make(map[int]bool),
	}, nil
}

// CurrentPhase returns the phase the session is waiting on. ok is false once
// the session is complete or cancelled.
func (s *Session) CurrentPhase() (Phase, bool) {
	if s.closed || s.Current >= len(s.Phases) {
		return Phase{}, false
	}
	return s.Phases[s.Current], true
}

// ActingIsBot reports whether the current phase belongs to a bot slot.
func (s *Session) ActingIsBot() bool {
	phase, ok := s.CurrentPhase()
	if !ok {
		return false
	}
	return s.Slots[phase.ActingSlot].IsBot
}

// Complete reports whether every phase has been applied.
func (s *Session) Complete() bool {
	return !s.closed && s.Current >= len(s.Phases)
}

// Closed reports whether the session was cancelled.
func (s *Session) Closed() bool {
	return s.closed
}

// Close marks the session cancelled. Partial progress is discarded, not
// persisted for resumption; rosters are re-balanced fresh on requeue.
func (s *Session) Close() {
	s.closed = true
}

// SubmitAction applies one ban or pick for the given acting slot.
// Validation order: session live, the slot's turn, the expected kind, then
// champion availability. Nothing is mutated unless the result is ResultOK.
func (s *Session) SubmitAction(actingSlot int, championID int, kind ActionKind) Result {
	phase, ok := s.CurrentPhase()
	if !ok {
		return ResultSessionClosed
	}
	if phase.ActingSlot != actingSlot {
		return ResultNotYourTurn
	}
	if phase.Kind != kind {
		return ResultWrongPhaseKind
	}
	if championID < 1 || championID > s.poolSize || s.used[championID] {
		return ResultChampionUnavailable
	}

	s.apply(Action{
		PhaseIndex:     s.Current,
		ActingPlayerID: s.Slots[actingSlot].PlayerID,
		ChampionID:     championID,
		Kind:           kind,
		At:             time.Now(),
	})
	return ResultOK
}

// Synthesize applies the deterministic default action for the current phase:
// the lowest-id champion still available. Used for bot slots and for human
// phases whose deadline expired; the log entry is flagged so a synthesized
// action is distinguishable from a voluntary one on audit.
func (s *Session) Synthesize() (Action, error) {
	phase, ok := s.CurrentPhase()
	if !ok {
		return Action{}, fmt.Errorf("no current phase to synthesize for match %s", s.MatchID)
	}

	championID := 0
	for id := 1; id <= s.poolSize; id++ {
		if !s.used[id] {
			championID = id
			break
		}
	}
	if championID == 0 {
		// Guarded against at session creation: the pool always covers the
		// phase count.
		return Action{}, fmt.Errorf("champion pool exhausted at phase %d of match %s", s.Current, s.MatchID)
	}

	action := Action{
		PhaseIndex:     s.Current,
		ActingPlayerID: s.Slots[phase.ActingSlot].PlayerID,
		ChampionID:     championID,
		Kind:           phase.Kind,
		Synthesized:    true,
		At:             time.Now(),
	}
	s.apply(action)
	return action, nil
}

// Replay re-applies a persisted action log onto a fresh session, restoring
// the cursor and champion bookkeeping after a process restart. The log is
// trusted; it was validated when first applied.
func (s *Session) Replay(actions []Action) error {
	if len(s.Log) != 0 {
		return fmt.Errorf("replay onto a non-empty session for match %s", s.MatchID)
	}
	if len(actions) > len(s.Phases) {
		return fmt.Errorf("action log of %d exceeds %d phases for match %s", len(actions), len(s.Phases), s.MatchID)
	}
	for _, a := range actions {
		s.apply(a)
	}
	return nil
}

// apply appends the action and advances the cursor. The cursor only ever
// moves forward.
func (s *Session) apply(a Action) {
	s.Log = append(s.Log, a)
	s.used[a.ChampionID] = true
	s.Current++
}

// Picks derives the per-team, per-lane champion selections from the log.
func (s *Session) Picks() map[Side]map[string]int {
	picks := map[Side]map[string]int{
		SideTeam1: {},
		SideTeam2: {},
	}
	for _, a := range s.Log {
		if a.Kind != KindPick {
			continue
		}
		phase := s.Phases[a.PhaseIndex]
		slot := s.Slots[phase.ActingSlot]
		picks[phase.Side()][string(slot.Lane)] = a.ChampionID
	}
	return picks
}

// Bans derives the per-team ban lists from the log, in applied order.
func (s *Session) Bans() map[Side][]int {
	bans := map[Side][]int{
		SideTeam1: {},
		SideTeam2: {},
	}
	for _, a := range s.Log {
		if a.Kind != KindBan {
			continue
		}
		side := s.Phases[a.PhaseIndex].Side()
		bans[side] = append(bans[side], a.ChampionID)
	}
	return bans
}

// PicksByPlayer derives actingPlayerID -> championID for completed picks.
func (s *Session) PicksByPlayer() map[string]int {
	picks := make(map[string]int)
	for _, a := range s.Log {
		if a.Kind == KindPick {
			picks[a.ActingPlayerID] = a.ChampionID
		}
	}
	return picks
}
