package draft

import (
	"time"

	"github.com/rifthouse/rifthouse/internal/registry"
)

// ActionKind distinguishes bans from picks.
type ActionKind string

const (
	KindBan  ActionKind = "ban"
	KindPick ActionKind = "pick"
)

// Side identifies a team within a session.
type Side string

const (
	SideTeam1 Side = "team1"
	SideTeam2 Side = "team2"
)

// SlotsPerTeam is the number of acting slots on each side. Slots 0-4 are
// team1 in lane order, slots 5-9 are team2.
const SlotsPerTeam = 5

// Phase is one step of the ban/pick sequence. The acting team follows from
// the slot.
type Phase struct {
	Kind       ActionKind `json:"kind"`
	ActingSlot int        `json:"acting_slot"`
}

// Side returns the team owning the phase's acting slot.
func (p Phase) Side() Side {
	if p.ActingSlot < SlotsPerTeam {
		return SideTeam1
	}
	return SideTeam2
}

// Slot binds an acting slot to a participant, frozen at session creation.
type Slot struct {
	PlayerID string        `json:"player_id"`
	IsBot    bool          `json:"is_bot"`
	Lane     registry.Lane `json:"lane"`
}

// Action is one applied ban or pick. The log is append-only; together with
// the phase cursor it fully determines the derived picks and bans, so a
// session's history is replayable and auditable.
type Action struct {
	PhaseIndex     int        `json:"phase_index"`
	ActingPlayerID string     `json:"acting_player_id"`
	ChampionID     int        `json:"champion_id"`
	Kind           ActionKind `json:"kind"`
	Synthesized    bool       `json:"synthesized"`
	At             time.Time  `json:"at"`
}

// Result is the outcome of a SubmitAction call.
type Result string

const (
	ResultOK                  Result = "ok"
	ResultNotYourTurn         Result = "not-your-turn"
	ResultWrongPhaseKind      Result = "wrong-phase-kind"
	ResultChampionUnavailable Result = "champion-unavailable"
	ResultSessionClosed       Result = "session-closed"
	ResultSessionNotFound     Result = "session-not-found"
)

// Session is the turn-based ban/pick state for one match. It carries no
// locking of its own: the owning match's serialization domain is the only
// writer.
type Session struct {
	MatchID  string
	Phases   []Phase
	Current  int
	Slots    []Slot
	Log      []Action
	poolSize int
	used     map[int]bool
	closed   bool
}
