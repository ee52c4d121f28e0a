package match

import (
	"errors"
	"sync"
	"time"

	"github.com/rifthouse/rifthouse/internal/balancer"
	"github.com/rifthouse/rifthouse/internal/config"
	"github.com/rifthouse/rifthouse/internal/draft"
	"github.com/rifthouse/rifthouse/internal/events"
	"github.com/rifthouse/rifthouse/internal/launcher"
	"github.com/rifthouse/rifthouse/internal/metrics"
	"github.com/rifthouse/rifthouse/internal/queue"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrWrongState    = errors.New("match is not in the required state")
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusForming            Status = "FORMING"
	StatusAwaitingAcceptance Status = "AWAITING_ACCEPTANCE"
	StatusDraft              Status = "DRAFT"
	StatusCompleted          Status = "COMPLETED"
	StatusCancelled          Status = "CANCELLED"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Acceptance is one participant's answer to the acceptance gate.
type Acceptance string

const (
	AcceptancePending  Acceptance = "PENDING"
	AcceptanceAccepted Acceptance = "ACCEPTED"
	AcceptanceDeclined Acceptance = "DECLINED"
)

// AcceptResult is the outcome of an Accept or Decline call.
type AcceptResult string

const (
	AcceptOK            AcceptResult = "ok"
	AcceptInvalidPlayer AcceptResult = "invalid-player"
	AcceptWrongState    AcceptResult = "wrong-state"
	AcceptMatchNotFound AcceptResult = "match-not-found"
)

// Match is one formed match and its serialization domain: every mutation
// goes through mu, one at a time, in arrival order. statusMu is a leaf lock
// so read-only callers (audit, uniqueness checks) can see the status without
// queueing behind mutations.
type Match struct {
	ID             string
	Team1          []balancer.TeamAssignment
	Team2          []balancer.TeamAssignment
	Quality        balancer.QualityScore
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AcceptDeadline time.Time
	Acceptances    map[string]Acceptance
	CancelReason   string

	mu       sync.Mutex
	statusMu sync.RWMutex
	status   Status

	// participants is the fixed set of player ids, built at creation.
	participants map[string]bool
	// entries are the original queue entries, kept so cancellation can
	// restore everyone's join order.
	entries []queue.Entry

	// draftStarted guards the exactly-once AwaitingAcceptance -> Draft
	// transition; set atomically with the transition under mu.
	draftStarted bool
	session      *draft.Session
	draftBegan   time.Time

	acceptTimer *time.Timer
	phaseTimer  *time.Timer
}

// Status returns the current lifecycle state.
func (m *Match) Status() Status {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()
	return m.status
}

// setStatus is called with m.mu held.
func (m *Match) setStatus(s Status) {
	m.statusMu.Lock()
	m.status = s
	m.statusMu.Unlock()
	m.UpdatedAt = time.Now()
}

// Record is the persisted snapshot of a match, written at every state
// transition boundary. It is sufficient to reconstruct the in-memory state
// after a restart.
type Record struct {
	ID             string                    `json:"id"`
	Status         Status                    `json:"status"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
	AcceptDeadline time.Time                 `json:"accept_deadline"`
	Team1          []balancer.TeamAssignment `json:"team1"`
	Team2          []balancer.TeamAssignment `json:"team2"`
	Acceptances    map[string]Acceptance     `json:"acceptances"`
	QueueEntries   []queue.Entry             `json:"queue_entries"`
	Phases         []draft.Phase             `json:"phases,omitempty"`
	ActionLog      []draft.Action            `json:"action_log,omitempty"`
	CancelReason   string                    `json:"cancel_reason,omitempty"`
}

// StateSnapshot is the full current state served by Resync. Building it
// never mutates anything, so clients may call it arbitrarily often.
type StateSnapshot struct {
	Record
	CurrentPhaseIndex int                           `json:"current_phase_index"`
	Picks             map[draft.Side]map[string]int `json:"picks,omitempty"`
	Bans              map[draft.Side][]int          `json:"bans,omitempty"`
}

// Coordinator owns every live match. The matches map has its own lock, held
// only for map reads and writes, never across match mutations.
type Coordinator struct {
	mu      sync.RWMutex
	matches map[string]*Match

	store    Store
	queue    PlayerQueue
	sink     events.Sink
	launcher launcher.GameLauncher
	metrics  metrics.Metrics

	acceptTimeout time.Duration
	phaseTimeout  time.Duration
	phases        []draft.Phase
	poolSize      int

	auditStop chan struct{}
}

// Payloads for the coordinator's outbound events.

type MatchFoundPayload struct {
	MatchID        string                    `json:"match_id"`
	Team1          []balancer.TeamAssignment `json:"team1"`
	Team2          []balancer.TeamAssignment `json:"team2"`
	AcceptDeadline time.Time                 `json:"accept_deadline"`
}

type MatchCancelledPayload struct {
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
}

type DraftStartedPayload struct {
	MatchID string                    `json:"match_id"`
	Team1   []balancer.TeamAssignment `json:"team1"`
	Team2   []balancer.TeamAssignment `json:"team2"`
	Phases  []draft.Phase             `json:"phases"`
}

type DraftActionAppliedPayload struct {
	MatchID    string       `json:"match_id"`
	PhaseIndex int          `json:"phase_index"`
	Action     draft.Action `json:"action"`
}

type DraftCompletedPayload struct {
	MatchID string                        `json:"match_id"`
	Picks   map[draft.Side]map[string]int `json:"picks"`
	Bans    map[draft.Side][]int          `json:"bans"`
}

// Options carries the coordinator's tunables, taken from config.
type Options struct {
	AcceptTimeout time.Duration
	PhaseTimeout  time.Duration
	Phases        []draft.Phase
	PoolSize      int
}

// OptionsFromConfig parses the draft sequence and bundles the tunables.
func OptionsFromConfig(qc config.QueueConfig, dc config.DraftConfig) (Options, error) {
	phases, err := draft.ParseSequence(dc.Sequence)
	if err != nil {
		return Options{}, err
	}
	return Options{
		AcceptTimeout: qc.AcceptTimeout,
		PhaseTimeout:  dc.PhaseTimeout,
		Phases:        phases,
		PoolSize:      dc.ChampionPoolSize,
	}, nil
}
