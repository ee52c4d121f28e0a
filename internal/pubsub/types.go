package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. Each
// event type is published to the topic of the same name.
type EventType string

const (
	EventDraftCompleted EventType = "draft-completed"
	EventMatchCancelled EventType = "match-cancelled"
)

// DraftCompletedMessage is the envelope published when a draft finishes,
// consumed by the game launcher pipeline.
type DraftCompletedMessage struct {
	MatchID string                    `msgpack:"match_id"`
	Rosters map[string][]RosterSlot   `msgpack:"rosters"`
	Picks   map[string]map[string]int `msgpack:"picks"`
	Bans    map[string][]int          `msgpack:"bans"`
}

// RosterSlot is one player's seat in the final composition.
type RosterSlot struct {
	PlayerID string `msgpack:"player_id"`
	Lane     string `msgpack:"lane"`
	IsBot    bool   `msgpack:"is_bot"`
}

// MatchCancelledMessage is the envelope published when a match is
// cancelled, for downstream bookkeeping.
type MatchCancelledMessage struct {
	MatchID string `msgpack:"match_id"`
	Reason  string `msgpack:"reason"`
}
