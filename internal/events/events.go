// Package events defines the outbound state deltas pushed to connected
// clients, and the sink the coordinators publish them through.
package events

// Type identifies an outbound event.
type Type string

const (
	TypeQueueUpdated       Type = "queue_updated"
	TypeMatchFound         Type = "match_found"
	TypeMatchCancelled     Type = "match_cancelled"
	TypeDraftStarted       Type = "draft_started"
	TypeDraftActionApplied Type = "draft_action_applied"
	TypeDraftCompleted     Type = "draft_completed"
)

// Event is one state delta. Payload is the event-specific struct defined by
// the emitting package; it marshals to the wire as-is.
type Event struct {
	Type    Type   `json:"type"`
	MatchID string `json:"match_id,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Sink receives events for fan-out. Recipients are the human player ids the
// event is addressed to; an empty list means every connected client (queue
// updates). Bots are never recipients, they are driven internally.
type Sink interface {
	Publish(ev Event, recipients []string)
}

// NopSink drops every event. Used where no transport is wired.
type NopSink struct{}

func (NopSink) Publish(Event, []string) {}
