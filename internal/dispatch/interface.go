package dispatch

import "github.com/rifthouse/rifthouse/internal/events"

// Broadcaster delivers one event to one connected player. The transport
// behind it (websocket, long-poll, whatever) is not this service's concern.
type Broadcaster interface {
	Deliver(playerID string, ev events.Event) error
}
