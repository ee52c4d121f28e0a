package dispatch

import (
	"github.com/charmbracelet/log"
	"github.com/rifthouse/rifthouse/internal/events"
)

// LogBroadcaster is the default Broadcaster: it logs deliveries instead of
// pushing them over a transport. The real-time transport plugs in behind
// the Broadcaster interface.
type LogBroadcaster struct{}

func (LogBroadcaster) Deliver(playerID string, ev events.Event) error {
	log.Debug("Deliver", "playerID", playerID, "event", ev.Type, "matchID", ev.MatchID)
	return nil
}

var _ Broadcaster = LogBroadcaster{}
