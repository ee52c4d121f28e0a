package dispatch

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/rifthouse/rifthouse/internal/draft"
	"github.com/rifthouse/rifthouse/internal/events"
	"github.com/rifthouse/rifthouse/internal/match"
	"github.com/rifthouse/rifthouse/internal/metrics"
	"github.com/rifthouse/rifthouse/internal/pubsub"
	"github.com/rifthouse/rifthouse/internal/queue"
	"github.com/rifthouse/rifthouse/internal/registry"
)

// Dispatcher is the synchronization layer: every inbound command enters
// through it, and every outbound event leaves through it. It keeps the
// connection registry and fans events out to the human participants they
// address; bots never receive anything.
type Dispatcher struct {
	mu        sync.RWMutex
	connected map[string]bool

	registry    registry.PlayerRegistry
	queue       *queue.Manager
	coordinator *match.Coordinator
	broadcaster Broadcaster
	pubsub      pubsub.PubSubClient
	metrics     metrics.Metrics
}

func New(reg registry.PlayerRegistry, q *queue.Manager, b Broadcaster, ps pubsub.PubSubClient, m metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		connected:   make(map[string]bool),
		registry:    reg,
		queue:       q,
		broadcaster: b,
		pubsub:      ps,
		metrics:     m,
	}
}

// SetCoordinator binds the coordinator after construction. The dispatcher
// is the coordinator's event sink, so the two reference each other; this
// breaks the construction cycle. Must be called before serving commands.
func (d *Dispatcher) SetCoordinator(coord *match.Coordinator) {
	d.coordinator = coord
}

// Connect registers a player's connection for event delivery.
func (d *Dispatcher) Connect(playerID string) {
	d.mu.Lock()
	d.connected[playerID] = true
	d.mu.Unlock()
}

// Disconnect drops the connection. Queued and in-match state is untouched;
// the player resyncs on reconnect.
func (d *Dispatcher) Disconnect(playerID string) {
	d.mu.Lock()
	delete(d.connected, playerID)
	d.mu.Unlock()
}

// Join puts the player in the queue and immediately attempts formation.
func (d *Dispatcher) Join(playerID string) (queue.JoinResult, error) {
	player, err := d.registry.GetPlayer(playerID)
	if err != nil {
		return "", err
	}

	res := d.queue.Join(*player)
	if res != queue.JoinAccepted {
		return res, nil
	}
	d.metrics.IncQueueJoins()
	d.queueUpdated()

	d.coordinator.TryFormMatch()
	return res, nil
}

// Leave removes the player from the queue. Players already locked into a
// match cannot leave this way; that is a decline or a draft cancel.
func (d *Dispatcher) Leave(playerID string) bool {
	left := d.queue.Leave(playerID)
	if left {
		d.queueUpdated()
	}
	return left
}

func (d *Dispatcher) Accept(matchID, playerID string) match.AcceptResult {
	return d.coordinator.Accept(matchID, playerID)
}

func (d *Dispatcher) Decline(matchID, playerID string) match.AcceptResult {
	return d.coordinator.Decline(matchID, playerID)
}

func (d *Dispatcher) DraftAction(matchID, playerID string, championID int, kind draft.ActionKind) draft.Result {
	return d.coordinator.SubmitPlayerDraftAction(matchID, playerID, championID, kind)
}

func (d *Dispatcher) CancelDraft(matchID, reason string) error {
	return d.coordinator.CancelDraft(matchID, reason)
}

func (d *Dispatcher) Resync(matchID, playerID string) (*match.StateSnapshot, error) {
	return d.coordinator.Resync(matchID, playerID)
}

func (d *Dispatcher) QueueSnapshot() []queue.Entry {
	return d.queue.Snapshot()
}

func (d *Dispatcher) Matches() []*match.Record {
	return d.coordinator.Matches()
}

// Publish implements events.Sink. Empty recipients means every connected
// player. Terminal transitions are additionally bridged to pub/sub for
// external collaborators.
func (d *Dispatcher) Publish(ev events.Event, recipients []string) {
	if len(recipients) == 0 {
		d.mu.RLock()
		recipients = make([]string, 0, len(d.connected))
		for id := range d.connected {
			recipients = append(recipients, id)
		}
		d.mu.RUnlock()
	}

	for _, playerID := range recipients {
		d.mu.RLock()
		online := d.connected[playerID]
		d.mu.RUnlock()
		if !online {
			continue
		}
		if err := d.broadcaster.Deliver(playerID, ev); err != nil {
			log.Warn("Failed to deliver event", "error", err, "playerID", playerID, "event", ev.Type)
		}
	}

	switch ev.Type {
	case events.TypeMatchCancelled:
		// The cancel requeued entries, so the queue contents changed.
		d.queueUpdated()
		if payload, ok := ev.Payload.(match.MatchCancelledPayload); ok && d.pubsub != nil {
			if err := d.pubsub.SendMessage(pubsub.EventMatchCancelled, pubsub.MatchCancelledMessage{
				MatchID: payload.MatchID,
				Reason:  payload.Reason,
			}); err != nil {
				log.Error("Failed to publish match cancellation", "error", err, "matchID", payload.MatchID)
			}
		}
	case events.TypeMatchFound:
		// Formation consumed queue entries.
		d.queueUpdated()
	}
}

// queueUpdated broadcasts the current queue contents to everyone connected.
func (d *Dispatcher) queueUpdated() {
	entries := d.queue.Snapshot()
	ev := events.Event{
		Type:    events.TypeQueueUpdated,
		Payload: QueueUpdatedPayload{Size: len(entries), Entries: queuedPlayers(entries)},
	}

	d.mu.RLock()
	recipients := make([]string, 0, len(d.connected))
	for id := range d.connected {
		recipients = append(recipients, id)
	}
	d.mu.RUnlock()

	for _, playerID := range recipients {
		if err := d.broadcaster.Deliver(playerID, ev); err != nil {
			log.Warn("Failed to deliver queue update", "error", err, "playerID", playerID)
		}
	}
}

// QueueUpdatedPayload carries the queue contents broadcast on every change.
// Entries are a projection: no MMR or lane preferences leak to other clients.
type QueueUpdatedPayload struct {
	Size    int            `json:"size"`
	Entries []QueuedPlayer `json:"entries"`
}

// QueuedPlayer is one waiting player as seen by connected clients.
type QueuedPlayer struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot"`
}

func queuedPlayers(entries []queue.Entry) []QueuedPlayer {
	out := make([]QueuedPlayer, 0, len(entries))
	for _, e := range entries {
		out = append(out, QueuedPlayer{
			PlayerID:    e.Player.ID,
			DisplayName: e.Player.DisplayName,
			IsBot:       e.Player.IsBot,
		})
	}
	return out
}

var _ events.Sink = (*Dispatcher)(nil)
