package launcher

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/rifthouse/rifthouse/internal/balancer"
	"github.com/rifthouse/rifthouse/internal/pubsub"
)

// PubSubLauncher notifies the game launcher pipeline over pub/sub. The
// launcher boots the actual game client; its eventual result callback is
// handled downstream, not here.
type PubSubLauncher struct {
	client pubsub.PubSubClient
}

func New(client pubsub.PubSubClient) *PubSubLauncher {
	return &PubSubLauncher{client: client}
}

func (l *PubSubLauncher) NotifyDraftCompleted(matchID string, team1, team2 []balancer.TeamAssignment, picks map[string]map[string]int, bans map[string][]int) error {
	msg := pubsub.DraftCompletedMessage{
		MatchID: matchID,
		Rosters: map[string][]pubsub.RosterSlot{
			"team1": rosterSlots(team1),
			"team2": rosterSlots(team2),
		},
		Picks: picks,
		Bans:  bans,
	}
	if err := l.client.SendMessage(pubsub.EventDraftCompleted, msg); err != nil {
		return fmt.Errorf("failed to notify launcher for match %s: %w", matchID, err)
	}
	log.Info("Notified game launcher", "matchID", matchID)
	return nil
}

func rosterSlots(team []balancer.TeamAssignment) []pubsub.RosterSlot {
	out := make([]pubsub.RosterSlot, 0, len(team))
	for _, a := range team {
		out = append(out, pubsub.RosterSlot{
			PlayerID: a.Player.ID,
			Lane:     string(a.Lane),
			IsBot:    a.Player.IsBot,
		})
	}
	return out
}

var _ GameLauncher = (*PubSubLauncher)(nil)
