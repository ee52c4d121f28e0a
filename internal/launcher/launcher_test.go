package launcher_test

import (
	"fmt"
	"testing"

	"github.com/rifthouse/rifthouse/internal/balancer"
	"github.com/rifthouse/rifthouse/internal/launcher"
	"github.com/rifthouse/rifthouse/internal/pubsub"
	"github.com/rifthouse/rifthouse/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func team(prefix string) []balancer.TeamAssignment {
	out := make([]balancer.TeamAssignment, 0, balancer.TeamSize)
	for i, lane := range registry.Lanes {
		out = append(out, balancer.TeamAssignment{
			Player: registry.Player{ID: fmt.Sprintf("%s-%d", prefix, i)},
			Lane:   lane,
		})
	}
	return out
}

func TestNotifyDraftCompletedPublishesFullComposition(t *testing.T) {
	client := pubsub.NewMock("TEST")
	l := launcher.New(client)

	picks := map[string]map[string]int{
		"team1": {"p1-0": 1},
		"team2": {"p2-0": 2},
	}
	bans := map[string][]int{
		"team1": {10, 11},
		"team2": {12, 13},
	}
	require.NoError(t, l.NotifyDraftCompleted("match-1", team("p1"), team("p2"), picks, bans))

	require.Len(t, client.SendMessageCalls, 1)
	call := client.SendMessageCalls[0]
	assert.Equal(t, string(pubsub.EventDraftCompleted), call.Topic)

	msg, ok := call.Data.(pubsub.DraftCompletedMessage)
	require.True(t, ok)
	assert.Equal(t, "match-1", msg.MatchID)
	assert.Equal(t, picks, msg.Picks)
	assert.Equal(t, bans, msg.Bans)
	require.Len(t, msg.Rosters["team1"], 5)
	require.Len(t, msg.Rosters["team2"], 5)
	assert.Equal(t, "p1-0", msg.Rosters["team1"][0].PlayerID)
	assert.Equal(t, string(registry.Lanes[0]), msg.Rosters["team1"][0].Lane)
}
