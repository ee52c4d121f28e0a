package queue_test

import (
	"fmt"
	"testing"

	"github.com/rifthouse/rifthouse/internal/queue"
	"github.com/rifthouse/rifthouse/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticChecker reports the given set of players as match-active.
type staticChecker map[string]bool

func (c staticChecker) IsPlayerActive(playerID string) bool { return c[playerID] }

func player(id string, bot bool) registry.Player {
	return registry.Player{
		ID:            id,
		DisplayName:   id,
		MMR:           1500,
		PrimaryLane:   registry.LaneTop,
		SecondaryLane: registry.LaneMid,
		IsBot:         bot,
	}
}

func fillQueue(t *testing.T, m *queue.Manager, n int, bot bool) {
	t.Helper()
	for i := 0; i < n; i++ {
		kind := "human"
		if bot {
			kind = "bot"
		}
		res := m.Join(player(fmt.Sprintf("%s-%d", kind, i), bot))
		require.Equal(t, queue.JoinAccepted, res)
	}
}

func TestJoinRejectsDuplicates(t *testing.T) {
	m := queue.New(10, nil)

	assert.Equal(t, queue.JoinAccepted, m.Join(player("p1", false)))
	assert.Equal(t, queue.JoinAlreadyQueued, m.Join(player("p1", false)))
	assert.Equal(t, 1, m.Size())
}

func TestJoinRejectsMatchActivePlayer(t *testing.T) {
	m := queue.New(10, staticChecker{"busy": true})

	assert.Equal(t, queue.JoinAlreadyInMatch, m.Join(player("busy", false)))
	assert.Equal(t, queue.JoinAccepted, m.Join(player("free", false)))
}

func TestLeave(t *testing.T) {
	m := queue.New(10, nil)
	m.Join(player("p1", false))

	assert.True(t, m.Leave("p1"))
	assert.False(t, m.Leave("p1"))
	assert.Equal(t, 0, m.Size())
}

func TestTryFormMatchNeedsFullPool(t *testing.T) {
	m := queue.New(10, nil)
	fillQueue(t, m, 9, false)

	formed := m.TryFormMatch(func([]queue.Entry) error {
		t.Fatal("form called with a short pool")
		return nil
	})
	assert.False(t, formed)
	assert.Equal(t, 9, m.Size())
}

func TestTryFormMatchConsumesEarliest(t *testing.T) {
	m := queue.New(10, nil)
	fillQueue(t, m, 12, false)

	var got []queue.Entry
	formed := m.TryFormMatch(func(entries []queue.Entry) error {
		got = entries
		return nil
	})
	require.True(t, formed)
	require.Len(t, got, 10)
	assert.Equal(t, 2, m.Size())

	for i, e := range got {
		assert.Equal(t, fmt.Sprintf("human-%d", i), e.Player.ID)
	}
	// The two most recent joins stay queued.
	remaining := m.Snapshot()
	assert.Equal(t, "human-10", remaining[0].Player.ID)
	assert.Equal(t, "human-11", remaining[1].Player.ID)
}

func TestTryFormMatchRequiresHuman(t *testing.T) {
	m := queue.New(10, nil)
	fillQueue(t, m, 10, true)

	formed := m.TryFormMatch(func([]queue.Entry) error { return nil })
	assert.False(t, formed)
	assert.Equal(t, 10, m.Size())
}

func TestTryFormMatchSwapsInEarliestHuman(t *testing.T) {
	m := queue.New(10, nil)
	fillQueue(t, m, 10, true)
	require.Equal(t, queue.JoinAccepted, m.Join(player("human-0", false)))

	var got []queue.Entry
	formed := m.TryFormMatch(func(entries []queue.Entry) error {
		got = entries
		return nil
	})
	require.True(t, formed)

	ids := make(map[string]bool, len(got))
	for _, e := range got {
		ids[e.Player.ID] = true
	}
	assert.True(t, ids["human-0"], "the human must be swapped into the match")
	assert.False(t, ids["bot-9"], "the most recent bot makes room for the human")
	assert.Equal(t, 1, m.Size())
}

func TestTryFormMatchKeepsEntriesOnFormError(t *testing.T) {
	m := queue.New(10, nil)
	fillQueue(t, m, 10, false)

	formed := m.TryFormMatch(func([]queue.Entry) error {
		return fmt.Errorf("boom")
	})
	assert.False(t, formed)
	assert.Equal(t, 10, m.Size())
}

// Requeued entries slot back in at their original join order, so a
// cancelled match never costs anyone their place in line.
func TestRequeuePreservesJoinOrder(t *testing.T) {
	m := queue.New(10, nil)
	fillQueue(t, m, 10, false)

	var consumed []queue.Entry
	require.True(t, m.TryFormMatch(func(entries []queue.Entry) error {
		consumed = entries
		return nil
	}))

	// Two later joins arrive while the match is pending.
	m.Join(player("late-1", false))
	m.Join(player("late-2", false))

	// The match collapses and everyone but human-3 comes back.
	requeued := make([]queue.Entry, 0, 9)
	for _, e := range consumed {
		if e.Player.ID != "human-3" {
			requeued = append(requeued, e)
		}
	}
	m.Requeue(requeued)

	snap := m.Snapshot()
	require.Len(t, snap, 11)
	want := []string{"human-0", "human-1", "human-2", "human-4", "human-5", "human-6", "human-7", "human-8", "human-9", "late-1", "late-2"}
	for i, id := range want {
		assert.Equal(t, id, snap[i].Player.ID)
	}
	// Join order stays strictly increasing after the merge.
	for i := 1; i < len(snap); i++ {
		assert.Greater(t, snap[i].JoinOrder, snap[i-1].JoinOrder)
	}
}

func TestRequeueSkipsPlayersWhoRejoined(t *testing.T) {
	m := queue.New(10, nil)
	fillQueue(t, m, 10, false)

	var consumed []queue.Entry
	require.True(t, m.TryFormMatch(func(entries []queue.Entry) error {
		consumed = entries
		return nil
	}))

	// human-0 rejoins on their own after the match collapses but before
	// the cancellation requeues the roster. A retried join command lands
	// exactly in that window.
	require.Equal(t, queue.JoinAccepted, m.Join(player("human-0", false)))
	m.Requeue(consumed)

	snap := m.Snapshot()
	require.Len(t, snap, 10)
	seen := make(map[string]int, len(snap))
	for _, e := range snap {
		seen[e.Player.ID]++
	}
	assert.Equal(t, 1, seen["human-0"], "player id must appear in at most one entry")

	// The rejoin kept its fresh position at the back of the pool.
	assert.Equal(t, "human-0", snap[9].Player.ID)
}
