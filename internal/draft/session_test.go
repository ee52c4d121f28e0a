package draft_test

import (
	"fmt"
	"testing"

	"github.com/rifthouse/rifthouse/internal/draft"
	"github.com/rifthouse/rifthouse/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSlots() []draft.Slot {
	slots := make([]draft.Slot, 0, 10)
	for i := 0; i < 10; i++ {
		slots = append(slots, draft.Slot{
			PlayerID: fmt.Sprintf("p%d", i),
			Lane:     registry.Lanes[i%len(registry.Lanes)],
		})
	}
	return slots
}

func newTestSession(t *testing.T) *draft.Session {
	t.Helper()
	s, err := draft.NewSession("match-1", testSlots(), draft.DefaultSequence(), 170)
	require.NoError(t, err)
	return s
}

func TestDefaultSequenceShape(t *testing.T) {
	phases := draft.DefaultSequence()
	require.Len(t, phases, 20)

	bans, picks := 0, 0
	pickBySlot := make(map[int]int)
	for _, p := range phases {
		switch p.Kind {
		case draft.KindBan:
			bans++
		case draft.KindPick:
			picks++
			pickBySlot[p.ActingSlot]++
		}
	}
	assert.Equal(t, 10, bans)
	assert.Equal(t, 10, picks)
	for slot := 0; slot < 10; slot++ {
		assert.Equal(t, 1, pickBySlot[slot], "slot %d", slot)
	}
	// First ban belongs to team1's first slot.
	assert.Equal(t, draft.KindBan, phases[0].Kind)
	assert.Equal(t, 0, phases[0].ActingSlot)
	assert.Equal(t, draft.SideTeam1, phases[0].Side())
	assert.Equal(t, draft.SideTeam2, phases[1].Side())
}

func TestParseSequence(t *testing.T) {
	t.Run("empty yields default", func(t *testing.T) {
		phases, err := draft.ParseSequence("")
		require.NoError(t, err)
		assert.Equal(t, draft.DefaultSequence(), phases)
	})

	t.Run("custom sequence", func(t *testing.T) {
		encoded := "pick:0,pick:5,pick:1,pick:6,pick:2,pick:7,pick:3,pick:8,pick:4,pick:9"
		phases, err := draft.ParseSequence(encoded)
		require.NoError(t, err)
		require.Len(t, phases, 10)
		assert.Equal(t, draft.KindPick, phases[0].Kind)
	})

	t.Run("rejects malformed phase", func(t *testing.T) {
		_, err := draft.ParseSequence("pick-0")
		assert.Error(t, err)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := draft.ParseSequence("steal:0")
		assert.Error(t, err)
	})

	t.Run("rejects out-of-range slot", func(t *testing.T) {
		_, err := draft.ParseSequence("pick:10")
		assert.Error(t, err)
	})

	t.Run("rejects sequence leaving a slot without a pick", func(t *testing.T) {
		_, err := draft.ParseSequence("pick:0,pick:0,pick:1,pick:6,pick:2,pick:7,pick:3,pick:8,pick:4,pick:9")
		assert.Error(t, err)
	})
}

func TestSubmitActionValidationOrder(t *testing.T) {
	s := newTestSession(t)

	// Phase 0 is slot 0's ban.
	assert.Equal(t, draft.ResultNotYourTurn, s.SubmitAction(5, 1, draft.KindBan))
	assert.Equal(t, draft.ResultWrongPhaseKind, s.SubmitAction(0, 1, draft.KindPick))
	assert.Equal(t, draft.ResultChampionUnavailable, s.SubmitAction(0, 0, draft.KindBan))
	assert.Equal(t, draft.ResultChampionUnavailable, s.SubmitAction(0, 171, draft.KindBan))

	// Rejections leave the cursor and log untouched.
	assert.Equal(t, 0, s.Current)
	assert.Empty(t, s.Log)

	assert.Equal(t, draft.ResultOK, s.SubmitAction(0, 64, draft.KindBan))
	assert.Equal(t, 1, s.Current)

	// Champion 64 is gone for everyone, bans included.
	assert.Equal(t, draft.ResultChampionUnavailable, s.SubmitAction(5, 64, draft.KindBan))
}

func TestSubmitActionOnClosedSession(t *testing.T) {
	s := newTestSession(t)
	s.Close()
	assert.Equal(t, draft.ResultSessionClosed, s.SubmitAction(0, 1, draft.KindBan))
}

func TestFullDraftFlow(t *testing.T) {
	s := newTestSession(t)

	champion := 1
	for !s.Complete() {
		phase, ok := s.CurrentPhase()
		require.True(t, ok)
		res := s.SubmitAction(phase.ActingSlot, champion, phase.Kind)
		require.Equal(t, draft.ResultOK, res)
		champion++
	}

	require.Len(t, s.Log, 20)
	_, ok := s.CurrentPhase()
	assert.False(t, ok)

	picks := s.Picks()
	assert.Len(t, picks[draft.SideTeam1], 5)
	assert.Len(t, picks[draft.SideTeam2], 5)
	bans := s.Bans()
	assert.Len(t, bans[draft.SideTeam1], 5)
	assert.Len(t, bans[draft.SideTeam2], 5)

	// Every lane on both sides locked a champion.
	for _, side := range []draft.Side{draft.SideTeam1, draft.SideTeam2} {
		for _, lane := range registry.Lanes {
			assert.Contains(t, picks[side], string(lane))
		}
	}
	assert.Len(t, s.PicksByPlayer(), 10)
}

func TestSynthesizePicksLowestAvailable(t *testing.T) {
	s := newTestSession(t)

	require.Equal(t, draft.ResultOK, s.SubmitAction(0, 1, draft.KindBan))
	require.Equal(t, draft.ResultOK, s.SubmitAction(5, 3, draft.KindBan))

	action, err := s.Synthesize()
	require.NoError(t, err)
	assert.Equal(t, 2, action.ChampionID, "lowest id not yet used")
	assert.True(t, action.Synthesized)
	assert.Equal(t, "p1", action.ActingPlayerID)
	assert.Equal(t, 3, s.Current)
}

func TestReplayRestoresCursorAndPool(t *testing.T) {
	s := newTestSession(t)
	require.Equal(t, draft.ResultOK, s.SubmitAction(0, 10, draft.KindBan))
	require.Equal(t, draft.ResultOK, s.SubmitAction(5, 20, draft.KindBan))
	require.Equal(t, draft.ResultOK, s.SubmitAction(1, 30, draft.KindBan))

	restored, err := draft.NewSession("match-1", testSlots(), draft.DefaultSequence(), 170)
	require.NoError(t, err)
	require.NoError(t, restored.Replay(s.Log))

	assert.Equal(t, 3, restored.Current)
	// The replayed champions stay burned.
	assert.Equal(t, draft.ResultChampionUnavailable, restored.SubmitAction(6, 20, draft.KindBan))
	assert.Equal(t, draft.ResultOK, restored.SubmitAction(6, 40, draft.KindBan))
}

func TestNewSessionValidation(t *testing.T) {
	_, err := draft.NewSession("m", testSlots()[:9], draft.DefaultSequence(), 170)
	assert.Error(t, err)

	_, err = draft.NewSession("m", testSlots(), nil, 170)
	assert.Error(t, err)

	// Pool must cover the worst case of one champion per phase.
	_, err = draft.NewSession("m", testSlots(), draft.DefaultSequence(), 19)
	assert.Error(t, err)
}
