package store_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/rifthouse/rifthouse/internal/balancer"
	"github.com/rifthouse/rifthouse/internal/database"
	"github.com/rifthouse/rifthouse/internal/draft"
	"github.com/rifthouse/rifthouse/internal/match"
	"github.com/rifthouse/rifthouse/internal/queue"
	"github.com/rifthouse/rifthouse/internal/registry"
	"github.com/rifthouse/rifthouse/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *store.MatchStore {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(func() {
		dbTeardown()
		db.Close()
	})

	return store.New(db)
}

func testRecord(id string, status match.Status) *match.Record {
	now := time.Unix(time.Now().Unix(), 0)
	team1 := make([]balancer.TeamAssignment, 0, 5)
	team2 := make([]balancer.TeamAssignment, 0, 5)
	acceptances := make(map[string]match.Acceptance, 10)
	entries := make([]queue.Entry, 0, 10)
	for i := 0; i < 10; i++ {
		p := registry.Player{
			ID:            fmt.Sprintf("p%d", i),
			DisplayName:   fmt.Sprintf("Player %d", i),
			MMR:           1500,
			PrimaryLane:   registry.Lanes[i%5],
			SecondaryLane: registry.Lanes[(i+1)%5],
		}
		ta := balancer.TeamAssignment{Player: p, Lane: registry.Lanes[i%5]}
		if i < 5 {
			team1 = append(team1, ta)
		} else {
			team2 = append(team2, ta)
		}
		acceptances[p.ID] = match.AcceptancePending
		entries = append(entries, queue.Entry{Player: p, JoinTime: now, JoinOrder: i})
	}
	return &match.Record{
		ID:             id,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
		AcceptDeadline: now.Add(30 * time.Second),
		Team1:          team1,
		Team2:          team2,
		Acceptances:    acceptances,
		QueueEntries:   entries,
	}
}

func TestSaveAndGetMatch(t *testing.T) {
	s := setupTestDB(t)

	rec := testRecord("m1", match.StatusAwaitingAcceptance)
	require.NoError(t, s.SaveMatch(rec))

	got, err := s.GetMatch("m1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, match.StatusAwaitingAcceptance, got.Status)
	assert.Equal(t, rec.CreatedAt.Unix(), got.CreatedAt.Unix())
	require.Len(t, got.Team1, 5)
	require.Len(t, got.Team2, 5)
	assert.Equal(t, "p0", got.Team1[0].Player.ID)
	assert.Len(t, got.Acceptances, 10)
	require.Len(t, got.QueueEntries, 10)
	assert.Equal(t, 3, got.QueueEntries[3].JoinOrder)
}

func TestSaveMatchUpserts(t *testing.T) {
	s := setupTestDB(t)

	rec := testRecord("m1", match.StatusAwaitingAcceptance)
	require.NoError(t, s.SaveMatch(rec))

	rec.Status = match.StatusDraft
	rec.Phases = draft.DefaultSequence()
	rec.ActionLog = []draft.Action{{PhaseIndex: 0, ActingPlayerID: "p0", ChampionID: 42, Kind: draft.KindBan}}
	require.NoError(t, s.SaveMatch(rec))

	got, err := s.GetMatch("m1")
	require.NoError(t, err)
	assert.Equal(t, match.StatusDraft, got.Status)
	require.Len(t, got.Phases, 20)
	require.Len(t, got.ActionLog, 1)
	assert.Equal(t, 42, got.ActionLog[0].ChampionID)
}

func TestGetMatchNotFound(t *testing.T) {
	s := setupTestDB(t)

	_, err := s.GetMatch("ghost")
	assert.ErrorIs(t, err, match.ErrMatchNotFound)
}

func TestLoadActiveMatchesSkipsTerminal(t *testing.T) {
	s := setupTestDB(t)

	require.NoError(t, s.SaveMatch(testRecord("live-1", match.StatusAwaitingAcceptance)))
	require.NoError(t, s.SaveMatch(testRecord("live-2", match.StatusDraft)))
	require.NoError(t, s.SaveMatch(testRecord("done", match.StatusCompleted)))
	cancelled := testRecord("dead", match.StatusCancelled)
	cancelled.CancelReason = "declined by p3"
	require.NoError(t, s.SaveMatch(cancelled))

	active, err := s.LoadActiveMatches()
	require.NoError(t, err)
	require.Len(t, active, 2)
	ids := map[string]bool{active[0].ID: true, active[1].ID: true}
	assert.True(t, ids["live-1"])
	assert.True(t, ids["live-2"])
}
