package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rifthouse/rifthouse/internal/config"
	"github.com/rifthouse/rifthouse/internal/database"
	"github.com/rifthouse/rifthouse/internal/dispatch"
	"github.com/rifthouse/rifthouse/internal/draft"
	"github.com/rifthouse/rifthouse/internal/launcher"
	"github.com/rifthouse/rifthouse/internal/match"
	"github.com/rifthouse/rifthouse/internal/metrics"
	"github.com/rifthouse/rifthouse/internal/pubsub"
	"github.com/rifthouse/rifthouse/internal/queue"
	"github.com/rifthouse/rifthouse/internal/registry"
	"github.com/rifthouse/rifthouse/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer initializes a server over an in-memory database with the
// full command path wired, mock pub/sub and a log-only broadcaster.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(func() {
		dbTeardown()
		db.Close()
	})

	playerStore := registry.New(db)
	players := make([]registry.Player, 0, 10)
	for i := 0; i < 10; i++ {
		players = append(players, registry.Player{
			ID:            fmt.Sprintf("p%d", i),
			DisplayName:   fmt.Sprintf("Player %d", i),
			MMR:           1400 + 20*i,
			PrimaryLane:   registry.Lanes[i%5],
			SecondaryLane: registry.Lanes[(i+1)%5],
		})
	}
	require.NoError(t, playerStore.UpsertPlayers(players))

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	ps := pubsub.NewMock("TEST")

	playerQueue := queue.New(10, nil)
	dispatcher := dispatch.New(playerStore, playerQueue, dispatch.LogBroadcaster{}, ps, metricsSvc)

	coordinator := match.New(store.New(db), playerQueue, dispatcher, launcher.New(ps), metricsSvc, match.Options{
		AcceptTimeout: time.Hour,
		PhaseTimeout:  time.Hour,
		Phases:        draft.DefaultSequence(),
		PoolSize:      170,
	})
	playerQueue.SetActiveMatchChecker(coordinator)
	dispatcher.SetCoordinator(coordinator)

	return NewServer(dispatcher, metricsSvc, metricsHandler, config.Config{Port: "0"})
}

func postJSON(t *testing.T, s *Server, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func getPath(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheckHandler(t *testing.T) {
	s := setupTestServer(t)

	rr := getPath(t, s, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestJoinQueueHandler(t *testing.T) {
	s := setupTestServer(t)

	rr := postJSON(t, s, "/queue/join", map[string]any{"player_id": "p0"})
	assert.Equal(t, http.StatusOK, rr.Code)

	// Second join is a conflict, not an error.
	rr = postJSON(t, s, "/queue/join", map[string]any{"player_id": "p0"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Unknown players are rejected before touching the queue.
	rr = postJSON(t, s, "/queue/join", map[string]any{"player_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = getPath(t, s, "/queue")
	assert.Equal(t, http.StatusOK, rr.Code)
	var entries []queue.Entry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)
}

func TestLeaveQueueHandler(t *testing.T) {
	s := setupTestServer(t)

	postJSON(t, s, "/queue/join", map[string]any{"player_id": "p0"})
	rr := postJSON(t, s, "/queue/leave", map[string]any{"player_id": "p0"})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, s, "/queue/leave", map[string]any{"player_id": "p0"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// fillMatch joins all ten players, which forms a match, and returns its id.
func fillMatch(t *testing.T, s *Server) string {
	t.Helper()
	for i := 0; i < 10; i++ {
		rr := postJSON(t, s, "/queue/join", map[string]any{"player_id": fmt.Sprintf("p%d", i)})
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := getPath(t, s, "/matches")
	require.Equal(t, http.StatusOK, rr.Code)
	var records []match.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 1)
	return records[0].ID
}

func TestAcceptanceFlow(t *testing.T) {
	s := setupTestServer(t)
	matchID := fillMatch(t, s)

	rr := postJSON(t, s, "/match/accept", map[string]any{"match_id": matchID, "player_id": "p0"})
	assert.Equal(t, http.StatusOK, rr.Code)

	// A non-participant cannot answer the gate.
	rr = postJSON(t, s, "/match/accept", map[string]any{"match_id": matchID, "player_id": "ghost"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = postJSON(t, s, "/match/accept", map[string]any{"match_id": "nope", "player_id": "p0"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = postJSON(t, s, "/match/decline", map[string]any{"match_id": matchID, "player_id": "p3"})
	assert.Equal(t, http.StatusOK, rr.Code)

	// The match is gone; further commands miss.
	rr = postJSON(t, s, "/match/accept", map[string]any{"match_id": matchID, "player_id": "p1"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Everyone but the decliner requeued.
	rr = getPath(t, s, "/queue")
	var entries []queue.Entry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	assert.Len(t, entries, 9)
}

func TestDraftFlowOverHTTP(t *testing.T) {
	s := setupTestServer(t)
	matchID := fillMatch(t, s)

	for i := 0; i < 10; i++ {
		rr := postJSON(t, s, "/match/accept", map[string]any{"match_id": matchID, "player_id": fmt.Sprintf("p%d", i)})
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := getPath(t, s, "/resync?matchID="+matchID+"&playerID=p0")
	require.Equal(t, http.StatusOK, rr.Code)
	var snap match.StateSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, match.StatusDraft, snap.Status)
	require.Len(t, snap.Phases, 20)

	// The acting player of phase 0 bans; anyone else is turned away.
	slots := make([]string, 0, 10)
	for _, ta := range snap.Team1 {
		slots = append(slots, ta.Player.ID)
	}
	for _, ta := range snap.Team2 {
		slots = append(slots, ta.Player.ID)
	}
	acting := slots[snap.Phases[0].ActingSlot]
	other := slots[(snap.Phases[0].ActingSlot+1)%10]

	rr = postJSON(t, s, "/draft/action", map[string]any{"match_id": matchID, "player_id": other, "champion_id": 1, "kind": "ban"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = postJSON(t, s, "/draft/action", map[string]any{"match_id": matchID, "player_id": acting, "champion_id": 1, "kind": "pick"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = postJSON(t, s, "/draft/action", map[string]any{"match_id": matchID, "player_id": acting, "champion_id": 1, "kind": "ban"})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, s, "/draft/action", map[string]any{"match_id": matchID, "player_id": acting, "champion_id": 2, "kind": "sacrifice"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCancelDraftHandler(t *testing.T) {
	s := setupTestServer(t)
	matchID := fillMatch(t, s)

	// Not in draft yet.
	rr := postJSON(t, s, "/draft/cancel", map[string]any{"match_id": matchID})
	assert.Equal(t, http.StatusConflict, rr.Code)

	for i := 0; i < 10; i++ {
		postJSON(t, s, "/match/accept", map[string]any{"match_id": matchID, "player_id": fmt.Sprintf("p%d", i)})
	}

	rr = postJSON(t, s, "/draft/cancel", map[string]any{"match_id": matchID, "reason": "lobby dissolved"})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = getPath(t, s, "/queue")
	var entries []queue.Entry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	assert.Len(t, entries, 10)
}

func TestResyncHandlerValidation(t *testing.T) {
	s := setupTestServer(t)

	rr := getPath(t, s, "/resync?matchID=only")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = getPath(t, s, "/resync?matchID=ghost&playerID=p0")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
