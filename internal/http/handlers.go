package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/rifthouse/rifthouse/internal/draft"
	"github.com/rifthouse/rifthouse/internal/match"
	"github.com/rifthouse/rifthouse/internal/queue"
	"github.com/rifthouse/rifthouse/internal/registry"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// commandResponse is the envelope every command handler writes. Rejections
// carry the rejection code so clients can tell a stale command from a bad
// one.
type commandResponse struct {
	Result string `json:"result"`
	Detail any    `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) ConnectHandler() http.HandlerFunc {
	type request struct {
		PlayerID string `json:"player_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		s.Dispatcher.Connect(req.PlayerID)
		writeJSON(w, http.StatusOK, commandResponse{Result: "connected"})
	}
}

func (s *Server) DisconnectHandler() http.HandlerFunc {
	type request struct {
		PlayerID string `json:"player_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		s.Dispatcher.Disconnect(req.PlayerID)
		writeJSON(w, http.StatusOK, commandResponse{Result: "disconnected"})
	}
}

func (s *Server) JoinQueueHandler() http.HandlerFunc {
	type request struct {
		PlayerID string `json:"player_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		res, err := s.Dispatcher.Join(req.PlayerID)
		if err != nil {
			if errors.Is(err, registry.ErrPlayerNotFound) {
				http.Error(w, "Unknown player", http.StatusNotFound)
				return
			}
			log.Error("Failed to join queue", "error", err, "playerID", req.PlayerID)
			http.Error(w, "Failed to join queue", http.StatusInternalServerError)
			return
		}
		switch res {
		case queue.JoinAccepted:
			writeJSON(w, http.StatusOK, commandResponse{Result: string(res)})
		default:
			// Already queued or already in a match.
			writeJSON(w, http.StatusConflict, commandResponse{Result: string(res)})
		}
	}
}

func (s *Server) LeaveQueueHandler() http.HandlerFunc {
	type request struct {
		PlayerID string `json:"player_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		if !s.Dispatcher.Leave(req.PlayerID) {
			writeJSON(w, http.StatusNotFound, commandResponse{Result: "not-queued"})
			return
		}
		writeJSON(w, http.StatusOK, commandResponse{Result: "left"})
	}
}

func (s *Server) QueueSnapshotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Dispatcher.QueueSnapshot())
	}
}

// acceptStatus maps an acceptance-gate result to an HTTP status.
func acceptStatus(res match.AcceptResult) int {
	switch res {
	case match.AcceptOK:
		return http.StatusOK
	case match.AcceptMatchNotFound:
		return http.StatusNotFound
	case match.AcceptInvalidPlayer:
		return http.StatusForbidden
	default:
		return http.StatusConflict
	}
}

func (s *Server) AcceptMatchHandler() http.HandlerFunc {
	type request struct {
		MatchID  string `json:"match_id"`
		PlayerID string `json:"player_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		res := s.Dispatcher.Accept(req.MatchID, req.PlayerID)
		writeJSON(w, acceptStatus(res), commandResponse{Result: string(res), Detail: map[string]string{"match_id": req.MatchID}})
	}
}

func (s *Server) DeclineMatchHandler() http.HandlerFunc {
	type request struct {
		MatchID  string `json:"match_id"`
		PlayerID string `json:"player_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		res := s.Dispatcher.Decline(req.MatchID, req.PlayerID)
		writeJSON(w, acceptStatus(res), commandResponse{Result: string(res), Detail: map[string]string{"match_id": req.MatchID}})
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Dispatcher.Matches())
	}
}

// draftStatus maps a draft submission result to an HTTP status.
func draftStatus(res draft.Result) int {
	switch res {
	case draft.ResultOK:
		return http.StatusOK
	case draft.ResultSessionNotFound:
		return http.StatusNotFound
	case draft.ResultNotYourTurn, draft.ResultSessionClosed:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) DraftActionHandler() http.HandlerFunc {
	type request struct {
		MatchID    string `json:"match_id"`
		PlayerID   string `json:"player_id"`
		ChampionID int    `json:"champion_id"`
		Kind       string `json:"kind"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		kind := draft.ActionKind(req.Kind)
		if kind != draft.KindBan && kind != draft.KindPick {
			http.Error(w, "Invalid action kind", http.StatusBadRequest)
			return
		}
		res := s.Dispatcher.DraftAction(req.MatchID, req.PlayerID, req.ChampionID, kind)
		writeJSON(w, draftStatus(res), commandResponse{Result: string(res), Detail: map[string]string{"match_id": req.MatchID}})
	}
}

func (s *Server) CancelDraftHandler() http.HandlerFunc {
	type request struct {
		MatchID string `json:"match_id"`
		Reason  string `json:"reason"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Reason == "" {
			req.Reason = "cancelled by request"
		}
		err := s.Dispatcher.CancelDraft(req.MatchID, req.Reason)
		switch {
		case errors.Is(err, match.ErrMatchNotFound):
			writeJSON(w, http.StatusNotFound, commandResponse{Result: "match-not-found"})
		case errors.Is(err, match.ErrWrongState):
			writeJSON(w, http.StatusConflict, commandResponse{Result: "wrong-state"})
		case err != nil:
			log.Error("Failed to cancel draft", "error", err, "matchID", req.MatchID)
			http.Error(w, "Failed to cancel draft", http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusOK, commandResponse{Result: "cancelled"})
		}
	}
}

func (s *Server) ResyncHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		playerID := r.URL.Query().Get("playerID")
		if matchID == "" || playerID == "" {
			http.Error(w, "matchID and playerID are required", http.StatusBadRequest)
			return
		}
		snap, err := s.Dispatcher.Resync(matchID, playerID)
		if err != nil {
			if errors.Is(err, match.ErrMatchNotFound) {
				http.Error(w, "Match not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}
