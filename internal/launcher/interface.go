package launcher

import "github.com/rifthouse/rifthouse/internal/balancer"

// GameLauncher is the external collaborator that boots the real game client
// once a draft finishes. NotifyGameResult is its documented callback for the
// eventual outcome; handling that result is outside this service.
type GameLauncher interface {
	NotifyDraftCompleted(matchID string, team1, team2 []balancer.TeamAssignment, picks map[string]map[string]int, bans map[string][]int) error
}
