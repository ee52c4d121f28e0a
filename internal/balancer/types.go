package balancer

import "github.com/rifthouse/rifthouse/internal/registry"

// TeamSize is the number of players on each side.
const TeamSize = 5

// Candidate is one player under consideration, carrying the queue join order
// used as the deterministic MMR tie-break.
type Candidate struct {
	Player    registry.Player
	JoinOrder int
}

// TeamAssignment binds a player to a lane on one team.
type TeamAssignment struct {
	Player     registry.Player `json:"player"`
	Lane       registry.Lane   `json:"lane"`
	IsAutofill bool            `json:"is_autofill"`
}

// QualityScore summarizes how well balanced the two teams came out.
// It is informational only and never used to reject a formed match.
type QualityScore struct {
	MMRDelta  int `json:"mmr_delta"`
	Autofills int `json:"autofills"`
}
