package balancer

import (
	"fmt"
	"sort"

	"github.com/rifthouse/rifthouse/internal/registry"
)

// laneCapacity is the number of occupants per lane across both teams.
const laneCapacity = 2

// Balance forms two lane-complete teams from exactly ten candidates.
//
// Candidates are taken in MMR-descending order (queue join order breaks
// ties, earliest first) and assigned their primary lane if it still has
// room, else their secondary, else the first canonical lane with room,
// flagged as autofill. Each lane then splits its two occupants so the
// higher-MMR player lands on team1, balancing the teams lane-for-lane.
func Balance(candidates []Candidate) (team1, team2 []TeamAssignment, score QualityScore, err error) {
	if len(candidates) != 2*TeamSize {
		return nil, nil, QualityScore{}, fmt.Errorf("balance requires exactly %d candidates, got %d", 2*TeamSize, len(candidates))
	}

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Player.MMR != ordered[j].Player.MMR {
			return ordered[i].Player.MMR > ordered[j].Player.MMR
		}
		return ordered[i].JoinOrder < ordered[j].JoinOrder
	})

	occupants := make(map[registry.Lane][]TeamAssignment, len(registry.Lanes))
	autofills := 0

	for _, c := range ordered {
		lane, autofill := pickLane(c.Player, occupants)
		if lane == "" {
			// Unreachable with ten candidates and five lanes of capacity
			// two; surfaced loudly rather than coerced.
			return nil, nil, QualityScore{}, fmt.Errorf("no lane with remaining capacity for player %s", c.Player.ID)
		}
		if autofill {
			autofills++
		}
		occupants[lane] = append(occupants[lane], TeamAssignment{
			Player:     c.Player,
			Lane:       lane,
			IsAutofill: autofill,
		})
	}

	team1 = make([]TeamAssignment, 0, TeamSize)
	team2 = make([]TeamAssignment, 0, TeamSize)
	mmrDelta := 0
	for _, lane := range registry.Lanes {
		pair := occupants[lane]
		if len(pair) != laneCapacity {
			return nil, nil, QualityScore{}, fmt.Errorf("lane %s ended with %d occupants, want %d", lane, len(pair), laneCapacity)
		}
		// The assignment loop runs in MMR-descending order, so the first
		// occupant of every lane is the stronger one.
		team1 = append(team1, pair[0])
		team2 = append(team2, pair[1])
		mmrDelta += pair[0].Player.MMR - pair[1].Player.MMR
	}

	score = QualityScore{MMRDelta: mmrDelta, Autofills: autofills}
	return team1, team2, score, nil
}

// pickLane finds the lane for one player: primary, then secondary, then the
// first canonical lane with room (autofill).
func pickLane(p registry.Player, occupants map[registry.Lane][]TeamAssignment) (registry.Lane, bool) {
	if len(occupants[p.PrimaryLane]) < laneCapacity {
		return p.PrimaryLane, false
	}
	if len(occupants[p.SecondaryLane]) < laneCapacity {
		return p.SecondaryLane, false
	}
	for _, lane := range registry.Lanes {
		if len(occupants[lane]) < laneCapacity {
			return lane, true
		}
	}
	return "", false
}
