package draft

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSequence returns the standard 20-phase tournament order: six
// alternating bans, six picks in the B R R B B R snake, four more bans, and
// the closing four picks.
func DefaultSequence() []Phase {
	return []Phase{
		// Ban phase one
		{KindBan, 0}, {KindBan, 5}, {KindBan, 1}, {KindBan, 6}, {KindBan, 2}, {KindBan, 7},
		// Pick phase one
		{KindPick, 0}, {KindPick, 5}, {KindPick, 6}, {KindPick, 1}, {KindPick, 2}, {KindPick, 7},
		// Ban phase two
		{KindBan, 8}, {KindBan, 3}, {KindBan, 9}, {KindBan, 4},
		// Pick phase two
		{KindPick, 8}, {KindPick, 3}, {KindPick, 4}, {KindPick, 9},
	}
}

// ParseSequence decodes a "kind:slot,kind:slot,..." phase list. An empty
// string yields the default sequence. The rule variants differ across
// tournaments, so the sequence is configuration, never a constant.
func ParseSequence(encoded string) ([]Phase, error) {
	if strings.TrimSpace(encoded) == "" {
		return DefaultSequence(), nil
	}

	parts := strings.Split(encoded, ",")
	phases := make([]Phase, 0, len(parts))
	for i, part := range parts {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) != 2 {
			return nil, fmt.Errorf("phase %d: want kind:slot, got %q", i, part)
		}
		kind := ActionKind(fields[0])
		if kind != KindBan && kind != KindPick {
			return nil, fmt.Errorf("phase %d: unknown action kind %q", i, fields[0])
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil || slot < 0 || slot >= 2*SlotsPerTeam {
			return nil, fmt.Errorf("phase %d: invalid acting slot %q", i, fields[1])
		}
		phases = append(phases, Phase{Kind: kind, ActingSlot: slot})
	}

	pickCount := make(map[int]int)
	for _, p := range phases {
		if p.Kind == KindPick {
			pickCount[p.ActingSlot]++
		}
	}
	for slot := 0; slot < 2*SlotsPerTeam; slot++ {
		if pickCount[slot] != 1 {
			return nil, fmt.Errorf("slot %d has %d pick phases, want exactly 1 so every slot locks a champion", slot, pickCount[slot])
		}
	}
	return phases, nil
}
