package registry

import (
	"database/sql"
	"sync"
)

// Lane is one of the five positional roles a player occupies within a team.
type Lane string

const (
	LaneTop     Lane = "TOP"
	LaneJungle  Lane = "JUNGLE"
	LaneMid     Lane = "MID"
	LaneBottom  Lane = "BOTTOM"
	LaneSupport Lane = "SUPPORT"
)

// Lanes is the canonical lane order, used for deterministic autofill.
var Lanes = []Lane{LaneTop, LaneJungle, LaneMid, LaneBottom, LaneSupport}

// Valid reports whether l is one of the five known lanes.
func (l Lane) Valid() bool {
	switch l {
	case LaneTop, LaneJungle, LaneMid, LaneBottom, LaneSupport:
		return true
	}
	return false
}

// Player is the immutable identity record for a participant. IsBot is set
// once here; nothing downstream is allowed to guess bot-ness from names.
type Player struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	MMR           int    `json:"mmr"`
	PrimaryLane   Lane   `json:"primary_lane"`
	SecondaryLane Lane   `json:"secondary_lane"`
	IsBot         bool   `json:"is_bot"`
}

// store handles all database operations for the player registry.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
