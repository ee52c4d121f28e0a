package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	ProjectID     string
	Turso         TursoConfig
	Queue         QueueConfig
	Draft         DraftConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// QueueConfig holds the tunables for queueing and the acceptance gate.
type QueueConfig struct {
	// MatchSize is the number of players consumed into one match. Two teams
	// of MatchSize/2 are formed across the five lanes.
	MatchSize int
	// AcceptTimeout is how long the acceptance gate stays open before a
	// pending player counts as a decline.
	AcceptTimeout time.Duration
	// AuditInterval controls the log-only consistency audit. Zero disables it.
	AuditInterval time.Duration
}

// DraftConfig holds the tunables for the pick/ban phase.
type DraftConfig struct {
	// PhaseTimeout is the per-phase deadline before an action is synthesized
	// on the acting player's behalf.
	PhaseTimeout time.Duration
	// Sequence is the ordered ban/pick phase list, encoded as
	// "ban:0,ban:5,...". Empty means the standard 20-phase tournament order.
	Sequence string
	// ChampionPoolSize is the number of draftable champions; champion ids
	// run from 1 to ChampionPoolSize inclusive.
	ChampionPoolSize int
}
