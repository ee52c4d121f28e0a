package registry

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// ErrPlayerNotFound is returned when a player id is unknown to the registry.
var ErrPlayerNotFound = errors.New("player not found")

// New creates a new PlayerRegistry backed by the given database.
func New(db *sql.DB) PlayerRegistry {
	return &store{
		db: db,
	}
}

// GetPlayer looks up a single player by id.
func (s *store) GetPlayer(id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, display_name, mmr, primary_lane, secondary_lane, is_bot
		FROM players
		WHERE id = ?
	`, id)

	var p Player
	err := row.Scan(&p.ID, &p.DisplayName, &p.MMR, &p.PrimaryLane, &p.SecondaryLane, &p.IsBot)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
		}
		log.Error("Failed to query player", "error", err, "playerID", id)
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

// UpsertPlayers inserts or updates the given players in one transaction.
func (s *store) UpsertPlayers(players []Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO players (id, display_name, mmr, primary_lane, secondary_lane, is_bot)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			mmr = excluded.mmr,
			primary_lane = excluded.primary_lane,
			secondary_lane = excluded.secondary_lane,
			is_bot = excluded.is_bot;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range players {
		if !p.PrimaryLane.Valid() || !p.SecondaryLane.Valid() {
			return fmt.Errorf("player %s has invalid lane preference %q/%q", p.ID, p.PrimaryLane, p.SecondaryLane)
		}
		if _, err := stmt.Exec(p.ID, p.DisplayName, p.MMR, p.PrimaryLane, p.SecondaryLane, p.IsBot); err != nil {
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert transaction: %w", err)
	}
	log.Debug("Upserted players", "count", len(players))
	return nil
}

// GetAllPlayers returns every registered player, bots included.
func (s *store) GetAllPlayers() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, display_name, mmr, primary_lane, secondary_lane, is_bot
		FROM players ORDER BY display_name
	`)
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.MMR, &p.PrimaryLane, &p.SecondaryLane, &p.IsBot); err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, nil
}
