package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rifthouse/rifthouse/internal/match"
)

// MatchStore persists match records in SQLite, one row per match with the
// structured fields as JSON blobs.
type MatchStore struct {
	db *sql.DB
}

func New(db *sql.DB) *MatchStore {
	return &MatchStore{db: db}
}

// SaveMatch upserts the record. Called at state-transition boundaries, so a
// row always reflects the last committed transition.
func (s *MatchStore) SaveMatch(rec *match.Record) error {
	team1, err := json.Marshal(rec.Team1)
	if err != nil {
		return fmt.Errorf("failed to marshal team1: %w", err)
	}
	team2, err := json.Marshal(rec.Team2)
	if err != nil {
		return fmt.Errorf("failed to marshal team2: %w", err)
	}
	acceptances, err := json.Marshal(rec.Acceptances)
	if err != nil {
		return fmt.Errorf("failed to marshal acceptances: %w", err)
	}
	entries, err := json.Marshal(rec.QueueEntries)
	if err != nil {
		return fmt.Errorf("failed to marshal queue entries: %w", err)
	}
	phases, err := json.Marshal(rec.Phases)
	if err != nil {
		return fmt.Errorf("failed to marshal phases: %w", err)
	}
	actionLog, err := json.Marshal(rec.ActionLog)
	if err != nil {
		return fmt.Errorf("failed to marshal action log: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO matches (id, status, created_at, updated_at, accept_deadline,
			team1_json, team2_json, acceptances_json, queue_entries_json,
			phases_json, action_log_json, cancel_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at,
			accept_deadline = excluded.accept_deadline,
			team1_json = excluded.team1_json,
			team2_json = excluded.team2_json,
			acceptances_json = excluded.acceptances_json,
			queue_entries_json = excluded.queue_entries_json,
			phases_json = excluded.phases_json,
			action_log_json = excluded.action_log_json,
			cancel_reason = excluded.cancel_reason`,
		rec.ID, string(rec.Status), rec.CreatedAt.Unix(), rec.UpdatedAt.Unix(),
		rec.AcceptDeadline.Unix(), string(team1), string(team2), string(acceptances),
		string(entries), string(phases), string(actionLog), rec.CancelReason)
	if err != nil {
		return fmt.Errorf("failed to save match %s: %w", rec.ID, err)
	}
	return nil
}

// GetMatch loads one record by id.
func (s *MatchStore) GetMatch(matchID string) (*match.Record, error) {
	row := s.db.QueryRow(`
		SELECT id, status, created_at, updated_at, accept_deadline,
			team1_json, team2_json, acceptances_json, queue_entries_json,
			phases_json, action_log_json, cancel_reason
		FROM matches WHERE id = ?`, matchID)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, match.ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", matchID, err)
	}
	return rec, nil
}

// LoadActiveMatches returns every non-terminal record, for restart
// reconstruction.
func (s *MatchStore) LoadActiveMatches() ([]*match.Record, error) {
	rows, err := s.db.Query(`
		SELECT id, status, created_at, updated_at, accept_deadline,
			team1_json, team2_json, acceptances_json, queue_entries_json,
			phases_json, action_log_json, cancel_reason
		FROM matches WHERE status NOT IN (?, ?)
		ORDER BY created_at`,
		string(match.StatusCompleted), string(match.StatusCancelled))
	if err != nil {
		return nil, fmt.Errorf("failed to query active matches: %w", err)
	}
	defer rows.Close()

	var records []*match.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*match.Record, error) {
	var rec match.Record
	var status, team1, team2, acceptances, entries string
	var phases, actionLog, cancelReason sql.NullString
	var createdAt, updatedAt, acceptDeadline int64

	err := row.Scan(&rec.ID, &status, &createdAt, &updatedAt, &acceptDeadline,
		&team1, &team2, &acceptances, &entries, &phases, &actionLog, &cancelReason)
	if err != nil {
		return nil, err
	}

	rec.Status = match.Status(status)
	rec.CreatedAt = time.Unix(createdAt, 0)
	rec.UpdatedAt = time.Unix(updatedAt, 0)
	rec.AcceptDeadline = time.Unix(acceptDeadline, 0)
	rec.CancelReason = cancelReason.String

	if err := json.Unmarshal([]byte(team1), &rec.Team1); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team1: %w", err)
	}
	if err := json.Unmarshal([]byte(team2), &rec.Team2); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team2: %w", err)
	}
	if err := json.Unmarshal([]byte(acceptances), &rec.Acceptances); err != nil {
		return nil, fmt.Errorf("failed to unmarshal acceptances: %w", err)
	}
	if err := json.Unmarshal([]byte(entries), &rec.QueueEntries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue entries: %w", err)
	}
	if phases.Valid && phases.String != "" {
		if err := json.Unmarshal([]byte(phases.String), &rec.Phases); err != nil {
			return nil, fmt.Errorf("failed to unmarshal phases: %w", err)
		}
	}
	if actionLog.Valid && actionLog.String != "" {
		if err := json.Unmarshal([]byte(actionLog.String), &rec.ActionLog); err != nil {
			return nil, fmt.Errorf("failed to unmarshal action log: %w", err)
		}
	}
	return &rec, nil
}

var _ match.Store = (*MatchStore)(nil)
