package match

import "github.com/rifthouse/rifthouse/internal/queue"

// Store defines the persistence operations required by the coordinator.
// Records are written at state-transition boundaries, never per sub-step, so
// a crash mid-operation leaves the store at the last committed transition.
type Store interface {
	SaveMatch(rec *Record) error
	GetMatch(matchID string) (*Record, error)
	LoadActiveMatches() ([]*Record, error)
}

// PlayerQueue defines the queue operations required by the coordinator.
// Implemented by *queue.Manager.
type PlayerQueue interface {
	TryFormMatch(form func([]queue.Entry) error) bool
	Requeue(entries []queue.Entry)
	Snapshot() []queue.Entry
}
