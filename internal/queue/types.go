package queue

import (
	"sync"
	"time"

	"github.com/rifthouse/rifthouse/internal/registry"
)

// JoinResult is the outcome of a Join call.
type JoinResult string

const (
	JoinAccepted       JoinResult = "accepted"
	JoinAlreadyQueued  JoinResult = "already-queued"
	JoinAlreadyInMatch JoinResult = "already-in-match"
)

// Entry is one waiting player. JoinOrder is a process-wide monotonic
// sequence number; it survives requeueing so a cancelled match never costs
// teammates their queue position.
type Entry struct {
	Player    registry.Player `json:"player"`
	JoinTime  time.Time       `json:"join_time"`
	JoinOrder int             `json:"join_order"`
}

// Manager holds the ordered set of waiting players. All access goes through
// one mutex; the queue is never mutated outside it.
type Manager struct {
	mu        sync.Mutex
	entries   []Entry
	nextOrder int
	matchSize int
	active    ActiveMatchChecker
}
