package queue

// ActiveMatchChecker reports whether a player currently participates in a
// non-terminal match. Implemented by the match coordinator; injected so the
// queue can enforce the one-place-at-a-time invariant without importing it.
type ActiveMatchChecker interface {
	IsPlayerActive(playerID string) bool
}
