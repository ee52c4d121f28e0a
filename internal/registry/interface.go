package registry

// PlayerRegistry is the read-only identity lookup consulted when a player
// joins the queue. Writes exist only for seeding and tests.
type PlayerRegistry interface {
	GetPlayer(id string) (*Player, error)
	UpsertPlayers(players []Player) error
	GetAllPlayers() ([]Player, error)
}
