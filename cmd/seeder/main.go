package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rifthouse/rifthouse/internal/database"
	"github.com/rifthouse/rifthouse/internal/registry"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":        "rifthouse.db",
		"MIGRATIONS_DIR": "migrations",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"), cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	playerStore := registry.New(db)

	// 20 humans with spread-out ratings, plus a pool of bots so the queue
	// can always be filled during local testing.
	players := make([]registry.Player, 0, 30)
	for i := 0; i < 20; i++ {
		primary := registry.Lanes[rand.Intn(len(registry.Lanes))]
		secondary := registry.Lanes[rand.Intn(len(registry.Lanes))]
		for secondary == primary {
			secondary = registry.Lanes[rand.Intn(len(registry.Lanes))]
		}
		players = append(players, registry.Player{
			ID:            fmt.Sprintf("player-%d", i+1),
			DisplayName:   fmt.Sprintf("Seeder Player %d", i+1),
			MMR:           1000 + rand.Intn(1500),
			PrimaryLane:   primary,
			SecondaryLane: secondary,
		})
	}
	for i := 0; i < 10; i++ {
		lane := registry.Lanes[i%len(registry.Lanes)]
		players = append(players, registry.Player{
			ID:            "bot-" + uuid.New().String(),
			DisplayName:   fmt.Sprintf("Bot %d", i+1),
			MMR:           1200,
			PrimaryLane:   lane,
			SecondaryLane: registry.Lanes[(i+1)%len(registry.Lanes)],
			IsBot:         true,
		})
	}

	if err := playerStore.UpsertPlayers(players); err != nil {
		log.Fatalf("Failed to seed players: %s", err)
	}
	log.Info("Seeded players", "count", len(players))
}
