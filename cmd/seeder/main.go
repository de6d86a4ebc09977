package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/duel-lords/internal/database"
	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/mauv0809/duel-lords/internal/duel"
	"github.com/mauv0809/duel-lords/internal/metrics"
	"github.com/mauv0809/duel-lords/internal/notifier"
	"github.com/mauv0809/duel-lords/internal/notifier/slack"
	"github.com/mauv0809/duel-lords/internal/player"
	"github.com/mauv0809/duel-lords/internal/store"
	"github.com/mauv0809/duel-lords/internal/tournament"
)

const (
	numPlayers = 8
	numResults = 200
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"DB_NAME"}
	optional := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	for _, key := range optional {
		config[key] = os.Getenv(key)
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()
	ctx := context.Background()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	clock := clockwork.NewRealClock()
	recordStore := store.NewSQL(db)
	players := player.New(recordStore, clock)
	// Seeded duels are announced to the log only.
	dispatcher := notifier.NewDispatcher(slack.NewNotifier("", slack.Config{DryRun: true}), metrics.NewMock())
	duels := duel.New(recordStore, players, players, dispatcher, clock, time.UTC)

	faker := gofakeit.New(0)
	ids := make([]string, 0, numPlayers)
	for i := 0; i < numPlayers; i++ {
		id := fmt.Sprintf("seed-%02d", i+1)
		_, err := players.Register(ctx, id, faker.Name())
		if err != nil && !errors.Is(err, domain.ErrAlreadyRegistered) {
			log.Fatalf("Failed to register player %s: %s", id, err)
		}
		ids = append(ids, id)
	}
	log.Info("Ensured seed players exist.", "count", len(ids))

	startTime := time.Now()
	for i := 0; i < numResults; i++ {
		a := faker.IntRange(0, len(ids)-1)
		b := (a + faker.IntRange(1, len(ids)-1)) % len(ids)
		outcome := domain.Outcome{
			WinnerID:    ids[a],
			LoserID:     ids[b],
			Draw:        faker.IntRange(0, 9) == 0,
			WinnerKills: faker.IntRange(0, 15),
			LoserKills:  faker.IntRange(0, 10),
		}
		if err := players.ApplyOutcome(ctx, outcome); err != nil {
			log.Fatalf("Failed to apply seeded outcome: %s", err)
		}
	}
	log.Info("Applied seeded results.", "count", numResults, "duration", time.Since(startTime))

	m, err := duels.Create(ctx, duel.CreateRequest{
		PlayerAID:   ids[0],
		PlayerBID:   ids[1],
		Text:        "in 10 minutes",
		Description: "Seeded demo duel",
		CreatedBy:   "seeder",
	})
	if err != nil {
		log.Fatalf("Failed to schedule demo duel: %s", err)
	}
	log.Info("Scheduled demo duel.", "matchID", m.ID, "scheduledAt", m.ScheduledAt)

	tournaments := tournament.New(recordStore, players, clock)
	t, err := tournaments.Create(ctx, tournament.CreateRequest{
		Name:       faker.Adjective() + " " + faker.Animal() + " Cup",
		MaxPlayers: numPlayers,
		CreatorID:  "seeder",
	})
	if err != nil {
		log.Fatalf("Failed to create demo tournament: %s", err)
	}
	for _, id := range ids[:numPlayers/2] {
		if _, err := tournaments.Join(ctx, t.ID, id); err != nil {
			log.Fatalf("Failed to join demo tournament: %s", err)
		}
	}
	log.Info("Created demo tournament.", "tournamentID", t.ID, "name", t.Name, "participants", numPlayers/2)
}

