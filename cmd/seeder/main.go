package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/courtline/internal/database"
	"github.com/mauv0809/courtline/internal/tennis"
)

const seedUserID = "default"

func main() {
	log.Info("Starting database seeder...")

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "tennis.db"
	}

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"), "./migrations")
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := tennis.New(db)

	if err := store.SeedDefaultSettings(seedUserID, "Mark"); err != nil {
		log.Fatalf("Failed to seed settings: %s", err)
	}

	for _, name := range []string{"Alex", "John", "Sarah", "Mike", "David"} {
		_, err := db.Exec("INSERT OR IGNORE INTO players (user_id, name) VALUES (?, ?)", seedUserID, name)
		if err != nil {
			log.Fatalf("Failed to insert player %s: %s", name, err)
		}
	}
	log.Info("Ensured demo players exist.")

	matches := []tennis.Match{
		{Player1: "Mark", Player2: "Alex", Date: "2025-10-15", StartTime: ptr("10:00"), Duration: intPtr(90), Surface: "Hard", Season: "Fall 2025", Score1: ptr("6,6"), Score2: ptr("4,3"), Status: tennis.StatusCompleted},
		{Player1: "Mark", Player2: "John", Date: "2025-11-02", StartTime: ptr("09:30"), Duration: intPtr(120), Surface: "Clay", Season: "Fall 2025", Score1: ptr("3,6,6"), Score2: ptr("6,4,2"), Status: tennis.StatusCompleted},
		{Player1: "Mark", Player2: "Sarah", Date: "2026-01-10", StartTime: ptr("11:00"), Duration: intPtr(90), Surface: "Hard", Season: "Winter 2026", Score1: ptr("7,6"), Score2: ptr("5,4"), Status: tennis.StatusCompleted},
		{Player1: "Mark", Player2: "Mike", Date: "2026-02-20", StartTime: ptr("10:00"), Duration: intPtr(90), Surface: "Grass", Season: "Winter 2026", Score1: ptr("4,2"), Score2: ptr("6,6"), Status: tennis.StatusCompleted},
		{Player1: "Mark", Player2: "David", Date: "2026-02-27", StartTime: ptr("10:00"), Duration: intPtr(90), Surface: "Hard", Season: "Winter 2026"},
	}

	for _, match := range matches {
		m := match
		id, err := store.CreateMatch(seedUserID, &m)
		if err != nil {
			log.Fatalf("Failed to insert match against %s: %s", m.Player2, err)
		}
		if m.Status == tennis.StatusCompleted {
			if err := store.UpdateScore(seedUserID, id, *m.Score1, *m.Score2); err != nil {
				log.Fatalf("Failed to record score for match %d: %s", id, err)
			}
		}
	}

	log.Info("Successfully seeded demo data.", "userID", seedUserID, "matches", len(matches))
}

func ptr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
