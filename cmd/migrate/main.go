package main

import (
	"log"
	"os"

	"cognihub-be/internal/model"
	"cognihub-be/pkg/database"

	"github.com/joho/godotenv"
)

// Prepares the sqlite file without starting the server. The server runs
// the same AutoMigrate at boot; this exists for provisioning and for
// inspecting a fresh schema.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "./data/cognihub.db"
	}

	db, err := database.NewGormDB(database.GormConfig{Path: path})
	if err != nil {
		log.Fatalf("Error: Failed to open database %s: %v", path, err)
	}

	log.Printf("Migrating schema in %s...", path)

	if err := db.AutoMigrate(
		&model.Document{},
		&model.Chunk{},
		&model.WebPage{},
		&model.WebChunk{},
		&model.Chat{},
		&model.ChatMessage{},
		&model.ResearchRun{},
		&model.ResearchSource{},
	); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("✅ Success: Database migration completed.")
}
