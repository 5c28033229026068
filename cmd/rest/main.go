package main

import (
	"context"
	"log"

	"cognihub-be/internal/bootstrap"
	"cognihub-be/internal/config"
	"cognihub-be/internal/model"
	"cognihub-be/internal/server"
	"cognihub-be/internal/tracer"
	"cognihub-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDB(database.GormConfig{Path: cfg.Database.Path})
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// SQLite schema is managed in-process; the table set is small enough
	// that AutoMigrate at boot is the whole migration story.
	if err := gormDB.AutoMigrate(
		&model.Document{},
		&model.Chunk{},
		&model.WebPage{},
		&model.WebChunk{},
		&model.Chat{},
		&model.ChatMessage{},
		&model.ResearchRun{},
		&model.ResearchSource{},
	); err != nil {
		log.Panicf("Unable to migrate database schema: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()
	defer container.NatsPublisher.Close()
	defer container.StatusCache.Close()

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Ingest Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
