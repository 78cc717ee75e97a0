package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/cardforge/backend/internal/api"
	"github.com/cardforge/backend/internal/config"
	"github.com/cardforge/backend/internal/database"
	"github.com/cardforge/backend/internal/game"
	"github.com/cardforge/backend/internal/migrations"
	"github.com/cardforge/backend/internal/redis"
	"github.com/cardforge/backend/internal/rules"
	"github.com/cardforge/backend/internal/runs"
	"github.com/cardforge/backend/internal/stats"
	"github.com/cardforge/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()

	// Connection hub for persistent player sessions
	hub := ws.NewHub()
	go hub.Run()

	// Ladder core and its collaborators
	store := runs.NewStore(db)
	statsStore := stats.NewStore(db)
	engine := rules.NewEngine(db)
	manager := game.NewManager(rdb)
	svc := game.NewService(cfg, store, statsStore, engine, manager, hub)

	// Background inactivity sweep over live matches
	go svc.StartInactivityMonitor(ctx)

	// Fan match_events out to connected clients
	ws.StartMatchEventSubscriber(ctx, rdb, hub)

	// HTTP server
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, db, cfg, svc, store, hub)

	log.Printf("Starting server on port %s (env=%s)", cfg.Port, cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
