package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/cardforge/backend/internal/api/handlers"
	"github.com/cardforge/backend/internal/config"
	"github.com/cardforge/backend/internal/game"
	"github.com/cardforge/backend/internal/runs"
	"github.com/cardforge/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, cfg *config.Config, svc *game.Service, store *runs.Store, hub *ws.Hub) {
	// CORS middleware for the frontend dev server
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db, cfg))
			auth.POST("/login", handlers.Login(db, cfg))
		}

		ladder := v1.Group("/ladder")
		{
			// Persistent connection carrying all ladder actions
			ladder.GET("/ws", ws.HandleLadderSocket(svc, hub, cfg))

			authed := ladder.Group("")
			authed.Use(handlers.AuthMiddleware(cfg))
			{
				authed.GET("/runs", handlers.GetActiveRuns(store))
				authed.GET("/queue-times", handlers.GetQueueTimes(svc))
				authed.GET("/history", handlers.GetRunHistory(store, cfg))
				authed.GET("/decks", handlers.GetDecks(store))
			}
		}
	}
}
