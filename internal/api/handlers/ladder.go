package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardforge/backend/internal/config"
	"github.com/cardforge/backend/internal/game"
	"github.com/cardforge/backend/internal/runs"
)

// GetActiveRuns returns the caller's current run per (format, side)
func GetActiveRuns(store *runs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := c.GetInt("player_id")

		active, err := store.ActiveRuns(c.Request.Context(), playerID)
		if err != nil {
			log.Printf("GetActiveRuns: query failed for player %d: %v", playerID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"runs": active})
	}
}

// GetQueueTimes returns the average queue wait per (format, side), in seconds
func GetQueueTimes(svc *game.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"queue_times": svc.Waits().Averages()})
	}
}

// GetRunHistory returns the caller's most recently finished runs, newest first
func GetRunHistory(store *runs.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := c.GetInt("player_id")

		finished, err := store.FinishedRuns(c.Request.Context(), playerID, cfg.RunHistoryLimit)
		if err != nil {
			log.Printf("GetRunHistory: query failed for player %d: %v", playerID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"runs": finished})
	}
}

// GetDecks returns the caller's decks
func GetDecks(store *runs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := c.GetInt("player_id")

		decks, err := store.Decks(c.Request.Context(), playerID)
		if err != nil {
			log.Printf("GetDecks: query failed for player %d: %v", playerID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"decks": decks})
	}
}
