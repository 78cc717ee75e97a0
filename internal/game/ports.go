package game

import (
	"context"

	"github.com/cardforge/backend/internal/models"
)

// RunStore is the persistent run/deck collaborator. Owned externally; the
// core reads run snapshots and registers pairings through it.
type RunStore interface {
	GetDeckByID(ctx context.Context, playerID, deckID int) (*models.Deck, error)
	ActiveRun(ctx context.Context, playerID int, format, side string) (*models.Run, error)
	StartRun(ctx context.Context, playerID int, username string, deck *models.Deck) (*models.Run, error)
	FinishRun(ctx context.Context, runID int, status string) error
	RecordMatch(ctx context.Context, runID int, matchID, opponent string) error
	RunGames(ctx context.Context, runID int) ([]models.RunGame, error)
	BlockList(ctx context.Context, playerID int) ([]string, error)
}

// StatsStore persists final match outcomes
type StatsStore interface {
	RecordMatchFinished(ctx context.Context, result *models.MatchResult) error
}

// RulesEngine is the card-game rules collaborator: system chat and win
// condition application are delegated to it.
type RulesEngine interface {
	PostSystemMessage(m *Match, text string)
	AwardWin(ctx context.Context, m *Match, side Side, reason string) error
}

// Notifier delivers an event to the given connections
type Notifier interface {
	SendTo(connIDs []string, event string, payload interface{})
}
