// Package runs is the persistent store for decks, ladder runs, and the game
// records hanging off each run.
package runs

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/cardforge/backend/internal/models"
)

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// GetDeckByID fetches one of the player's decks. Returns (nil, nil) when the
// deck does not exist or belongs to someone else.
func (s *Store) GetDeckByID(ctx context.Context, playerID, deckID int) (*models.Deck, error) {
	var deck models.Deck
	err := s.db.GetContext(ctx, &deck,
		`SELECT id, player_id, name, format, side, created_at FROM decks WHERE id=$1 AND player_id=$2`,
		deckID, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &deck, nil
}

// ActiveRun fetches the player's active run for one (format, side), or
// (nil, nil) when none is active.
func (s *Store) ActiveRun(ctx context.Context, playerID int, format, side string) (*models.Run, error) {
	var run models.Run
	err := s.db.GetContext(ctx, &run,
		`SELECT id, player_id, username, deck_id, format, side, status, wins, losses, started_at, finished_at
		   FROM runs
		  WHERE player_id=$1 AND format=$2 AND side=$3 AND status=$4`,
		playerID, format, side, models.RunActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// StartRun opens a new run for the deck's format and side
func (s *Store) StartRun(ctx context.Context, playerID int, username string, deck *models.Deck) (*models.Run, error) {
	var run models.Run
	err := s.db.GetContext(ctx, &run,
		`INSERT INTO runs (player_id, username, deck_id, format, side, status, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 RETURNING id, player_id, username, deck_id, format, side, status, wins, losses, started_at, finished_at`,
		playerID, username, deck.ID, deck.Format, deck.Side, models.RunActive)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FinishRun closes a run with the given terminal status
func (s *Store) FinishRun(ctx context.Context, runID int, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status=$1, finished_at=NOW() WHERE id=$2 AND status=$3`,
		status, runID, models.RunActive)
	return err
}

// RecordMatch registers a pairing against the run's history. The winner
// column stays empty until the rules engine decides the game.
func (s *Store) RecordMatch(ctx context.Context, runID int, matchID, opponent string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_games (run_id, match_id, opponent, played_at) VALUES ($1, $2, $3, NOW())`,
		runID, matchID, opponent)
	return err
}

// RunGames returns the run's game records in play order
func (s *Store) RunGames(ctx context.Context, runID int) ([]models.RunGame, error) {
	var games []models.RunGame
	err := s.db.SelectContext(ctx, &games,
		`SELECT id, run_id, match_id, opponent, winner, played_at FROM run_games WHERE run_id=$1 ORDER BY played_at`,
		runID)
	if err != nil {
		return nil, err
	}
	return games, nil
}

// BlockList returns the usernames the player has blocked
func (s *Store) BlockList(ctx context.Context, playerID int) ([]string, error) {
	var blocked []string
	err := s.db.SelectContext(ctx, &blocked,
		`SELECT blocked_username FROM blocked_players WHERE player_id=$1`, playerID)
	if err != nil {
		return nil, err
	}
	return blocked, nil
}

// ActiveRuns returns the player's active runs across all (format, side) pools
func (s *Store) ActiveRuns(ctx context.Context, playerID int) ([]models.Run, error) {
	var out []models.Run
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, player_id, username, deck_id, format, side, status, wins, losses, started_at, finished_at
		   FROM runs
		  WHERE player_id=$1 AND status=$2
		  ORDER BY format, side`,
		playerID, models.RunActive)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FinishedRuns returns the player's most recently finished runs, newest first
func (s *Store) FinishedRuns(ctx context.Context, playerID, limit int) ([]models.Run, error) {
	var out []models.Run
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, player_id, username, deck_id, format, side, status, wins, losses, started_at, finished_at
		   FROM runs
		  WHERE player_id=$1 AND status <> $2
		  ORDER BY finished_at DESC
		  LIMIT $3`,
		playerID, models.RunActive, limit)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Decks returns all of the player's decks
func (s *Store) Decks(ctx context.Context, playerID int) ([]models.Deck, error) {
	var out []models.Deck
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, player_id, name, format, side, created_at FROM decks WHERE player_id=$1 ORDER BY created_at DESC`,
		playerID)
	if err != nil {
		return nil, err
	}
	return out, nil
}
