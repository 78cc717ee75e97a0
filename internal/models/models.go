package models

import (
	"database/sql"
	"time"
)

// Player represents a registered user
type Player struct {
	ID           int          `db:"id" json:"id"`
	Username     string       `db:"username" json:"username"`
	PasswordHash string       `db:"password_hash" json:"-"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	IsActive     bool         `db:"is_active" json:"is_active"`
	LastActive   sql.NullTime `db:"last_active" json:"last_active,omitempty"`
}

// Deck is a player's deck; its format and side determine which
// matchmaking pool it queues into.
type Deck struct {
	ID        int       `db:"id" json:"id"`
	PlayerID  int       `db:"player_id" json:"player_id"`
	Name      string    `db:"name" json:"name"`
	Format    string    `db:"format" json:"format"`
	Side      string    `db:"side" json:"side"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Run is a ladder attempt for one (player, format, side)
type Run struct {
	ID         int          `db:"id" json:"id"`
	PlayerID   int          `db:"player_id" json:"player_id"`
	Username   string       `db:"username" json:"username"`
	DeckID     int          `db:"deck_id" json:"deck_id"`
	Format     string       `db:"format" json:"format"`
	Side       string       `db:"side" json:"side"`
	Status     string       `db:"status" json:"status"`
	Wins       int          `db:"wins" json:"wins"`
	Losses     int          `db:"losses" json:"losses"`
	StartedAt  time.Time    `db:"started_at" json:"started_at"`
	FinishedAt sql.NullTime `db:"finished_at" json:"finished_at,omitempty"`
}

// RunGame is one match recorded against a run. Winner stays empty until
// the rules engine decides the game.
type RunGame struct {
	ID       int            `db:"id" json:"id"`
	RunID    int            `db:"run_id" json:"run_id"`
	MatchID  string         `db:"match_id" json:"match_id"`
	Opponent string         `db:"opponent" json:"opponent"`
	Winner   sql.NullString `db:"winner" json:"winner,omitempty"`
	PlayedAt time.Time      `db:"played_at" json:"played_at"`
}

// MatchResult is the persisted outcome of a finished match
type MatchResult struct {
	ID          int            `db:"id" json:"id"`
	MatchID     string         `db:"match_id" json:"match_id"`
	Format      string         `db:"format" json:"format"`
	CorpUser    string         `db:"corp_user" json:"corp_user"`
	RunnerUser  string         `db:"runner_user" json:"runner_user"`
	WinnerSide  sql.NullString `db:"winner_side" json:"winner_side,omitempty"`
	WinnerUser  sql.NullString `db:"winner_user" json:"winner_user,omitempty"`
	Reason      string         `db:"reason" json:"reason"`
	TurnCount   int            `db:"turn_count" json:"turn_count"`
	StartedAt   time.Time      `db:"started_at" json:"started_at"`
	CompletedAt time.Time      `db:"completed_at" json:"completed_at"`
}

// BlockedPlayer is one row of a player's block list
type BlockedPlayer struct {
	ID        int       `db:"id" json:"id"`
	PlayerID  int       `db:"player_id" json:"player_id"`
	Blocked   string    `db:"blocked_username" json:"blocked_username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Run statuses
const (
	RunActive    = "active"
	RunFinished  = "finished"
	RunAbandoned = "abandoned"
)
