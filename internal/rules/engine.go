// Package rules is the thin seam to the card-game rules engine. Turn
// progression lives elsewhere; this adapter covers the two calls the ladder
// core delegates: system chat and win condition application.
package rules

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/cardforge/backend/internal/game"
)

type Engine struct {
	db *sqlx.DB
}

func NewEngine(db *sqlx.DB) *Engine {
	return &Engine{db: db}
}

// PostSystemMessage appends a system line to the match log
func (e *Engine) PostSystemMessage(m *game.Match, text string) {
	m.AppendSystemMessage(text)
	log.Printf("[RULES] System message in match %s: %s", m.ID, text)
}

// AwardWin applies the win condition to the match and settles both run
// histories: the decided game rows and the runs' win/loss tallies.
func (e *Engine) AwardWin(ctx context.Context, m *game.Match, side game.Side, reason string) error {
	m.SetResult(side, reason)
	snap := m.Snapshot()

	if e.db == nil {
		return nil
	}

	winner, loser := snap.Corp, snap.Runner
	if side == game.SideRunner {
		winner, loser = snap.Runner, snap.Corp
	}

	if _, err := e.db.ExecContext(ctx,
		`UPDATE run_games SET winner=$1 WHERE match_id=$2`, winner.Username, snap.MatchID); err != nil {
		return err
	}
	if _, err := e.db.ExecContext(ctx,
		`UPDATE runs SET wins = wins + 1 WHERE id=$1`, winner.RunID); err != nil {
		return err
	}
	if _, err := e.db.ExecContext(ctx,
		`UPDATE runs SET losses = losses + 1 WHERE id=$1`, loser.RunID); err != nil {
		return err
	}
	return nil
}
