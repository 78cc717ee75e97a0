// Package stats persists final match outcomes for the platform's statistics
// surfaces.
package stats

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/cardforge/backend/internal/models"
)

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// RecordMatchFinished writes one finished-match row. Winner columns are null
// for cancelled matches.
func (s *Store) RecordMatchFinished(ctx context.Context, r *models.MatchResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO match_results
		   (match_id, format, corp_user, runner_user, winner_side, winner_user, reason, turn_count, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.MatchID, r.Format, r.CorpUser, r.RunnerUser, r.WinnerSide, r.WinnerUser, r.Reason, r.TurnCount, r.StartedAt, r.CompletedAt)
	return err
}
