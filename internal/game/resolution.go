package game

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/cardforge/backend/internal/models"
)

// RequestMoreTime handles a player's request for extra time. Valid only while
// the requester is the recorded inactive user and their side still has grants
// left; the grant clears the warning and rearms the timer.
func (s *Service) RequestMoreTime(ctx context.Context, matchID, username string) error {
	m, err := s.manager.GetMatch(matchID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	side := m.sideOf(username)
	if side == "" {
		m.mu.Unlock()
		return ErrNotParticipant
	}
	st := m.Inactivity
	if st.Stage == StageNone || st.InactiveUser != username {
		m.mu.Unlock()
		return ErrWrongStage
	}
	remaining, ok := m.ExtraTime[side]
	if !ok {
		remaining = s.cfg.ExtraTimeGrants // lazily initialized to the platform cap
	}
	if remaining <= 0 {
		m.mu.Unlock()
		return ErrNoGrantsLeft
	}
	remaining--
	m.ExtraTime[side] = remaining
	m.Inactivity = InactivityState{Stage: StageNone}
	m.LastUpdate = time.Now()
	m.mu.Unlock()

	log.Printf("[RESOLUTION] %s granted extra time in match %s (%d remaining)", username, matchID, remaining)
	s.rules.PostSystemMessage(m, fmt.Sprintf("%s has kept the game alive (%d extra-time grants remaining).", username, remaining))
	s.manager.PublishMatchState(m, "inactivity_update")
	return nil
}

// ClaimVictory awards a forced win to the requester. Valid when the opponent
// left the match, or when the warning has escalated and the requester is the
// side opposite the inactive one.
func (s *Service) ClaimVictory(ctx context.Context, matchID, username string) error {
	m, err := s.manager.GetMatch(matchID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	side := m.sideOf(username)
	if side == "" {
		m.mu.Unlock()
		return ErrNotParticipant
	}
	st := m.Inactivity
	allowed := st.Stage == StagePlayerLeft ||
		(st.Stage == StageEscalated && side == st.InactiveSide.Opposite())
	if !allowed {
		m.mu.Unlock()
		return ErrWrongStage
	}
	m.mu.Unlock()

	if err := s.rules.AwardWin(ctx, m, side, "Claim"); err != nil {
		log.Printf("[RESOLUTION] Failed to award claimed win in match %s: %v", matchID, err)
		return err
	}
	log.Printf("[RESOLUTION] %s claimed victory in match %s", username, matchID)
	s.finalize(ctx, m)
	return nil
}

// CancelMatch resolves a stalled match with no winner. Valid for the
// immediately-resolvable stages, or after escalation for the side opposite
// the inactive one.
func (s *Service) CancelMatch(ctx context.Context, matchID, username string) error {
	m, err := s.manager.GetMatch(matchID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	side := m.sideOf(username)
	if side == "" {
		m.mu.Unlock()
		return ErrNotParticipant
	}
	st := m.Inactivity
	allowed := st.Stage == StagePreTurn || st.Stage == StagePlayerLeft ||
		(st.Stage == StageEscalated && side == st.InactiveSide.Opposite())
	if !allowed {
		m.mu.Unlock()
		return ErrWrongStage
	}
	now := time.Now()
	m.Status = StatusCancelled
	m.WinReason = "Cancel"
	m.CompletedAt = &now
	m.mu.Unlock()

	log.Printf("[RESOLUTION] %s cancelled match %s", username, matchID)
	s.finalize(ctx, m)
	return nil
}

// finalize persists the match outcome, broadcasts the final state, and tears
// the match down. Statistics failures are logged; teardown proceeds anyway.
func (s *Service) finalize(ctx context.Context, m *Match) {
	snap := m.Snapshot()

	result := &models.MatchResult{
		MatchID:     snap.MatchID,
		Format:      snap.Format,
		CorpUser:    snap.Corp.Username,
		RunnerUser:  snap.Runner.Username,
		Reason:      snap.WinReason,
		TurnCount:   snap.TurnNumber,
		StartedAt:   m.StartedAt,
		CompletedAt: time.Now(),
	}
	if snap.WinnerUser != "" {
		result.WinnerUser = sql.NullString{String: snap.WinnerUser, Valid: true}
		result.WinnerSide = sql.NullString{String: string(snap.WinnerSide), Valid: true}
	}

	if err := s.stats.RecordMatchFinished(ctx, result); err != nil {
		log.Printf("[STATS] Failed to record finished match %s: %v", snap.MatchID, err)
	}

	s.manager.PublishMatchState(m, "match_over")
	s.manager.CloseMatch(snap.MatchID)
}
