package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

func warnedMatch(svc *Service, stage Stage, inactive Side) *Match {
	m := liveMatch(svc, 3, SideCorp)
	state := InactivityState{
		Stage:         stage,
		WarningTime:   time.Now(),
		PeriodToReact: 30,
	}
	if stage == StagePreTurn || stage == StagePlayerLeft {
		state.PeriodToReact = NoReactionPeriod
	}
	if stage != StagePreTurn {
		state.InactiveSide = inactive
		state.InactiveUser = m.participant(inactive).Username
	}
	if stage == StagePlayerLeft {
		m.participant(inactive).Present = false
	}
	m.Inactivity = state
	return m
}

func TestMoreTimeGrants(t *testing.T) {
	svc, _, _, rl := newTestService()
	ctx := context.Background()
	m := warnedMatch(svc, StageSoftWarning, SideCorp)

	// alice (corp) is the inactive user; cap is 2
	if err := svc.RequestMoreTime(ctx, m.ID, "alice"); err != nil {
		t.Fatalf("first grant: %v", err)
	}
	snap := m.Snapshot()
	if snap.Inactivity.Stage != StageNone {
		t.Errorf("warning not cleared after grant")
	}
	if m.ExtraTime[SideCorp] != 1 {
		t.Errorf("counter = %d after first grant, want 1", m.ExtraTime[SideCorp])
	}
	if len(rl.messages) != 1 {
		t.Errorf("expected a system notice, got %d", len(rl.messages))
	}

	m.Inactivity = InactivityState{Stage: StageSoftWarning, InactiveSide: SideCorp, InactiveUser: "alice", WarningTime: time.Now(), PeriodToReact: 30}
	if err := svc.RequestMoreTime(ctx, m.ID, "alice"); err != nil {
		t.Fatalf("second grant: %v", err)
	}
	if m.ExtraTime[SideCorp] != 0 {
		t.Errorf("counter = %d after second grant, want 0", m.ExtraTime[SideCorp])
	}

	m.Inactivity = InactivityState{Stage: StageSoftWarning, InactiveSide: SideCorp, InactiveUser: "alice", WarningTime: time.Now(), PeriodToReact: 30}
	if err := svc.RequestMoreTime(ctx, m.ID, "alice"); !errors.Is(err, ErrNoGrantsLeft) {
		t.Errorf("third grant: expected ErrNoGrantsLeft, got %v", err)
	}
	if m.ExtraTime[SideCorp] != 0 {
		t.Errorf("exhausted counter must stay 0, got %d", m.ExtraTime[SideCorp])
	}
	if m.Snapshot().Inactivity.Stage != StageSoftWarning {
		t.Errorf("failed grant must not clear the warning")
	}
}

func TestMoreTimeOnlyForInactiveUser(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	m := warnedMatch(svc, StageSoftWarning, SideCorp)

	if err := svc.RequestMoreTime(ctx, m.ID, "bob"); !errors.Is(err, ErrWrongStage) {
		t.Errorf("opponent requesting time: expected ErrWrongStage, got %v", err)
	}
	if m.Snapshot().Inactivity.Stage != StageSoftWarning {
		t.Errorf("warning must stay in place")
	}
}

func TestMoreTimeRequiresActiveWarning(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	m := liveMatch(svc, 3, SideCorp)

	if err := svc.RequestMoreTime(ctx, m.ID, "alice"); !errors.Is(err, ErrWrongStage) {
		t.Errorf("no warning active: expected ErrWrongStage, got %v", err)
	}
}

func TestClaimVictoryWhenEscalated(t *testing.T) {
	svc, _, st, _ := newTestService()
	ctx := context.Background()
	m := warnedMatch(svc, StageEscalated, SideCorp)

	// The inactive side itself may not claim
	if err := svc.ClaimVictory(ctx, m.ID, "alice"); !errors.Is(err, ErrWrongStage) {
		t.Fatalf("inactive side claiming: expected ErrWrongStage, got %v", err)
	}
	if _, err := svc.Manager().GetMatch(m.ID); err != nil {
		t.Fatalf("match must remain open after rejected claim")
	}

	// The opposite side may
	if err := svc.ClaimVictory(ctx, m.ID, "bob"); err != nil {
		t.Fatalf("claim: %v", err)
	}

	if _, err := svc.Manager().GetMatch(m.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("match should be torn down after claim")
	}
	if len(st.results) != 1 {
		t.Fatalf("expected 1 recorded result, got %d", len(st.results))
	}
	r := st.results[0]
	if !r.WinnerUser.Valid || r.WinnerUser.String != "bob" {
		t.Errorf("winner = %v, want bob", r.WinnerUser)
	}
	if r.Reason != "Claim" {
		t.Errorf("reason = %q, want Claim", r.Reason)
	}
}

func TestClaimVictoryWhenPlayerLeft(t *testing.T) {
	svc, _, st, _ := newTestService()
	ctx := context.Background()
	m := warnedMatch(svc, StagePlayerLeft, SideRunner)

	// The remaining player claims against the one who left
	if err := svc.ClaimVictory(ctx, m.ID, "alice"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(st.results) != 1 || st.results[0].WinnerUser.String != "alice" {
		t.Errorf("winner should be alice")
	}
}

func TestClaimVictoryRejectedStages(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	for _, stage := range []Stage{StageSoftWarning, StagePreTurn} {
		m := warnedMatch(svc, stage, SideCorp)
		if err := svc.ClaimVictory(ctx, m.ID, "bob"); !errors.Is(err, ErrWrongStage) {
			t.Errorf("stage %v: expected ErrWrongStage, got %v", stage, err)
		}
		if _, err := svc.Manager().GetMatch(m.ID); err != nil {
			t.Errorf("stage %v: match must remain open", stage)
		}
		svc.Manager().CloseMatch(m.ID)
	}
}

func TestClaimVictoryRequiresParticipant(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	m := warnedMatch(svc, StageEscalated, SideCorp)

	if err := svc.ClaimVictory(ctx, m.ID, "mallory"); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant, got %v", err)
	}
}

func TestCancelMatchStages(t *testing.T) {
	svc, _, st, _ := newTestService()
	ctx := context.Background()

	// Immediately resolvable stages: either participant may cancel
	for _, stage := range []Stage{StagePreTurn, StagePlayerLeft} {
		m := warnedMatch(svc, stage, SideRunner)
		if err := svc.CancelMatch(ctx, m.ID, "alice"); err != nil {
			t.Fatalf("stage %v cancel: %v", stage, err)
		}
		if _, err := svc.Manager().GetMatch(m.ID); !errors.Is(err, ErrMatchNotFound) {
			t.Errorf("stage %v: match should be torn down", stage)
		}
	}

	// Escalated: only the side opposite the inactive one
	m := warnedMatch(svc, StageEscalated, SideCorp)
	if err := svc.CancelMatch(ctx, m.ID, "alice"); !errors.Is(err, ErrWrongStage) {
		t.Errorf("inactive side cancelling: expected ErrWrongStage, got %v", err)
	}
	if err := svc.CancelMatch(ctx, m.ID, "bob"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Soft warning: nobody may cancel
	m2 := warnedMatch(svc, StageSoftWarning, SideCorp)
	if err := svc.CancelMatch(ctx, m2.ID, "bob"); !errors.Is(err, ErrWrongStage) {
		t.Errorf("soft warning cancel: expected ErrWrongStage, got %v", err)
	}

	// Cancelled matches record no winner
	for _, r := range st.results {
		if r.WinnerUser.Valid {
			t.Errorf("cancelled match %s must have no winner", r.MatchID)
		}
	}
}

func TestMoreTimeRearmsTimer(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	m := warnedMatch(svc, StageSoftWarning, SideCorp)
	stale := time.Now().Add(-5 * time.Minute)
	m.LastUpdate = stale

	if err := svc.RequestMoreTime(ctx, m.ID, "alice"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !m.Snapshot().LastUpdate.After(stale) {
		t.Errorf("grant must refresh the last-update timestamp")
	}
}
