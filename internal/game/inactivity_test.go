package game

import (
	"testing"
	"time"
)

// Config under test: first period 60s, reaction window 30s (testConfig)

func TestSoftWarningThenEscalation(t *testing.T) {
	svc, _, _, _ := newTestService()
	m := liveMatch(svc, 3, SideCorp)

	base := time.Now()
	m.LastUpdate = base

	// Just under the first period: nothing happens
	svc.CheckInactivity(base.Add(59 * time.Second))
	if m.Snapshot().Inactivity.Stage != StageNone {
		t.Fatalf("stage = %v before first period, want none", m.Snapshot().Inactivity.Stage)
	}

	// 61s of silence: soft warning against the side holding the turn
	svc.CheckInactivity(base.Add(61 * time.Second))
	st := m.Snapshot().Inactivity
	if st.Stage != StageSoftWarning {
		t.Fatalf("stage = %v after 61s, want soft warning", st.Stage)
	}
	if st.InactiveSide != SideCorp || st.InactiveUser != "alice" {
		t.Errorf("inactive party = %s/%s, want corp/alice", st.InactiveSide, st.InactiveUser)
	}
	if st.PeriodToReact != 30 {
		t.Errorf("period to react = %d, want 30", st.PeriodToReact)
	}

	// Reaction window not yet over
	svc.CheckInactivity(base.Add(90 * time.Second))
	if m.Snapshot().Inactivity.Stage != StageSoftWarning {
		t.Fatalf("stage should stay soft inside the reaction window")
	}

	// 31s past the warning with no activity: escalate
	svc.CheckInactivity(base.Add(93 * time.Second))
	if m.Snapshot().Inactivity.Stage != StageEscalated {
		t.Fatalf("stage = %v after reaction window, want escalated", m.Snapshot().Inactivity.Stage)
	}
}

func TestActivityResetsSoftWarning(t *testing.T) {
	svc, _, _, _ := newTestService()
	m := liveMatch(svc, 3, SideCorp)

	base := time.Now()
	m.LastUpdate = base
	svc.CheckInactivity(base.Add(61 * time.Second))
	if m.Snapshot().Inactivity.Stage != StageSoftWarning {
		t.Fatalf("warning not raised")
	}

	// The suspected side acts: last update advances past the warning time
	m.LastUpdate = base.Add(70 * time.Second)
	svc.CheckInactivity(base.Add(80 * time.Second))
	if m.Snapshot().Inactivity.Stage != StageNone {
		t.Errorf("stage = %v after activity, want none", m.Snapshot().Inactivity.Stage)
	}
}

func TestActivityResetsEscalated(t *testing.T) {
	svc, _, _, _ := newTestService()
	m := liveMatch(svc, 3, SideCorp)

	base := time.Now()
	m.LastUpdate = base
	svc.CheckInactivity(base.Add(61 * time.Second))
	svc.CheckInactivity(base.Add(93 * time.Second))
	if m.Snapshot().Inactivity.Stage != StageEscalated {
		t.Fatalf("not escalated")
	}

	// Any observed action resets, whichever side acted
	m.LastUpdate = base.Add(95 * time.Second)
	svc.CheckInactivity(base.Add(96 * time.Second))
	if m.Snapshot().Inactivity.Stage != StageNone {
		t.Errorf("stage = %v after activity, want none", m.Snapshot().Inactivity.Stage)
	}
}

func TestEndTurnFlagShiftsSuspicion(t *testing.T) {
	svc, _, _, _ := newTestService()
	m := liveMatch(svc, 3, SideCorp)
	m.EndTurnFlag = true

	base := time.Now()
	m.LastUpdate = base
	svc.CheckInactivity(base.Add(61 * time.Second))

	st := m.Snapshot().Inactivity
	if st.InactiveSide != SideRunner || st.InactiveUser != "bob" {
		t.Errorf("inactive party = %s/%s, want runner/bob (end-turn flag set)", st.InactiveSide, st.InactiveUser)
	}
}

func TestPreTurnWarning(t *testing.T) {
	svc, _, _, _ := newTestService()
	m := liveMatch(svc, 0, SideCorp) // game never started

	base := time.Now()
	m.LastUpdate = base

	// Uses the second period, not the first
	svc.CheckInactivity(base.Add(31 * time.Second))
	st := m.Snapshot().Inactivity
	if st.Stage != StagePreTurn {
		t.Fatalf("stage = %v, want pre-turn warning", st.Stage)
	}
	if st.PeriodToReact != NoReactionPeriod {
		t.Errorf("period to react = %d, want %d", st.PeriodToReact, NoReactionPeriod)
	}
	if st.InactiveUser != "" || st.InactiveSide != "" {
		t.Errorf("pre-turn warning carries no inactive party")
	}
}

func TestPlayerLeftWarning(t *testing.T) {
	svc, _, _, _ := newTestService()
	m := liveMatch(svc, 3, SideCorp)
	m.Runner.Present = false

	base := time.Now()
	m.LastUpdate = base

	svc.CheckInactivity(base.Add(31 * time.Second))
	st := m.Snapshot().Inactivity
	if st.Stage != StagePlayerLeft {
		t.Fatalf("stage = %v, want player-left warning", st.Stage)
	}
	if st.InactiveSide != SideRunner || st.InactiveUser != "bob" {
		t.Errorf("inactive party = %s/%s, want runner/bob", st.InactiveSide, st.InactiveUser)
	}
	if st.PeriodToReact != NoReactionPeriod {
		t.Errorf("player-left warning has no reaction window")
	}
}

func TestSweepSkipsClosedMatch(t *testing.T) {
	svc, _, _, _ := newTestService()
	m := liveMatch(svc, 3, SideCorp)
	m.LastUpdate = time.Now().Add(-10 * time.Minute)

	svc.Manager().CloseMatch(m.ID)

	// Must not panic, and a closed match stays untouched once the registry
	// no longer lists it
	svc.CheckInactivity(time.Now())
	if svc.Manager().ActiveMatchCount() != 0 {
		t.Errorf("no matches should be live")
	}
}

func TestMonotonicStageWithinCycle(t *testing.T) {
	svc, _, _, _ := newTestService()
	m := liveMatch(svc, 3, SideCorp)

	base := time.Now()
	m.LastUpdate = base
	svc.CheckInactivity(base.Add(61 * time.Second))
	svc.CheckInactivity(base.Add(93 * time.Second))

	// Repeated sweeps with no activity keep the match escalated; the stage
	// never walks back without an observed action
	svc.CheckInactivity(base.Add(120 * time.Second))
	svc.CheckInactivity(base.Add(150 * time.Second))
	if m.Snapshot().Inactivity.Stage != StageEscalated {
		t.Errorf("stage = %v, want escalated", m.Snapshot().Inactivity.Stage)
	}
}
