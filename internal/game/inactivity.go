package game

import (
	"time"
)

// CheckInactivity advances every live match's inactivity state machine for
// the given instant. Called by the monitor worker on each tick; tests call it
// directly with a controlled clock. Matches closed between listing and
// processing are skipped.
func (s *Service) CheckInactivity(now time.Time) {
	for _, m := range s.manager.ListMatches() {
		if s.advanceInactivity(m, now) {
			s.manager.PublishMatchState(m, "inactivity_update")
		}
	}
}

// advanceInactivity applies one sweep step to a single match and reports
// whether visible state changed
func (s *Service) advanceInactivity(m *Match, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Status != StatusLive {
		return false
	}

	firstPeriod := time.Duration(s.cfg.InactivityWarningSeconds) * time.Second
	secondPeriod := time.Duration(s.cfg.InactivityReactionSeconds) * time.Second
	elapsed := now.Sub(m.LastUpdate)

	switch {
	case m.presentCount() == 1:
		// One participant left the match. No reaction window; the stage is
		// resolvable immediately.
		if m.Inactivity.Stage != StagePlayerLeft && elapsed > secondPeriod {
			missing := m.missingParticipant()
			state := InactivityState{
				Stage:         StagePlayerLeft,
				WarningTime:   now,
				PeriodToReact: NoReactionPeriod,
			}
			if missing != nil {
				state.InactiveSide = missing.Side
				state.InactiveUser = missing.Username
			}
			m.Inactivity = state
			return true
		}

	case m.TurnNumber == 0:
		// Both present but the game never started
		switch m.Inactivity.Stage {
		case StagePreTurn:
			if m.LastUpdate.After(m.Inactivity.WarningTime) {
				m.Inactivity = InactivityState{Stage: StageNone}
				return true
			}
		default:
			if elapsed > secondPeriod {
				m.Inactivity = InactivityState{
					Stage:         StagePreTurn,
					WarningTime:   now,
					PeriodToReact: NoReactionPeriod,
				}
				return true
			}
		}

	default:
		// Game in progress: suspicion falls on whichever side holds the turn
		switch m.Inactivity.Stage {
		case StageNone:
			if elapsed > firstPeriod {
				side := m.inactiveSideNow()
				m.Inactivity = InactivityState{
					Stage:         StageSoftWarning,
					InactiveSide:  side,
					InactiveUser:  m.participant(side).Username,
					WarningTime:   now,
					PeriodToReact: s.cfg.InactivityReactionSeconds,
				}
				return true
			}

		case StageSoftWarning:
			if m.LastUpdate.After(m.Inactivity.WarningTime) {
				// The suspected side acted; clear the warning
				m.Inactivity = InactivityState{Stage: StageNone}
				return true
			}
			deadline := m.Inactivity.WarningTime.Add(time.Duration(m.Inactivity.PeriodToReact) * time.Second)
			if now.After(deadline) {
				m.Inactivity.Stage = StageEscalated
				return true
			}

		case StageEscalated:
			// Any observed action resets, regardless of which side acted
			if m.LastUpdate.After(m.Inactivity.WarningTime) {
				m.Inactivity = InactivityState{Stage: StageNone}
				return true
			}

		case StagePlayerLeft, StagePreTurn:
			// Everyone is back, or the game started; clear once activity
			// is observed
			if m.LastUpdate.After(m.Inactivity.WarningTime) {
				m.Inactivity = InactivityState{Stage: StageNone}
				return true
			}
		}
	}

	return false
}
