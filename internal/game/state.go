package game

// Side is one of the two asymmetric roles in a match
type Side string

const (
	SideCorp   Side = "corp"
	SideRunner Side = "runner"
)

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == SideCorp {
		return SideRunner
	}
	return SideCorp
}

// MatchStatus represents the current state of a live match
type MatchStatus string

const (
	StatusLive      MatchStatus = "LIVE"
	StatusCompleted MatchStatus = "COMPLETED"
	StatusCancelled MatchStatus = "CANCELLED"
)

// Stage is the current phase of a match's inactivity negotiation.
// Numeric values are part of the client protocol and must not change.
type Stage int

const (
	StageNone        Stage = 0
	StageSoftWarning Stage = 1
	StageEscalated   Stage = 2
	StagePreTurn     Stage = -1
	StagePlayerLeft  Stage = -2
)

func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageSoftWarning:
		return "soft-warning"
	case StageEscalated:
		return "escalated"
	case StagePreTurn:
		return "pre-turn-warning"
	case StagePlayerLeft:
		return "player-left-warning"
	}
	return "unknown"
}

// NoReactionPeriod marks a stage that is resolvable immediately,
// with no escalation wait.
const NoReactionPeriod = -1
