package game

import (
	"sync"
	"time"
)

// Participant is one of the two original players of a match
type Participant struct {
	Username string `json:"username"`
	PlayerID int    `json:"-"`
	Side     Side   `json:"side"`
	RunID    int    `json:"-"`
	ConnID   string `json:"-"`
	Present  bool   `json:"present"`
}

// InactivityState tracks one warning cycle of a live match
type InactivityState struct {
	Stage         Stage     `json:"stage"`
	InactiveSide  Side      `json:"inactive_side,omitempty"`
	InactiveUser  string    `json:"inactive_user,omitempty"`
	WarningTime   time.Time `json:"warning_time"`
	PeriodToReact int       `json:"period_to_react"` // seconds; NoReactionPeriod = resolvable immediately
}

// Match is a live ladder match. Each match has its own lock; writers are the
// inactivity sweep, player resolution requests, and the rules engine advancing
// turns. Different matches never block each other.
type Match struct {
	mu sync.RWMutex

	ID     string
	Format string
	Corp   *Participant
	Runner *Participant

	// Rules-engine facing turn state
	TurnNumber  int
	ActiveSide  Side
	EndTurnFlag bool // active side has passed; the opponent is up next
	LastUpdate  time.Time

	Inactivity InactivityState
	ExtraTime  map[Side]int // remaining extra-time grants; lazily initialized

	Status     MatchStatus
	WinnerUser string
	WinnerSide Side
	WinReason  string

	SystemLog []string

	StartedAt   time.Time
	CompletedAt *time.Time
}

// NewMatch creates a live match from a matched pairing
func NewMatch(id, format string, corp, runner *Participant) *Match {
	now := time.Now()
	return &Match{
		ID:         id,
		Format:     format,
		Corp:       corp,
		Runner:     runner,
		ActiveSide: SideCorp,
		LastUpdate: now,
		ExtraTime:  make(map[Side]int),
		Status:     StatusLive,
		StartedAt:  now,
	}
}

// participant returns the participant playing the given side
func (m *Match) participant(side Side) *Participant {
	if side == SideCorp {
		return m.Corp
	}
	return m.Runner
}

// sideOf returns the side the user plays, or "" if not a participant.
// Caller holds the lock.
func (m *Match) sideOf(username string) Side {
	if m.Corp != nil && m.Corp.Username == username {
		return SideCorp
	}
	if m.Runner != nil && m.Runner.Username == username {
		return SideRunner
	}
	return ""
}

// SideOf returns the side the user plays, or "" if not a participant
func (m *Match) SideOf(username string) Side {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sideOf(username)
}

// presentCount counts participants still connected. Caller holds the lock.
func (m *Match) presentCount() int {
	n := 0
	if m.Corp != nil && m.Corp.Present {
		n++
	}
	if m.Runner != nil && m.Runner.Present {
		n++
	}
	return n
}

// missingParticipant returns the original participant no longer present.
// Caller holds the lock.
func (m *Match) missingParticipant() *Participant {
	if m.Corp != nil && !m.Corp.Present {
		return m.Corp
	}
	if m.Runner != nil && !m.Runner.Present {
		return m.Runner
	}
	return nil
}

// inactiveSideNow is the side currently on the clock: the active side, or the
// opponent once the end-turn flag has flipped. Caller holds the lock.
func (m *Match) inactiveSideNow() Side {
	if m.EndTurnFlag {
		return m.ActiveSide.Opposite()
	}
	return m.ActiveSide
}

// Touch refreshes the last-update timestamp. Called by the rules engine on
// every observed action.
func (m *Match) Touch() {
	m.mu.Lock()
	m.LastUpdate = time.Now()
	m.mu.Unlock()
}

// AdvanceTurn updates the rules-facing turn state and refreshes last-update
func (m *Match) AdvanceTurn(turn int, active Side, endTurn bool) {
	m.mu.Lock()
	m.TurnNumber = turn
	m.ActiveSide = active
	m.EndTurnFlag = endTurn
	m.LastUpdate = time.Now()
	m.mu.Unlock()
}

// SetPresence marks a participant connected or disconnected
func (m *Match) SetPresence(username string, present bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Corp != nil && m.Corp.Username == username {
		m.Corp.Present = present
	}
	if m.Runner != nil && m.Runner.Username == username {
		m.Runner.Present = present
	}
}

// SetResult marks the match won by the given side. Called by the rules
// engine when a win condition applies.
func (m *Match) SetResult(side Side, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.Status = StatusCompleted
	m.WinnerSide = side
	if p := m.participant(side); p != nil {
		m.WinnerUser = p.Username
	}
	m.WinReason = reason
	m.CompletedAt = &now
}

// AppendSystemMessage adds a line to the match's system log
func (m *Match) AppendSystemMessage(text string) {
	m.mu.Lock()
	m.SystemLog = append(m.SystemLog, text)
	m.mu.Unlock()
}

// Usernames returns both participants' usernames
func (m *Match) Usernames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	if m.Corp != nil {
		out = append(out, m.Corp.Username)
	}
	if m.Runner != nil {
		out = append(out, m.Runner.Username)
	}
	return out
}

// StatePayload is the full-state snapshot broadcast to both participants
type StatePayload struct {
	MatchID    string          `json:"match_id"`
	Format     string          `json:"format"`
	Status     MatchStatus     `json:"status"`
	Corp       Participant     `json:"corp"`
	Runner     Participant     `json:"runner"`
	TurnNumber int             `json:"turn_number"`
	ActiveSide Side            `json:"active_side"`
	Inactivity InactivityState `json:"inactivity"`
	WinnerUser string          `json:"winner_user,omitempty"`
	WinnerSide Side            `json:"winner_side,omitempty"`
	WinReason  string          `json:"win_reason,omitempty"`
	SystemLog  []string        `json:"system_log,omitempty"`
	LastUpdate time.Time       `json:"last_update"`
}

// Snapshot returns a consistent copy of the visible match state
func (m *Match) Snapshot() StatePayload {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// snapshotLocked builds the payload; caller holds at least a read lock
func (m *Match) snapshotLocked() StatePayload {
	p := StatePayload{
		MatchID:    m.ID,
		Format:     m.Format,
		Status:     m.Status,
		TurnNumber: m.TurnNumber,
		ActiveSide: m.ActiveSide,
		Inactivity: m.Inactivity,
		WinnerUser: m.WinnerUser,
		WinnerSide: m.WinnerSide,
		WinReason:  m.WinReason,
		LastUpdate: m.LastUpdate,
	}
	if m.Corp != nil {
		p.Corp = *m.Corp
	}
	if m.Runner != nil {
		p.Runner = *m.Runner
	}
	if len(m.SystemLog) > 0 {
		p.SystemLog = append([]string(nil), m.SystemLog...)
	}
	return p
}
