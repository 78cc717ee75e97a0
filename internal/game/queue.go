package game

import (
	"sync"
	"time"
)

// GameRecord is one completed pairing from a run snapshot. Winner is empty
// until the rules engine decides the game.
type GameRecord struct {
	Opponent string
	Winner   string
}

// RunSnapshot is a read-only copy of a player's current run, taken when the
// player queues. Used only for rematch filtering.
type RunSnapshot struct {
	RunID int
	Games []GameRecord
}

// HasDecidedGameAgainst reports whether the run already holds a decided game
// against the given opponent.
func (r RunSnapshot) HasDecidedGameAgainst(opponent string) bool {
	for _, g := range r.Games {
		if g.Opponent == opponent && g.Winner != "" {
			return true
		}
	}
	return false
}

// QueueEntry is a player waiting in the matchmaking queue
type QueueEntry struct {
	Username   string
	PlayerID   int
	Format     string
	Side       Side
	DeckID     int
	Run        RunSnapshot
	Blocked    map[string]bool
	ConnID     string
	EnqueuedAt time.Time
}

// MatchQueue is the ordered collection of waiting players. All operations are
// atomic with respect to each other; the eligibility scan and the removal of
// the chosen opponent happen under one lock.
type MatchQueue struct {
	mu      sync.Mutex
	entries []*QueueEntry
}

func NewMatchQueue() *MatchQueue {
	return &MatchQueue{}
}

// Enqueue appends the entry in FIFO order. No-op if the user already has an
// entry (a user appears in the queue at most once).
func (q *MatchQueue) Enqueue(entry *QueueEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		if e.Username == entry.Username {
			return
		}
	}
	q.entries = append(q.entries, entry)
}

// Dequeue removes the user's entry if present. Idempotent.
func (q *MatchQueue) Dequeue(username string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.Username == username {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}

// Contains reports whether the user has a queue entry
func (q *MatchQueue) Contains(username string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		if e.Username == username {
			return true
		}
	}
	return false
}

// Len returns the number of waiting players
func (q *MatchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// TakeMatch scans the queue in order and removes and returns the first entry
// mutually eligible with the candidate. Returns nil when no opponent is
// waiting; the caller enqueues the candidate instead.
func (q *MatchQueue) TakeMatch(candidate *QueueEntry) *QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if eligible(candidate, e) {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return e
		}
	}
	return nil
}
