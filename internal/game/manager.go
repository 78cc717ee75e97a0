package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ErrMatchNotFound is returned when a match id resolves to nothing, typically
// because another component already closed the match.
var ErrMatchNotFound = errors.New("match not found")

// Manager is the registry of live ladder matches and the bridge to the
// full-state synchronization channel. One instance per process, injected into
// whatever needs it.
type Manager struct {
	mu            sync.RWMutex
	matches       map[string]*Match
	playerToMatch map[string]string
	rdb           *redis.Client
}

func NewManager(rdb *redis.Client) *Manager {
	return &Manager{
		matches:       make(map[string]*Match),
		playerToMatch: make(map[string]string),
		rdb:           rdb,
	}
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func generateMatchID() string {
	return "match_" + generateToken(8)
}

// CreateMatch registers a new live match for a matched pairing
func (mgr *Manager) CreateMatch(format string, corp, runner *Participant) *Match {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	m := NewMatch(generateMatchID(), format, corp, runner)
	mgr.matches[m.ID] = m
	mgr.playerToMatch[corp.Username] = m.ID
	mgr.playerToMatch[runner.Username] = m.ID

	log.Printf("[LOBBY] Match created: %s (%s: %s vs %s)", m.ID, format, corp.Username, runner.Username)
	return m
}

// GetMatch retrieves a live match by id
func (mgr *Manager) GetMatch(matchID string) (*Match, error) {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	m, exists := mgr.matches[matchID]
	if !exists {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// MatchForPlayer retrieves the live match the user participates in
func (mgr *Manager) MatchForPlayer(username string) (*Match, error) {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	matchID, exists := mgr.playerToMatch[username]
	if !exists {
		return nil, ErrMatchNotFound
	}
	m, exists := mgr.matches[matchID]
	if !exists {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// CloseMatch removes a finished match from the registry. Idempotent.
func (mgr *Manager) CloseMatch(matchID string) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	m, exists := mgr.matches[matchID]
	if !exists {
		return
	}
	if m.Corp != nil {
		delete(mgr.playerToMatch, m.Corp.Username)
	}
	if m.Runner != nil {
		delete(mgr.playerToMatch, m.Runner.Username)
	}
	delete(mgr.matches, matchID)

	log.Printf("[LOBBY] Match closed: %s", matchID)
}

// ListMatches returns a snapshot of all live matches. A match may be closed
// by another component between listing and processing; callers skip on
// ErrMatchNotFound or a non-live status.
func (mgr *Manager) ListMatches() []*Match {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	out := make([]*Match, 0, len(mgr.matches))
	for _, m := range mgr.matches {
		out = append(out, m)
	}
	return out
}

// ActiveMatchCount returns the number of live matches
func (mgr *Manager) ActiveMatchCount() int {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return len(mgr.matches)
}

// PublishMatchState pushes the full match state onto the match_events channel
// for the connection layer to fan out to both participants
func (mgr *Manager) PublishMatchState(m *Match, eventType string) {
	mgr.publish(eventType, m.Snapshot(), m.Usernames())
}

func (mgr *Manager) publish(eventType string, state StatePayload, usernames []string) {
	if mgr.rdb == nil {
		return // No Redis client, skip
	}

	payload := map[string]interface{}{
		"type":      eventType,
		"match_id":  state.MatchID,
		"usernames": usernames,
		"state":     state,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[LOBBY] Failed to marshal %s event for match %s: %v", eventType, state.MatchID, err)
		return
	}

	if n, err := mgr.rdb.Publish(context.Background(), "match_events", b).Result(); err != nil {
		log.Printf("[LOBBY] publish %s failed: match=%s err=%v", eventType, state.MatchID, err)
	} else {
		log.Printf("[LOBBY] published %s: match=%s subscribers=%d", eventType, state.MatchID, n)
	}
}
