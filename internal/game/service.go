package game

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cardforge/backend/internal/config"
	"github.com/cardforge/backend/internal/models"
)

// Precondition failures. The connection layer discards these (the player gets
// no explicit error); tests assert on them directly.
var (
	ErrDeckNotFound   = errors.New("deck not found")
	ErrRunActive      = errors.New("run already active for this format and side")
	ErrNoActiveRun    = errors.New("no active run for this format and side")
	ErrNotParticipant = errors.New("requester is not a match participant")
	ErrWrongStage     = errors.New("action not valid at current inactivity stage")
	ErrNoGrantsLeft   = errors.New("no extra-time grants remaining")
)

// Service is the ladder core: matchmaking queue, wait-time tracking, and the
// per-match inactivity machinery, wired to its external collaborators.
type Service struct {
	cfg      *config.Config
	store    RunStore
	stats    StatsStore
	rules    RulesEngine
	manager  *Manager
	notifier Notifier
	queue    *MatchQueue
	waits    *WaitTracker
}

func NewService(cfg *config.Config, store RunStore, stats StatsStore, rules RulesEngine, manager *Manager, notifier Notifier) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		stats:    stats,
		rules:    rules,
		manager:  manager,
		notifier: notifier,
		queue:    NewMatchQueue(),
		waits:    NewWaitTracker(),
	}
}

// Manager exposes the live-match registry
func (s *Service) Manager() *Manager { return s.manager }

// Queue exposes the matchmaking queue
func (s *Service) Queue() *MatchQueue { return s.queue }

// Waits exposes the queue wait-time tracker
func (s *Service) Waits() *WaitTracker { return s.waits }

// StartRun begins a new ladder run for the deck's format and side, unless one
// is already active.
func (s *Service) StartRun(ctx context.Context, playerID int, username string, deckID int) error {
	deck, err := s.store.GetDeckByID(ctx, playerID, deckID)
	if err != nil {
		return err
	}
	if deck == nil {
		return ErrDeckNotFound
	}

	existing, err := s.store.ActiveRun(ctx, playerID, deck.Format, deck.Side)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrRunActive
	}

	run, err := s.store.StartRun(ctx, playerID, username, deck)
	if err != nil {
		return err
	}
	log.Printf("[LADDER] Run %d started: %s %s/%s", run.ID, username, deck.Format, deck.Side)
	return nil
}

// AbandonRun ends the active run for the deck's format and side. The player
// is also removed from the queue if waiting on that run.
func (s *Service) AbandonRun(ctx context.Context, playerID int, username string, deckID int) error {
	deck, err := s.store.GetDeckByID(ctx, playerID, deckID)
	if err != nil {
		return err
	}
	if deck == nil {
		return ErrDeckNotFound
	}

	run, err := s.store.ActiveRun(ctx, playerID, deck.Format, deck.Side)
	if err != nil {
		return err
	}
	if run == nil {
		return ErrNoActiveRun
	}

	if err := s.store.FinishRun(ctx, run.ID, models.RunAbandoned); err != nil {
		return err
	}
	s.queue.Dequeue(username)

	log.Printf("[LADDER] Run %d abandoned: %s %s/%s", run.ID, username, deck.Format, deck.Side)
	if s.notifier != nil {
		s.notifier.SendTo([]string{username}, "run-updated", map[string]interface{}{
			"format": deck.Format,
			"side":   deck.Side,
			"status": models.RunAbandoned,
		})
	}
	return nil
}

// EnterQueue puts the player into matchmaking for the deck's format and side.
// If a mutually eligible opponent is already waiting, the pair is launched
// immediately; otherwise the player waits until matched or dequeued.
func (s *Service) EnterQueue(ctx context.Context, playerID int, username string, deckID int, connID string) error {
	if s.queue.Contains(username) {
		return nil // already waiting; enqueue is idempotent per user
	}

	deck, err := s.store.GetDeckByID(ctx, playerID, deckID)
	if err != nil {
		return err
	}
	if deck == nil {
		return ErrDeckNotFound
	}

	run, err := s.store.ActiveRun(ctx, playerID, deck.Format, deck.Side)
	if err != nil {
		return err
	}
	if run == nil {
		return ErrNoActiveRun
	}

	games, err := s.store.RunGames(ctx, run.ID)
	if err != nil {
		return err
	}
	snapshot := RunSnapshot{RunID: run.ID}
	for _, g := range games {
		snapshot.Games = append(snapshot.Games, GameRecord{Opponent: g.Opponent, Winner: g.Winner.String})
	}

	blocked, err := s.store.BlockList(ctx, playerID)
	if err != nil {
		return err
	}
	blockSet := make(map[string]bool, len(blocked))
	for _, b := range blocked {
		blockSet[b] = true
	}

	entry := &QueueEntry{
		Username:   username,
		PlayerID:   playerID,
		Format:     deck.Format,
		Side:       Side(deck.Side),
		DeckID:     deckID,
		Run:        snapshot,
		Blocked:    blockSet,
		ConnID:     connID,
		EnqueuedAt: time.Now(),
	}

	opponent := s.queue.TakeMatch(entry)
	if opponent == nil {
		s.queue.Enqueue(entry)
		log.Printf("[MATCHMAKER] %s queued: %s/%s (waiting=%d)", username, deck.Format, deck.Side, s.queue.Len())
		return nil
	}

	s.launch(ctx, entry, opponent)
	return nil
}

// LeaveQueue removes the player from matchmaking. Idempotent; a waiting
// player may leave at any time before a match is found, with no side effects.
func (s *Service) LeaveQueue(username string) {
	s.queue.Dequeue(username)
}
