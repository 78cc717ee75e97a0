package game

import (
	"context"
	"log"
	"time"
)

// launch turns a successful pairing into a live match: records wait samples,
// creates the match in the lobby registry, registers the pairing against both
// run histories, and notifies both connections. The run-history writes are
// best-effort: a partial failure is logged and the launch proceeds, it is not
// retried.
func (s *Service) launch(ctx context.Context, a, b *QueueEntry) {
	now := time.Now()
	s.waits.Record(a.Format, a.Side, now.Sub(a.EnqueuedAt))
	s.waits.Record(b.Format, b.Side, now.Sub(b.EnqueuedAt))

	corp, runner := a, b
	if corp.Side != SideCorp {
		corp, runner = b, a
	}

	m := s.manager.CreateMatch(a.Format, &Participant{
		Username: corp.Username,
		PlayerID: corp.PlayerID,
		Side:     SideCorp,
		RunID:    corp.Run.RunID,
		ConnID:   corp.ConnID,
		Present:  true,
	}, &Participant{
		Username: runner.Username,
		PlayerID: runner.PlayerID,
		Side:     SideRunner,
		RunID:    runner.Run.RunID,
		ConnID:   runner.ConnID,
		Present:  true,
	})

	if err := s.store.RecordMatch(ctx, a.Run.RunID, m.ID, b.Username); err != nil {
		log.Printf("[MATCHMAKER] Failed to record pairing for %s (run %d, match %s): %v", a.Username, a.Run.RunID, m.ID, err)
	}
	if err := s.store.RecordMatch(ctx, b.Run.RunID, m.ID, a.Username); err != nil {
		log.Printf("[MATCHMAKER] Failed to record pairing for %s (run %d, match %s): %v", b.Username, b.Run.RunID, m.ID, err)
	}

	log.Printf("[MATCHMAKER] Matched %s (%s) vs %s (%s): %s", a.Username, a.Side, b.Username, b.Side, m.ID)

	if s.notifier != nil {
		payload := map[string]interface{}{"match_id": m.ID, "format": m.Format}
		s.notifier.SendTo([]string{a.ConnID, b.ConnID}, "match-found", payload)
	}
	s.manager.PublishMatchState(m, "match_created")
}
