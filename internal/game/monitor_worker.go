package game

import (
	"context"
	"log"
	"time"
)

// StartInactivityMonitor runs the recurring sweep over all live ladder
// matches until the context is cancelled
func (s *Service) StartInactivityMonitor(ctx context.Context) {
	interval := time.Duration(s.cfg.InactivitySweepSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[MONITOR] Starting inactivity monitor (sweep every %v)", interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[MONITOR] Inactivity monitor stopped")
			return
		case <-ticker.C:
			s.CheckInactivity(time.Now())
		}
	}
}
