package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/cardforge/backend/internal/game"
)

// matchEvent is the envelope published by the lobby manager on match_events
type matchEvent struct {
	Type      string            `json:"type"`
	MatchID   string            `json:"match_id"`
	Usernames []string          `json:"usernames"`
	State     game.StatePayload `json:"state"`
}

// StartMatchEventSubscriber subscribes to the match_events channel and fans
// the full-state updates out to the participants' connections
func StartMatchEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; match event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, "match_events")
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] match_events subscriber started")
		for msg := range ch {
			var ev matchEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[WS] invalid match event payload: %v", err)
				continue
			}

			switch ev.Type {
			case "match_created":
				hub.AddToRoom(ev.MatchID, ev.Usernames)
				hub.BroadcastToMatch(ev.MatchID, map[string]interface{}{"type": ev.Type, "data": ev.State})

			case "inactivity_update":
				hub.BroadcastToMatch(ev.MatchID, map[string]interface{}{"type": ev.Type, "data": ev.State})

			case "match_over":
				hub.BroadcastToMatch(ev.MatchID, map[string]interface{}{"type": ev.Type, "data": ev.State})
				hub.RemoveRoom(ev.MatchID)

			default:
				log.Printf("[WS] unhandled match event type %q for match %s", ev.Type, ev.MatchID)
			}
		}
	}()
}
