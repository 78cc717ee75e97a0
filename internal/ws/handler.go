package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"

	"github.com/cardforge/backend/internal/config"
	"github.com/cardforge/backend/internal/game"
)

// Ladder actions carried over the persistent connection
const (
	ActionStartRun     = "start-run"
	ActionAbandonRun   = "abandon-run"
	ActionQueue        = "queue"
	ActionDequeue      = "dequeue"
	ActionMoreTime     = "more-time"
	ActionClaimVictory = "claim-victory"
	ActionCancelMatch  = "cancel-match"
)

// ActionMessage is one inbound player action
type ActionMessage struct {
	Action  string `json:"action"`
	DeckID  int    `json:"deck_id,omitempty"`
	MatchID string `json:"match_id,omitempty"`
}

// HandleLadderSocket upgrades an authenticated connection and pumps ladder
// actions into the service
func HandleLadderSocket(svc *game.Service, hub *Hub, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, username, err := authenticate(c, cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error for %s: %v", username, err)
			return
		}

		client := &Client{
			conn:     conn,
			username: username,
			playerID: playerID,
			send:     make(chan []byte, 256),
		}
		hub.register <- client

		// Rejoin a live match after a reconnect
		if m, err := svc.Manager().MatchForPlayer(username); err == nil {
			m.SetPresence(username, true)
			hub.AddToRoom(m.ID, []string{username})
		}

		go client.writePump()
		go client.readPump(svc, hub)
	}
}

// readPump reads player actions until the connection drops
func (c *Client) readPump(svc *game.Service, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.conn.Close()
		c.onDisconnect(svc)
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Read error for %s: %v", c.username, err)
			}
			return
		}

		var msg ActionMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("[WS] Invalid message from %s: %v", c.username, err)
			continue
		}
		c.dispatch(svc, msg)
	}
}

// dispatch routes one action. Failed preconditions and collaborator errors
// are logged and dropped; the player gets no explicit error.
func (c *Client) dispatch(svc *game.Service, msg ActionMessage) {
	ctx := context.Background()

	var err error
	switch msg.Action {
	case ActionStartRun:
		err = svc.StartRun(ctx, c.playerID, c.username, msg.DeckID)
	case ActionAbandonRun:
		err = svc.AbandonRun(ctx, c.playerID, c.username, msg.DeckID)
	case ActionQueue:
		err = svc.EnterQueue(ctx, c.playerID, c.username, msg.DeckID, c.username)
	case ActionDequeue:
		svc.LeaveQueue(c.username)
	case ActionMoreTime:
		err = svc.RequestMoreTime(ctx, msg.MatchID, c.username)
	case ActionClaimVictory:
		err = svc.ClaimVictory(ctx, msg.MatchID, c.username)
	case ActionCancelMatch:
		err = svc.CancelMatch(ctx, msg.MatchID, c.username)
	default:
		log.Printf("[WS] Unknown action %q from %s", msg.Action, c.username)
		return
	}

	if err != nil {
		log.Printf("[WS] Action %s from %s dropped: %v", msg.Action, c.username, err)
	}
}

// onDisconnect aborts any queue wait and marks the player absent from their
// live match so the monitor can pick it up
func (c *Client) onDisconnect(svc *game.Service) {
	svc.LeaveQueue(c.username)
	if m, err := svc.Manager().MatchForPlayer(c.username); err == nil {
		m.SetPresence(c.username, false)
	}
}

// authenticate validates the bearer or query-param JWT and extracts identity
func authenticate(c *gin.Context, cfg *config.Config) (int, string, error) {
	token := c.Query("token")
	if token == "" {
		auth := c.GetHeader("Authorization")
		token = strings.TrimPrefix(auth, "Bearer ")
	}
	if token == "" {
		return 0, "", fmt.Errorf("missing token")
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid claims")
	}
	playerIDf, ok := claims["player_id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid claims")
	}
	username, ok := claims["username"].(string)
	if !ok {
		return 0, "", fmt.Errorf("invalid claims")
	}
	return int(playerIDf), username, nil
}
