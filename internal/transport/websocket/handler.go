package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-ai/backend/internal/domain"
	"github.com/iamasit07/connect4-ai/backend/internal/service/game"
	"github.com/iamasit07/connect4-ai/backend/internal/service/session"
	"github.com/iamasit07/connect4-ai/backend/pkg/auth"
	"github.com/iamasit07/connect4-ai/backend/pkg/httputil"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *session.Manager
	Issuer         *auth.TokenIssuer
	Rules          domain.Rules
	Upgrader       websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. An empty allowedOrigins accepts any origin.
func NewHandler(cm *ConnectionManager, sm *session.Manager, issuer *auth.TokenIssuer, rules domain.Rules, allowedOrigins []string) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Issuer:         issuer,
		Rules:          rules,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket authenticates the session token and upgrades the connection
func (h *Handler) HandleWebSocket(c *gin.Context) {
	tokenString, err := httputil.GetTokenFromRequest(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	claims, err := h.Issuer.ValidateSessionToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	s, exists := h.SessionManager.GetSession(claims.SessionID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(conn, s)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(conn *websocket.Conn, s *session.Session) {
	h.ConnManager.AddConnection(s.ID, conn)
	log.Printf("[WS] Connection opened for session %s", s.ID)

	done := make(chan struct{})
	defer func() {
		close(done)
		log.Printf("[WS] Connection closed for session %s", s.ID)
		h.ConnManager.RemoveConnectionIfMatching(s.ID, conn)
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Keep-alive pinger; WriteControl may run alongside WriteJSON
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	h.sendState(s)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Session %s disconnected unexpectedly: %v", s.ID, err)
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format: %v", err)
			h.sendError(s.ID, "Invalid message format")
			continue
		}

		// the session may have been evicted or ended over REST while the socket stayed open
		if _, exists := h.SessionManager.GetSession(s.ID); !exists {
			h.sendError(s.ID, domain.ErrSessionNotFound.Error())
			return
		}

		h.processMessage(s, msg)
	}
}

func (h *Handler) processMessage(s *session.Session, msg domain.ClientMessage) {
	switch msg.Type {
	case "select_theme":
		if _, err := s.SelectTheme(msg.Theme); err != nil {
			h.sendError(s.ID, err.Error())
			return
		}
		h.sendState(s)

	case "select_difficulty":
		if _, err := s.SelectDifficulty(msg.Difficulty); err != nil {
			h.sendError(s.ID, err.Error())
			return
		}
		h.sendState(s)

	case "make_move":
		h.handleMove(s, msg)

	case "restart":
		if _, err := s.Restart(); err != nil {
			h.sendError(s.ID, err.Error())
			return
		}
		h.sendState(s)

	case "get_state":
		h.sendState(s)

	default:
		h.sendError(s.ID, "Unknown message type: "+msg.Type)
	}
}

func (h *Handler) handleMove(s *session.Session, msg domain.ClientMessage) {
	var column int
	switch {
	case msg.Column != nil:
		column = *msg.Column
	case msg.CellSize > 0:
		col, ok := h.Rules.ColumnFromPixel(msg.X, msg.CellSize)
		if !ok {
			h.sendError(s.ID, domain.ErrInvalidMove.Error())
			return
		}
		column = col
	default:
		h.sendError(s.ID, "Move needs a column or a pointer position")
		return
	}

	results, err := s.Move(column)
	for _, r := range results {
		h.ConnManager.SendMessage(s.ID, domain.ServerMessage{
			Type:   "move_made",
			Column: &r.Column,
			Row:    &r.Row,
			Player: int(r.Piece),
		})
	}
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidMove) && !errors.Is(err, domain.ErrColumnFull) && !errors.Is(err, domain.ErrWrongState) {
			log.Printf("[WS] Move failed for session %s: %v", s.ID, err)
		}
		h.sendError(s.ID, err.Error())
		return
	}

	snap := s.Snapshot()
	if snap.State == game.StateGameOver {
		allowRematch := true
		h.ConnManager.SendMessage(s.ID, domain.ServerMessage{
			Type:         "game_over",
			Message:      snap.Message,
			Board:        snap.Board,
			Outcome:      snap.Outcome,
			MoveCount:    snap.MoveCount,
			AllowRematch: &allowRematch,
		})
	}
	h.ConnManager.SendMessage(s.ID, stateMessage(snap))
}

func (h *Handler) sendState(s *session.Session) {
	h.ConnManager.SendMessage(s.ID, stateMessage(s.Snapshot()))
}

func (h *Handler) sendError(sessionID, message string) {
	h.ConnManager.SendMessage(sessionID, domain.ErrorMessage{Type: "error", Message: message})
}

func stateMessage(snap session.Snapshot) domain.ServerMessage {
	return domain.ServerMessage{
		Type:       "state",
		SessionID:  snap.SessionID,
		State:      string(snap.State),
		Theme:      snap.Theme,
		Difficulty: snap.Difficulty,
		Opponent:   snap.Opponent,
		Board:      snap.Board,
		Outcome:    snap.Outcome,
		Message:    snap.Message,
		MoveCount:  snap.MoveCount,
	}
}
