package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-ai/backend/internal/domain"
	"github.com/iamasit07/connect4-ai/backend/internal/service/game"
	"github.com/iamasit07/connect4-ai/backend/internal/service/session"
	"github.com/iamasit07/connect4-ai/backend/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-ai/backend/pkg/auth"
	"github.com/iamasit07/connect4-ai/backend/pkg/httputil"
)

type SessionHandler struct {
	SessionManager *session.Manager
	ConnManager    session.Disconnector
	Issuer         *auth.TokenIssuer
	Rules          domain.Rules
	TokenTTL       time.Duration
	SecureCookies  bool
}

// NewSessionHandler wires the REST handlers. cm may be nil when no socket
// transport is running.
func NewSessionHandler(sm *session.Manager, cm session.Disconnector, issuer *auth.TokenIssuer, rules domain.Rules, tokenTTL time.Duration, secure bool) *SessionHandler {
	return &SessionHandler{
		SessionManager: sm,
		ConnManager:    cm,
		Issuer:         issuer,
		Rules:          rules,
		TokenTTL:       tokenTTL,
		SecureCookies:  secure,
	}
}

type moveRequest struct {
	Column   *int     `json:"column"`
	X        *float64 `json:"x"`
	CellSize *float64 `json:"cellSize"`
}

type moveResponse struct {
	Moves   []game.MoveResult `json:"moves"`
	Session session.Snapshot  `json:"session"`
}

// CreateSession starts a session in theme selection and hands back its token.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	s, err := h.SessionManager.CreateSession()
	if err != nil {
		log.Printf("[SESSION] Failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	token, err := h.Issuer.GenerateSessionToken(s.ID)
	if err != nil {
		h.SessionManager.RemoveSession(s.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	httputil.SetSessionCookie(c.Writer, token, h.TokenTTL, h.SecureCookies)
	snap := s.Snapshot()
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": s.ID,
		"token":     token,
		"state":     snap.State,
		"session":   snap,
	})
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) SelectTheme(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Theme string `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	snap, err := s.SelectTheme(req.Theme)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *SessionHandler) SelectDifficulty(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Difficulty string `json:"difficulty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	snap, err := s.SelectDifficulty(req.Difficulty)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// MakeMove takes either a column or a pointer position on the drawn board.
// The computer's reply, if any, is applied before responding.
func (h *SessionHandler) MakeMove(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	column, ok := h.resolveColumn(req)
	if !ok {
		respondError(c, domain.ErrInvalidMove)
		return
	}

	results, err := s.Move(column)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, moveResponse{Moves: results, Session: s.Snapshot()})
}

func (h *SessionHandler) Restart(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	snap, err := s.Restart()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// EndSession drops the session and its game.
func (h *SessionHandler) EndSession(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.SessionManager.RemoveSession(s.ID); err != nil {
		respondError(c, err)
		return
	}
	if h.ConnManager != nil {
		h.ConnManager.DisconnectSession(s.ID, "Session ended")
	}
	httputil.ClearSessionCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}

func (h *SessionHandler) resolveColumn(req moveRequest) (int, bool) {
	if req.Column != nil {
		return *req.Column, true
	}
	if req.X != nil && req.CellSize != nil {
		return h.Rules.ColumnFromPixel(*req.X, *req.CellSize)
	}
	return -1, false
}

// respondError maps the domain sentinels onto status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidMove),
		errors.Is(err, domain.ErrColumnFull),
		errors.Is(err, domain.ErrUnknownTheme),
		errors.Is(err, domain.ErrUnknownDifficulty):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrWrongState):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	default:
		log.Printf("[SESSION] Unexpected error: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
