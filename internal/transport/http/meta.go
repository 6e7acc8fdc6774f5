package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-ai/backend/internal/domain"
	"github.com/iamasit07/connect4-ai/backend/internal/service/session"
)

type MetaHandler struct {
	SessionManager *session.Manager
	Rules          domain.Rules
}

func NewMetaHandler(sm *session.Manager, rules domain.Rules) *MetaHandler {
	return &MetaHandler{SessionManager: sm, Rules: rules}
}

func (h *MetaHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"activeSessions": h.SessionManager.Count(),
	})
}

// Themes lists the palettes and opponents a client can pick from.
func (h *MetaHandler) Themes(c *gin.Context) {
	opponents := make([]gin.H, 0, len(domain.BotNames))
	for _, d := range []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard} {
		opponents = append(opponents, gin.H{"difficulty": d, "name": domain.GetBotName(d)})
	}

	c.JSON(http.StatusOK, gin.H{
		"themes":    domain.Themes,
		"opponents": opponents,
		"board": gin.H{
			"rows":      h.Rules.Rows,
			"columns":   h.Rules.Columns,
			"winLength": h.Rules.WinLength,
		},
	})
}
