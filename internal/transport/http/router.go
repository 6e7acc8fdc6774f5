package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-ai/backend/internal/service/session"
	"github.com/iamasit07/connect4-ai/backend/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-ai/backend/pkg/auth"
)

type RouterDeps struct {
	SessionHandler   *SessionHandler
	MetaHandler      *MetaHandler
	SessionManager   *session.Manager
	Issuer           *auth.TokenIssuer
	AllowedOrigins   []string
	WebSocketHandler gin.HandlerFunc
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	// Public Routes
	router.GET("/health", deps.MetaHandler.Health)
	router.GET("/api/themes", deps.MetaHandler.Themes)
	router.POST("/api/sessions", deps.SessionHandler.CreateSession)

	// Session Routes
	protected := router.Group("/api/session")
	protected.Use(middleware.AuthMiddleware(deps.Issuer, deps.SessionManager))
	{
		protected.GET("", deps.SessionHandler.GetSession)
		protected.POST("/theme", deps.SessionHandler.SelectTheme)
		protected.POST("/difficulty", deps.SessionHandler.SelectDifficulty)
		protected.POST("/move", deps.SessionHandler.MakeMove)
		protected.POST("/restart", deps.SessionHandler.Restart)
		protected.DELETE("", deps.SessionHandler.EndSession)
	}

	// WebSocket Route (auth handled inside the WS handler itself)
	if deps.WebSocketHandler != nil {
		router.GET("/ws", deps.WebSocketHandler)
	}

	return router
}
