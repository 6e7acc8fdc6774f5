package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-ai/backend/internal/service/session"
	"github.com/iamasit07/connect4-ai/backend/pkg/auth"
	"github.com/iamasit07/connect4-ai/backend/pkg/httputil"
)

const sessionKey = "session"

// AuthMiddleware validates the session token and loads the live session it names.
func AuthMiddleware(issuer *auth.TokenIssuer, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Token (Header, Cookie or Query)
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		// 2. Validate signature and expiry
		claims, err := issuer.ValidateSessionToken(tokenString)
		if err != nil {
			httputil.ClearSessionCookie(c.Writer)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// 3. The game lives in memory, so a valid token can outlive its session
		s, exists := sm.GetSession(claims.SessionID)
		if !exists {
			log.Printf("[SESSION] Token for unknown or evicted session %s", claims.SessionID)
			httputil.ClearSessionCookie(c.Writer)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}

		c.Set(sessionKey, s)
		c.Next()
	}
}

// GetSession returns the session loaded by AuthMiddleware.
func GetSession(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
