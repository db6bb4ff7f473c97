package handlers

import (
	"net/http"
	"strings"
	"time"

	"logistics/internal/auth"
	"logistics/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const claimsKey = "claims"

// RequestLogger logs one line per request and turns panics into a 500.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if err := recover(); err != nil {
				logger.Error().
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", err).
					Msg("request panicked")
				c.AbortWithStatusJSON(http.StatusInternalServerError, response{Success: false, Message: "Internal server error"})
			}
		}()

		c.Next()

		username := "anonymous"
		if claims, ok := currentClaims(c); ok {
			username = claims.Username
		}
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("user", username).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}

// RequireAuth accepts a bearer token signed with the API secret. When a
// session store is configured the token's session must still be live.
func (h *APIHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{Success: false, Message: "missing or invalid authorization header"})
			return
		}

		claims, err := auth.ParseToken(h.jwtSecret, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{Success: false, Message: "invalid token"})
			return
		}

		if h.sessions != nil {
			if _, err := h.sessions.GetSession(claims.SessionID()); err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response{Success: false, Message: "session expired"})
				return
			}
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok || models.UserRole(claims.Role) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, response{Success: false, Message: "admin role required"})
			return
		}
		c.Next()
	}
}

func currentClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// actor names the signed-in user in status history rows.
func actor(c *gin.Context) string {
	if claims, ok := currentClaims(c); ok {
		return claims.Username
	}
	return "system"
}
