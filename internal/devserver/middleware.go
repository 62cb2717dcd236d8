package devserver

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// authMiddleware validates the bearer access token and stores the caller's
// identity in the request context.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondError(c, 401, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(c, 401, "invalid authorization format")
			c.Abort()
			return
		}

		claims, err := s.tokens.Validate(parts[1], "access")
		if err != nil {
			respondError(c, 401, "unauthorized")
			c.Abort()
			return
		}
		if _, err := s.store.User(claims.UserID); err != nil {
			respondError(c, 401, "unauthorized")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// currentUserID extracts the authenticated user id from the gin context
func currentUserID(c *gin.Context) string {
	id, _ := c.Get("user_id")
	s, _ := id.(string)
	return s
}
