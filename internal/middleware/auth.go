package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell-io/backend/internal/service"
)

const (
	ContextKeyAccountID = "account_id"
	ContextKeyClaims    = "claims"
)

// Validates the session token and resolves the acting account id.
// Soft-deleted accounts pass: their owner still needs to reach the status
// and restore operations.
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format. Use: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		rawID, _ := claims["account_id"].(string)
		accountID, err := uuid.Parse(rawID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ContextKeyAccountID, accountID)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

// AccountID returns the authenticated account id set by RequireAuth.
func AccountID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextKeyAccountID)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := value.(uuid.UUID)

	return id, ok
}
