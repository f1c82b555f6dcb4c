package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nzvirtual/api/internal/ports"
)

const (
	CookieName = "auth"
	UserIDKey  = "UserID"
)

// TokenFromRequest reads a bearer token from the Authorization header,
// falling back to the auth cookie.
func TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}

func AuthMiddleware(providerJWT ports.JWT, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			logger.Debug("authorization failed: no token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization failed: no token"})
			return
		}

		userID, err := CheckToken(tokenString, providerJWT, logger)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization failed: invalid token"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
