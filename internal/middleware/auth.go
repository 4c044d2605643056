package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"realtyshare/internal/models"
	"realtyshare/internal/repositories"
)

// AuthMiddleware resolves the Authorization header to a user id.
func AuthMiddleware(tokenRepo repositories.TokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		userID, err := tokenRepo.ResolveToken(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// AdminMiddleware allows only callers whose profile carries the admin role.
// It must run after AuthMiddleware.
func AdminMiddleware(profileRepo repositories.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt("userID")
		profile, err := profileRepo.GetProfile(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
			return
		}
		if profile.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}
