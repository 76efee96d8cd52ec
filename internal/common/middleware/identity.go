package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/features/user/models"
	"recycle-rewards-backend/internal/features/user/service"
)

// Identity resolves the authenticated user ID (established upstream by the
// application gateway) into a full user record on the request context.
// Authentication itself is not this service's concern.
func Identity(userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: X-User-ID required"})
			return
		}

		user, err := userService.GetUser(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: unknown user"})
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// CurrentUser returns the user resolved by Identity, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get("user"); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// RequireRole restricts a route group to one role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if user.Role != role && user.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			return
		}
		c.Next()
	}
}
