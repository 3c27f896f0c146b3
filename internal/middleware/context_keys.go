package middleware

import "github.com/gin-gonic/gin"

// userIDKey stores the authenticated registrar's user ID. The typed key
// avoids collisions with other context values.
const userIDKey = contextKey("userID")

// GetUserIDFromContext returns the authenticated user ID set by
// AuthMiddleware, checking the Gin context first and the request context as a
// fallback (tests set the Gin key directly).
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	if v := c.Request.Context().Value(userIDKey); v != nil {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	return "", false
}
