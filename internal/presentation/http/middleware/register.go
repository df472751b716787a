package middleware

import (
	"github.com/dukapos/register-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// RegisterIDHeader carries the register identity on every request. Each till
// (browser, terminal) picks a stable id at setup time.
const RegisterIDHeader = "X-Register-ID"

// RegisterMiddleware requires a register id on the request and stores it in
// the Gin context. Cart, checkout and display routes are all scoped by it.
func RegisterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		registerID := c.GetHeader(RegisterIDHeader)
		if registerID == "" {
			response.BadRequest(c, "X-Register-ID header is required")
			c.Abort()
			return
		}

		c.Set("register_id", registerID)
		c.Next()
	}
}

// GetRegisterID retrieves the register id from the Gin context
func GetRegisterID(c *gin.Context) string {
	registerID, exists := c.Get("register_id")
	if !exists {
		return ""
	}
	id, ok := registerID.(string)
	if !ok {
		return ""
	}
	return id
}
