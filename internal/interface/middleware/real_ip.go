package middleware

import (
	"github.com/gin-gonic/gin"
)

// RealIP sets the client IP into Gin context (key: "real_ip").
// Forwarding headers are honored only as far as the engine's trusted proxies
// and TrustedPlatform allow; from any other peer the socket address is used.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}
