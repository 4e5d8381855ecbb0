package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/task-tracker-api/internal/container"
	handlers "github.com/oksasatya/task-tracker-api/internal/interface/http"
	"github.com/oksasatya/task-tracker-api/internal/interface/middleware"
)

// AuthModule wires the public credential endpoints.
// Public: POST /signup, POST /login
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/login", loginLimiter, m.Handler.Login)
}
