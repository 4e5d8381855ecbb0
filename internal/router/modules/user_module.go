package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/task-tracker-api/internal/container"
	handlers "github.com/oksasatya/task-tracker-api/internal/interface/http"
	"github.com/oksasatya/task-tracker-api/internal/interface/middleware"
)

// UserModule exposes the caller's own profile.
// Protected: GET /me
type UserModule struct {
	Handler  *handlers.UserHandler
	Verifier middleware.SessionVerifier
}

func NewUserModule(h *handlers.UserHandler, verifier middleware.SessionVerifier) *UserModule {
	return &UserModule{Handler: h, Verifier: verifier}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.GET("/me",
		middleware.Auth(m.Verifier),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
		m.Handler.Me,
	)
}
