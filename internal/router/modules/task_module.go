package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/task-tracker-api/internal/container"
	handlers "github.com/oksasatya/task-tracker-api/internal/interface/http"
	"github.com/oksasatya/task-tracker-api/internal/interface/middleware"
)

// TaskModule wires the task endpoints. Every route requires a session.
// Protected: GET/POST /tasks, GET/PATCH/DELETE /tasks/:id
type TaskModule struct {
	Handler  *handlers.TaskHandler
	Verifier middleware.SessionVerifier
}

func NewTaskModule(h *handlers.TaskHandler, verifier middleware.SessionVerifier) *TaskModule {
	return &TaskModule{Handler: h, Verifier: verifier}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.Use(
		middleware.Auth(m.Verifier),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		tasks.GET("", m.Handler.List)
		tasks.POST("", m.Handler.Create)
		tasks.GET("/:id", m.Handler.Get)
		tasks.PATCH("/:id", m.Handler.Update)
		tasks.DELETE("/:id", m.Handler.Delete)
	}
}
