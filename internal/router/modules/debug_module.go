package modules

import (
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/task-tracker-api/internal/container"
	"github.com/oksasatya/task-tracker-api/internal/interface/middleware"
	"github.com/oksasatya/task-tracker-api/pkg/response"
)

// DebugModule serves expvar counters and a liveness probe.
type DebugModule struct {
	Metrics bool
}

func NewDebugModule(metrics bool) *DebugModule { return &DebugModule{Metrics: metrics} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "ok", nil)
	})
	if !m.Metrics {
		return
	}
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
