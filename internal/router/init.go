package router

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/task-tracker-api/config"
	"github.com/oksasatya/task-tracker-api/internal/application"
	"github.com/oksasatya/task-tracker-api/internal/container"
	"github.com/oksasatya/task-tracker-api/internal/domain/policy"
	handlers "github.com/oksasatya/task-tracker-api/internal/interface/http"
	"github.com/oksasatya/task-tracker-api/internal/interface/middleware"
	"github.com/oksasatya/task-tracker-api/internal/router/modules"
)

// NewEngine builds the Gin engine with the global middleware chain.
// Forwarding headers are trusted only from cfg's trusted proxies.
func NewEngine(cfg *config.Config) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.TrustedPlatform = trustedPlatform(cfg.TrustedPlatform)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	return r, nil
}

func trustedPlatform(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return ""
	case "cloudflare":
		return gin.PlatformCloudflare
	case "google", "appengine":
		return gin.PlatformGoogleAppEngine
	default:
		return name
	}
}

type AppDeps struct {
	Auth    *application.AuthService
	Session *application.SessionVerifier
	Tasks   *application.TaskService
}

func buildAppDeps() AppDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	users := container.GetUsers()

	auth := application.NewAuthService(users, container.GetJWT(), logger, application.AuthOptions{
		PasswordCost:            cfg.BcryptCost,
		AllowSelfAssignedRole:   cfg.AllowSelfAssignedRole,
		UnifiedCredentialErrors: cfg.UnifiedCredentialErrors,
	})
	session := application.NewSessionVerifier(users, container.GetJWT(), logger)

	var events application.ActivityPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		events = pub
	}
	tasks := application.NewTaskService(
		container.GetTasks(),
		users,
		policy.Policy{AdminMayActOnAdminOwned: cfg.AdminMayActOnAdminOwned},
		events,
		logger,
	)
	return AppDeps{Auth: auth, Session: session, Tasks: tasks}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildAppDeps()
	logger := container.GetLogger()

	r.Add(modules.NewDebugModule(container.GetConfig().DebugMetricsEnabled))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(deps.Auth, logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(), deps.Session))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(deps.Tasks, logger), deps.Session))
}
