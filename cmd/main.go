package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/task-tracker-api/config"
	"github.com/oksasatya/task-tracker-api/internal/container"
	"github.com/oksasatya/task-tracker-api/internal/infrastructure/filestore"
	"github.com/oksasatya/task-tracker-api/internal/router"
	"github.com/oksasatya/task-tracker-api/pkg/helpers"
	"github.com/oksasatya/task-tracker-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	// File-backed stores; a corrupt file stops startup instead of serving empty data
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		log.Fatalf("failed to create data dir: %v", err)
	}
	users, err := filestore.NewUserStore(cfg.UsersFile())
	if err != nil {
		log.Fatalf("failed to open user store: %v", err)
	}
	tasks, err := filestore.NewTaskStore(cfg.TasksFile())
	if err != nil {
		log.Fatalf("failed to open task store: %v", err)
	}

	// Redis (optional, rate limiting)
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	} else {
		logger.Info("REDIS_ADDR empty; rate limiting disabled")
	}

	// RabbitMQ (optional, task activity events)
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQActivityQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; task activity events disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// JWT
	jwtManager := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Provide singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetJWT(jwtManager)
	container.SetUsers(users)
	container.SetTasks(tasks)

	r, err := router.NewEngine(cfg)
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}
	reg := router.NewRegistry(r, "/")
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
