package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/qs3c/subtrack_go_server/config"
	"github.com/qs3c/subtrack_go_server/internal/api"
	"github.com/qs3c/subtrack_go_server/internal/api/handler"
	"github.com/qs3c/subtrack_go_server/internal/database"
	"github.com/qs3c/subtrack_go_server/internal/pkg/logger"
	"github.com/qs3c/subtrack_go_server/internal/pkg/pubsub"
	"github.com/qs3c/subtrack_go_server/internal/pkg/ws"
	"github.com/qs3c/subtrack_go_server/internal/pkg/zapadapter"
	"github.com/qs3c/subtrack_go_server/internal/repository"
	"github.com/qs3c/subtrack_go_server/internal/service"
	"github.com/qs3c/subtrack_go_server/internal/workflow"
)

var configPath = flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "path to config file")

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zl.Sync()

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		zl.Fatal("failed to connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("failed to migrate database", zap.Error(err))
	}
	zl.Info("database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		zl.Fatal("failed to connect redis", zap.Error(err))
	}
	zl.Info("redis connected")

	// Temporal 客户端延迟连接，不可用时订阅接口仍可读写
	tc, err := client.NewLazyClient(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    zapadapter.NewZapAdapter(zl),
	})
	if err != nil {
		zl.Fatal("failed to create temporal client", zap.Error(err))
	}
	defer tc.Close()

	scheduler := workflow.NewScheduler(tc, cfg.Temporal.TaskQueue, cfg.Reminder.LeadTimes(), cfg.Reminder.Timezone)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// WebSocket Hub，转发 worker 发布的提醒事件
	wsHub := ws.NewHub(zl)
	go func() {
		if err := wsHub.Forward(ctx, pubsub.NewSubscriber(rdb)); err != nil && !errors.Is(err, context.Canceled) {
			zl.Error("reminder event forwarding stopped", zap.Error(err))
		}
	}()

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo)
	subscriptionService := service.NewSubscriptionService(subRepo, scheduler, cfg, zl)

	// 初始化 Router
	router := api.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewSubscriptionHandler(subscriptionService),
		handler.NewWorkflowHandler(subscriptionService),
		handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret, cfg.CORS.AllowedOrigins, zl),
		cfg,
		zl,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
