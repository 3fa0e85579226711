package main

import (
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/qs3c/subtrack_go_server/config"
	"github.com/qs3c/subtrack_go_server/internal/database"
	"github.com/qs3c/subtrack_go_server/internal/pkg/cron"
	"github.com/qs3c/subtrack_go_server/internal/pkg/logger"
	"github.com/qs3c/subtrack_go_server/internal/repository"
	"github.com/qs3c/subtrack_go_server/internal/service"
)

var dryRun = flag.Bool("dry-run", true, "only count overdue subscriptions, don't mark them expired")

// 一次性执行过期清理，适合由外部调度器触发
func main() {
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl := logger.Must(&cfg.Log)
	defer zl.Sync()

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		zl.Fatal("failed to connect database", zap.Error(err))
	}

	// 只用到过期清理，不需要调度提醒
	subscriptionService := service.NewSubscriptionService(repository.NewSubscriptionRepository(db), nil, cfg, zl)

	count, err := cron.NewService(subscriptionService, cfg.Cron.ExpirySpec, zl).RunNow(*dryRun)
	if err != nil {
		zl.Fatal("expiry sweep failed", zap.Error(err))
	}

	if *dryRun {
		zl.Info("dry run: overdue subscriptions found", zap.Int64("count", count))
		return
	}
	zl.Info("overdue subscriptions expired", zap.Int64("count", count))
}
