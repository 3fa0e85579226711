package main

import (
	"flag"
	"log"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/qs3c/subtrack_go_server/config"
	"github.com/qs3c/subtrack_go_server/internal/database"
	"github.com/qs3c/subtrack_go_server/internal/ledger"
	"github.com/qs3c/subtrack_go_server/internal/notify"
	"github.com/qs3c/subtrack_go_server/internal/pkg/cron"
	"github.com/qs3c/subtrack_go_server/internal/pkg/email"
	"github.com/qs3c/subtrack_go_server/internal/pkg/logger"
	"github.com/qs3c/subtrack_go_server/internal/pkg/pubsub"
	"github.com/qs3c/subtrack_go_server/internal/pkg/zapadapter"
	"github.com/qs3c/subtrack_go_server/internal/repository"
	"github.com/qs3c/subtrack_go_server/internal/service"
	"github.com/qs3c/subtrack_go_server/internal/workflow"
)

var (
	configPath = flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "path to config file")
	withCron   = flag.Bool("cron", true, "run the expiry sweep alongside the worker")
)

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
	zl.Info("database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		zl.Fatal("failed to connect redis", zap.Error(err))
	}
	zl.Info("redis connected")

	tc, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    zapadapter.NewZapAdapter(zl),
	})
	if err != nil {
		zl.Fatal("unable to create temporal client", zap.Error(err))
	}
	defer tc.Close()

	subRepo := repository.NewSubscriptionRepository(db)

	// 完成标记存储
	var store ledger.Store
	switch cfg.Reminder.Ledger {
	case config.LedgerDatabase:
		store = ledger.NewDBLedger(repository.NewReminderDeliveryRepository(db))
	default:
		store = ledger.NewRedisLedger(rdb, cfg.Reminder.MarkerTTL())
	}
	zl.Info("reminder ledger ready", zap.String("ledger", cfg.Reminder.Ledger))

	// 邮件结果决定检查点状态，WebSocket 推送失败只记日志
	notifier := notify.Multi{
		notify.NewEmailSink(email.NewService(&cfg.Email)),
		notify.BestEffort("broadcast", notify.NewBroadcaster(pubsub.NewPublisher(rdb)), zl),
	}

	w := worker.New(tc, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflow.ReminderWorkflow)
	w.RegisterActivity(workflow.NewActivities(service.NewSnapshotFetcher(subRepo), store, notifier))

	// 定时将续费日期已过的订阅标记为过期
	if *withCron {
		scheduler := workflow.NewScheduler(tc, cfg.Temporal.TaskQueue, cfg.Reminder.LeadTimes(), cfg.Reminder.Timezone)
		subscriptionService := service.NewSubscriptionService(subRepo, scheduler, cfg, zl)
		cronService := cron.NewService(subscriptionService, cfg.Cron.ExpirySpec, zl)
		if err := cronService.Start(); err != nil {
			zl.Fatal("failed to start cron service", zap.Error(err))
		}
		defer func() { <-cronService.Stop().Done() }()
	}

	zl.Info("worker starting", zap.String("task_queue", cfg.Temporal.TaskQueue))
	if err := w.Run(worker.InterruptCh()); err != nil {
		zl.Fatal("unable to start worker", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
