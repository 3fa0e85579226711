package cron

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Expirer 将续费日期已过的订阅标记为过期，由 SubscriptionService 实现
type Expirer interface {
	ExpireOverdue(dryRun bool) (int64, error)
}

type Service struct {
	cron    *cron.Cron
	expirer Expirer
	spec    string
	logger  *zap.Logger
}

func NewService(expirer Expirer, spec string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger.Sugar()}
	return &Service{
		cron:    cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		expirer: expirer,
		spec:    spec,
		logger:  logger,
	}
}

// Start 注册过期清理任务并启动调度
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runExpirySweep); err != nil {
		return fmt.Errorf("failed to schedule expiry sweep %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("cron service started", zap.String("expiry_spec", s.spec))
	return nil
}

// Stop 停止调度，返回的 ctx 在运行中的任务结束后关闭
func (s *Service) Stop() context.Context {
	ctx := s.cron.Stop()
	s.logger.Info("cron service stopped")
	return ctx
}

// RunNow 立即执行一次过期清理
func (s *Service) RunNow(dryRun bool) (int64, error) {
	return s.expirer.ExpireOverdue(dryRun)
}

func (s *Service) runExpirySweep() {
	count, err := s.expirer.ExpireOverdue(false)
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("expiry sweep completed", zap.Int64("expired", count))
}

// cronLogger 将 robfig/cron 的日志接口接到 zap
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
