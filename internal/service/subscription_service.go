package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs3c/subtrack_go_server/config"
	"github.com/qs3c/subtrack_go_server/internal/model"
	"github.com/qs3c/subtrack_go_server/internal/model/dto"
	"github.com/qs3c/subtrack_go_server/internal/repository"
	"github.com/qs3c/subtrack_go_server/internal/workflow"
)

// ReminderScheduler 启动和终止订阅的提醒工作流，由 workflow.Scheduler 实现
type ReminderScheduler interface {
	Schedule(ctx context.Context, subscriptionID int64) (*workflow.Execution, error)
	Cancel(ctx context.Context, subscriptionID int64) error
}

type SubscriptionService struct {
	subRepo   *repository.SubscriptionRepository
	scheduler ReminderScheduler
	cfg       *config.Config
	logger    *zap.Logger
	now       func() time.Time
}

func NewSubscriptionService(
	subRepo *repository.SubscriptionRepository,
	scheduler ReminderScheduler,
	cfg *config.Config,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:   subRepo,
		scheduler: scheduler,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Create 创建订阅，有效订阅会立即启动提醒工作流
func (s *SubscriptionService) Create(ctx context.Context, userID int64, req *dto.CreateSubscriptionRequest) (*model.Subscription, error) {
	now := s.now()

	category := strings.ToLower(strings.TrimSpace(req.Category))
	if !model.Contains(model.Categories, category) {
		return nil, ErrInvalidCategory
	}
	if req.StartDate.After(now) {
		return nil, ErrInvalidStartDate
	}

	sub := &model.Subscription{
		UserID:        userID,
		Name:          strings.TrimSpace(req.Name),
		Price:         req.Price,
		Currency:      req.Currency,
		Frequency:     req.Frequency,
		Category:      category,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Status:        model.SubscriptionStatusActive,
		StartDate:     req.StartDate.UTC(),
	}
	if sub.Currency == "" {
		sub.Currency = "USD"
	}

	if req.RenewalDate != nil {
		sub.RenewalDate = req.RenewalDate.UTC()
	} else {
		sub.ComputeRenewalDate()
	}
	if !sub.RenewalDate.After(sub.StartDate) {
		return nil, ErrInvalidRenewalDate
	}

	// 续费日期已过直接标记为过期
	if sub.RenewalDate.Before(now) {
		sub.Status = model.SubscriptionStatusExpired
	}

	if err := s.subRepo.Create(sub); err != nil {
		return nil, err
	}

	if sub.IsActive() {
		s.schedule(ctx, sub.ID)
	}
	return sub, nil
}

// Get 获取单个订阅
func (s *SubscriptionService) Get(userID, id int64) (*model.Subscription, error) {
	return s.getOwned(userID, id)
}

// ListMine 获取当前用户的订阅
func (s *SubscriptionService) ListMine(userID int64) ([]*model.Subscription, error) {
	return s.subRepo.ListByUserID(userID)
}

// ListByUser 获取指定用户的订阅，只能查看自己
func (s *SubscriptionService) ListByUser(requesterID, userID int64) ([]*model.Subscription, error) {
	if requesterID != userID {
		return nil, ErrPermissionDenied
	}
	return s.subRepo.ListByUserID(userID)
}

// Update 修改允许修改的字段；频率变化时重新计算续费日期并重新调度提醒
func (s *SubscriptionService) Update(ctx context.Context, userID, id int64, req *dto.UpdateSubscriptionRequest) (*model.Subscription, error) {
	if req.Empty() {
		return nil, ErrNoUpdateFields
	}

	sub, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*req.Category))
		if !model.Contains(model.Categories, category) {
			return nil, ErrInvalidCategory
		}
		sub.Category = category
	}
	if req.Name != nil {
		sub.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		sub.Price = *req.Price
	}
	if req.Currency != nil {
		sub.Currency = *req.Currency
	}
	if req.PaymentMethod != nil {
		sub.PaymentMethod = strings.TrimSpace(*req.PaymentMethod)
	}

	renewalChanged := false
	if req.Frequency != nil {
		previous := sub.RenewalDate
		sub.Frequency = *req.Frequency
		sub.ComputeRenewalDate()
		renewalChanged = !sub.RenewalDate.Equal(previous)
		if sub.IsActive() && sub.RenewalDate.Before(s.now()) {
			sub.Status = model.SubscriptionStatusExpired
		}
	}

	if err := s.subRepo.Update(sub); err != nil {
		return nil, err
	}

	if renewalChanged {
		if sub.IsActive() {
			s.schedule(ctx, sub.ID)
		} else {
			s.cancel(ctx, sub.ID)
		}
	}
	return sub, nil
}

// Delete 删除订阅并终止提醒
func (s *SubscriptionService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.getOwned(userID, id); err != nil {
		return err
	}
	if err := s.subRepo.Delete(id); err != nil {
		return err
	}
	s.cancel(ctx, id)
	return nil
}

// Cancel 取消订阅并终止提醒
func (s *SubscriptionService) Cancel(ctx context.Context, userID, id int64) (*model.Subscription, error) {
	sub, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}

	sub.Status = model.SubscriptionStatusCancelled
	if err := s.subRepo.UpdateStatus(id, sub.Status); err != nil {
		return nil, err
	}
	s.cancel(ctx, id)
	return sub, nil
}

// UpcomingRenewals 未来一段时间内续费的有效订阅，按续费日期升序
func (s *SubscriptionService) UpcomingRenewals(userID int64) ([]*model.Subscription, error) {
	days := s.cfg.Reminder.UpcomingWindowDays
	if days <= 0 {
		days = 7
	}
	now := s.now()
	return s.subRepo.ListUpcoming(userID, now, now.AddDate(0, 0, days))
}

// StartReminder 手动启动提醒工作流
func (s *SubscriptionService) StartReminder(ctx context.Context, userID, id int64) (*workflow.Execution, error) {
	sub, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}
	if !sub.IsActive() {
		return nil, ErrSubscriptionInactive
	}
	exec, err := s.scheduler.Schedule(ctx, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReminderUnavailable, err)
	}
	return exec, nil
}

// ExpireOverdue 将续费日期已过的订阅标记为过期，由定时任务调用
func (s *SubscriptionService) ExpireOverdue(dryRun bool) (int64, error) {
	now := s.now()
	if dryRun {
		return s.subRepo.CountOverdue(now)
	}
	return s.subRepo.ExpireOverdue(now)
}

func (s *SubscriptionService) getOwned(userID, id int64) (*model.Subscription, error) {
	sub, err := s.subRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	if sub.UserID != userID {
		return nil, ErrPermissionDenied
	}
	return sub, nil
}

// 提醒调度失败不影响订阅本身的读写
func (s *SubscriptionService) schedule(ctx context.Context, id int64) {
	exec, err := s.scheduler.Schedule(ctx, id)
	if err != nil {
		s.logger.Warn("failed to schedule reminders", zap.Int64("subscription_id", id), zap.Error(err))
		return
	}
	s.logger.Info("reminders scheduled",
		zap.Int64("subscription_id", id),
		zap.String("workflow_id", exec.WorkflowID),
		zap.String("run_id", exec.RunID))
}

func (s *SubscriptionService) cancel(ctx context.Context, id int64) {
	if err := s.scheduler.Cancel(ctx, id); err != nil {
		s.logger.Warn("failed to cancel reminders", zap.Int64("subscription_id", id), zap.Error(err))
	}
}
