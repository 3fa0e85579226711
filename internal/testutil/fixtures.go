package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/subtrack_go_server/internal/model"
)

var seq int64

func next() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := next()
	user := &model.User{
		Name:         fmt.Sprintf("testuser_%d", n),
		Email:        fmt.Sprintf("test_%d_%d@example.com", n, time.Now().UnixNano()),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithName 设置用户名
func WithName(name string) func(*model.User) {
	return func(u *model.User) {
		u.Name = name
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithPasswordHash 设置密码哈希
func WithPasswordHash(hash string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = hash
	}
}

// TestSubscription 创建测试订阅，默认月付且 10 天后续费
func TestSubscription(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	sub := &model.Subscription{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Subscription %d", next()),
		Price:         9.99,
		Currency:      "USD",
		Frequency:     model.FrequencyMonthly,
		Category:      "entertainment",
		PaymentMethod: "credit card",
		Status:        model.SubscriptionStatusActive,
		StartDate:     now.AddDate(0, 0, -20),
		RenewalDate:   now.AddDate(0, 0, 10),
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithStatus 设置订阅状态
func WithStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// WithRenewalDate 设置续费日期
func WithRenewalDate(renewal time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.RenewalDate = renewal
	}
}

// WithSubscriptionName 设置订阅名称
func WithSubscriptionName(name string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Name = name
	}
}

// WithFrequency 设置续费频率
func WithFrequency(frequency string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Frequency = frequency
	}
}
