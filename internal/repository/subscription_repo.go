package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/subtrack_go_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetByIDWithUser 连同所属用户一起查询，提醒流程需要用户的名字和邮箱
func (r *SubscriptionRepository) GetByIDWithUser(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Preload("User").Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Update(sub *model.Subscription) error {
	return r.db.Omit("User").Save(sub).Error
}

func (r *SubscriptionRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).Update("status", status).Error
}

func (r *SubscriptionRepository) Delete(id int64) error {
	return r.db.Delete(&model.Subscription{}, id).Error
}

// ListByUserID 获取用户的全部订阅，按续费日期升序
func (r *SubscriptionRepository) ListByUserID(userID int64) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Where("user_id = ?", userID).Order("renewal_date ASC").Find(&subs).Error
	return subs, err
}

// ListUpcoming 获取 [from, to] 之间续费的有效订阅
func (r *SubscriptionRepository) ListUpcoming(userID int64, from, to time.Time) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Where("user_id = ? AND status = ? AND renewal_date >= ? AND renewal_date <= ?",
		userID, model.SubscriptionStatusActive, from.UTC(), to.UTC()).
		Order("renewal_date ASC").
		Find(&subs).Error
	return subs, err
}

// CountOverdue 统计续费日期已过但仍为 active 的订阅
func (r *SubscriptionRepository) CountOverdue(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("status = ? AND renewal_date < ?", model.SubscriptionStatusActive, now.UTC()).
		Count(&count).Error
	return count, err
}

// ExpireOverdue 将续费日期已过的 active 订阅标记为 expired，返回影响行数
func (r *SubscriptionRepository) ExpireOverdue(now time.Time) (int64, error) {
	result := r.db.Model(&model.Subscription{}).
		Where("status = ? AND renewal_date < ?", model.SubscriptionStatusActive, now.UTC()).
		Update("status", model.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}
