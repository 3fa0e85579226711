package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/subtrack_go_server/internal/model"
)

type ReminderDeliveryRepository struct {
	db *gorm.DB
}

func NewReminderDeliveryRepository(db *gorm.DB) *ReminderDeliveryRepository {
	return &ReminderDeliveryRepository{db: db}
}

// CreateIfAbsent 按 marker_key 插入记录，已存在时返回 false
func (r *ReminderDeliveryRepository) CreateIfAbsent(ctx context.Context, delivery *model.ReminderDelivery) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "marker_key"}},
		DoNothing: true,
	}).Create(delivery)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ReminderDeliveryRepository) GetByMarkerKey(key string) (*model.ReminderDelivery, error) {
	var delivery model.ReminderDelivery
	err := r.db.Where("marker_key = ?", key).First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *ReminderDeliveryRepository) UpdateResult(ctx context.Context, key, status, errMsg string) error {
	return r.db.WithContext(ctx).Model(&model.ReminderDelivery{}).Where("marker_key = ?", key).Updates(map[string]interface{}{
		"status": status,
		"error":  errMsg,
	}).Error
}

// ListBySubscriptionID 获取订阅的提醒发送记录，最新的在前
func (r *ReminderDeliveryRepository) ListBySubscriptionID(subscriptionID int64) ([]*model.ReminderDelivery, error) {
	var deliveries []*model.ReminderDelivery
	err := r.db.Where("subscription_id = ?", subscriptionID).Order("id DESC").Find(&deliveries).Error
	return deliveries, err
}
