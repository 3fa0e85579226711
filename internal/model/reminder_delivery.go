package model

import (
	"time"
)

const (
	DeliveryStatusPending = "pending"
	DeliveryStatusSent    = "sent"
	DeliveryStatusFailed  = "failed"
)

// ReminderDelivery 续费提醒的完成标记，同时保留发送结果
type ReminderDelivery struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	MarkerKey      string    `gorm:"size:191;uniqueIndex;not null" json:"marker_key"`
	Scope          string    `gorm:"size:100;not null" json:"scope"`
	SubscriptionID int64     `gorm:"not null;index" json:"subscription_id"`
	RenewalDate    time.Time `gorm:"not null" json:"renewal_date"`
	Label          string    `gorm:"size:50;not null" json:"label"`
	Recipient      string    `gorm:"size:100" json:"recipient"`
	Status         string    `gorm:"size:20;default:pending" json:"status"`
	Error          string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (ReminderDelivery) TableName() string {
	return "reminder_deliveries"
}
