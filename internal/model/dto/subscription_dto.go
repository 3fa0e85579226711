package dto

import "time"

// CreateSubscriptionRequest 创建订阅请求，renewal_date 为空时按频率推算
type CreateSubscriptionRequest struct {
	Name          string     `json:"name" binding:"required,min=2,max=100"`
	Price         float64    `json:"price" binding:"required,gt=0"`
	Currency      string     `json:"currency" binding:"omitempty,oneof=USD EUR GBP"`
	Frequency     string     `json:"frequency" binding:"required,oneof=daily weekly monthly yearly"`
	Category      string     `json:"category" binding:"required"`
	PaymentMethod string     `json:"payment_method" binding:"required"`
	StartDate     time.Time  `json:"start_date" binding:"required"`
	RenewalDate   *time.Time `json:"renewal_date,omitempty"`
}

// UpdateSubscriptionRequest 更新订阅请求，未出现的字段保持不变
type UpdateSubscriptionRequest struct {
	Name          *string  `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Price         *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	Currency      *string  `json:"currency,omitempty" binding:"omitempty,oneof=USD EUR GBP"`
	Frequency     *string  `json:"frequency,omitempty" binding:"omitempty,oneof=daily weekly monthly yearly"`
	Category      *string  `json:"category,omitempty"`
	PaymentMethod *string  `json:"payment_method,omitempty"`
}

// Empty 请求体中没有任何可更新字段
func (r *UpdateSubscriptionRequest) Empty() bool {
	return r.Name == nil && r.Price == nil && r.Currency == nil &&
		r.Frequency == nil && r.Category == nil && r.PaymentMethod == nil
}

// TriggerReminderRequest 手动启动续费提醒流程
type TriggerReminderRequest struct {
	SubscriptionID int64 `json:"subscription_id" binding:"required,gt=0"`
}

// TriggerReminderResponse 启动结果
type TriggerReminderResponse struct {
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`
}
