package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/subtrack_go_server/internal/reminder"
	"github.com/qs3c/subtrack_go_server/internal/repository"
)

// SnapshotFetcher 为提醒工作流读取订阅及其用户
type SnapshotFetcher struct {
	subRepo *repository.SubscriptionRepository
}

func NewSnapshotFetcher(subRepo *repository.SubscriptionRepository) *SnapshotFetcher {
	return &SnapshotFetcher{subRepo: subRepo}
}

func (f *SnapshotFetcher) Fetch(subscriptionID int64) (*reminder.Snapshot, error) {
	sub, err := f.subRepo.GetByIDWithUser(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reminder.ErrNotFound
		}
		return nil, err
	}

	snapshot := &reminder.Snapshot{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		Name:           sub.Name,
		Price:          sub.Price,
		Currency:       sub.Currency,
		Frequency:      sub.Frequency,
		PaymentMethod:  sub.PaymentMethod,
		Status:         sub.Status,
		RenewalDate:    sub.RenewalDate,
	}
	if sub.User != nil {
		snapshot.UserName = sub.User.Name
		snapshot.Recipient = sub.User.Email
	}
	return snapshot, nil
}
