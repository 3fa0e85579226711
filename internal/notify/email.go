package notify

import (
	"context"
	"errors"
	"time"

	"github.com/qs3c/subtrack_go_server/internal/pkg/email"
	"github.com/qs3c/subtrack_go_server/internal/reminder"
)

var ErrNoRecipient = errors.New("recipient is empty")

// ReminderMailer 由 email.Service 实现
type ReminderMailer interface {
	SendReminder(to string, data *email.ReminderData) error
}

// EmailSink 通过邮件发送续费提醒
type EmailSink struct {
	mailer ReminderMailer
	now    func() time.Time
}

func NewEmailSink(mailer ReminderMailer) *EmailSink {
	return &EmailSink{mailer: mailer, now: time.Now}
}

func (s *EmailSink) Notify(ctx context.Context, recipient, label string, snapshot *reminder.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if recipient == "" {
		return ErrNoRecipient
	}

	return s.mailer.SendReminder(recipient, &email.ReminderData{
		UserName:         snapshot.UserName,
		SubscriptionName: snapshot.Name,
		Price:            snapshot.Price,
		Currency:         snapshot.Currency,
		Frequency:        snapshot.Frequency,
		PaymentMethod:    snapshot.PaymentMethod,
		RenewalDate:      snapshot.RenewalDate,
		Label:            label,
		DaysLeft:         daysUntil(s.now(), snapshot.RenewalDate),
	})
}

// daysUntil 按 UTC 日历日计算距离续费的天数
func daysUntil(now, renewal time.Time) int {
	from := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(renewal.UTC().Year(), renewal.UTC().Month(), renewal.UTC().Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
