package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/qs3c/subtrack_go_server/internal/pkg/email"
	"github.com/qs3c/subtrack_go_server/internal/pkg/pubsub"
	"github.com/qs3c/subtrack_go_server/internal/reminder"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendReminder(to string, data *email.ReminderData) error {
	args := m.Called(to, data)
	return args.Error(0)
}

func testSnapshot() *reminder.Snapshot {
	return &reminder.Snapshot{
		SubscriptionID: 9,
		UserID:         3,
		Name:           "Netflix",
		Price:          15.99,
		Currency:       "USD",
		Frequency:      "monthly",
		PaymentMethod:  "credit card",
		Status:         reminder.StatusActive,
		RenewalDate:    time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
		UserName:       "Ada",
		Recipient:      "ada@example.com",
	}
}

func TestEmailSink_Notify(t *testing.T) {
	mailer := new(mockMailer)
	sink := NewEmailSink(mailer)
	sink.now = func() time.Time { return time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC) }

	mailer.On("SendReminder", "ada@example.com", mock.MatchedBy(func(d *email.ReminderData) bool {
		return d.SubscriptionName == "Netflix" &&
			d.UserName == "Ada" &&
			d.Label == "7 days before reminder" &&
			d.DaysLeft == 7
	})).Return(nil).Once()

	err := sink.Notify(context.Background(), "ada@example.com", "7 days before reminder", testSnapshot())
	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestEmailSink_Errors(t *testing.T) {
	mailer := new(mockMailer)
	sink := NewEmailSink(mailer)

	err := sink.Notify(context.Background(), "", "1 days before reminder", testSnapshot())
	assert.ErrorIs(t, err, ErrNoRecipient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = sink.Notify(ctx, "ada@example.com", "1 days before reminder", testSnapshot())
	assert.ErrorIs(t, err, context.Canceled)

	mailer.AssertNotCalled(t, "SendReminder", mock.Anything, mock.Anything)
}

func TestDaysUntil(t *testing.T) {
	renewal := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 7, daysUntil(time.Date(2024, 6, 3, 23, 0, 0, 0, time.UTC), renewal))
	assert.Equal(t, 1, daysUntil(time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), renewal))
	assert.Equal(t, 0, daysUntil(renewal, renewal))
}

func TestBroadcaster_Notify(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan *pubsub.ReminderEvent, 1)
	go func() {
		_ = pubsub.NewSubscriber(client).Subscribe(ctx, func(evt *pubsub.ReminderEvent) {
			received <- evt
		})
	}()
	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, pubsub.ChannelReminderEvents).Result()
		return err == nil && n[pubsub.ChannelReminderEvents] == 1
	}, 2*time.Second, 10*time.Millisecond)

	b := NewBroadcaster(pubsub.NewPublisher(client))
	require.NoError(t, b.Notify(ctx, "ada@example.com", "2 days before reminder", testSnapshot()))

	select {
	case evt := <-received:
		assert.Equal(t, int64(3), evt.UserID)
		assert.Equal(t, int64(9), evt.SubscriptionID)
		assert.Equal(t, "2 days before reminder", evt.Label)
		assert.Equal(t, "Netflix renews on 2024-06-10", evt.Message)
	case <-ctx.Done():
		t.Fatal("Timeout waiting for event")
	}
}

func TestMulti_Notify(t *testing.T) {
	var calls []string
	ok := NotifierFunc(func(_ context.Context, _, label string, _ *reminder.Snapshot) error {
		calls = append(calls, "ok:"+label)
		return nil
	})
	boom := errors.New("boom")
	failing := NotifierFunc(func(_ context.Context, _, label string, _ *reminder.Snapshot) error {
		calls = append(calls, "fail:"+label)
		return boom
	})

	t.Run("all succeed", func(t *testing.T) {
		calls = nil
		err := Multi{ok, ok}.Notify(context.Background(), "a@b.c", "L", testSnapshot())
		assert.NoError(t, err)
		assert.Equal(t, []string{"ok:L", "ok:L"}, calls)
	})

	t.Run("failure does not stop the rest", func(t *testing.T) {
		calls = nil
		err := Multi{failing, ok}.Notify(context.Background(), "a@b.c", "L", testSnapshot())
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"fail:L", "ok:L"}, calls)
	})

	t.Run("empty", func(t *testing.T) {
		assert.NoError(t, Multi{}.Notify(context.Background(), "a@b.c", "L", testSnapshot()))
	})
}

func TestBestEffort(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)

	t.Run("failure is logged, not returned", func(t *testing.T) {
		failing := NotifierFunc(func(context.Context, string, string, *reminder.Snapshot) error {
			return errors.New("redis down")
		})

		err := BestEffort("broadcast", failing, logger).Notify(context.Background(), "a@b.c", "1 days before reminder", testSnapshot())
		assert.NoError(t, err)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "broadcast", fields["notifier"])
		assert.Equal(t, "1 days before reminder", fields["label"])
		assert.Equal(t, int64(9), fields["subscription_id"])
		assert.Equal(t, "redis down", fields["error"])
	})

	t.Run("success is silent", func(t *testing.T) {
		ok := NotifierFunc(func(context.Context, string, string, *reminder.Snapshot) error { return nil })

		assert.NoError(t, BestEffort("broadcast", ok, logger).Notify(context.Background(), "a@b.c", "L", testSnapshot()))
		assert.Zero(t, logs.Len())
	})
}

// 邮件成功、推送失败时，检查点按发送成功处理
func TestMulti_EmailDecidesOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	mailer := new(mockMailer)
	mailer.On("SendReminder", "ada@example.com", mock.Anything).Return(nil)
	brokenPush := NotifierFunc(func(context.Context, string, string, *reminder.Snapshot) error {
		return errors.New("publish failed")
	})

	notifier := Multi{
		NewEmailSink(mailer),
		BestEffort("broadcast", brokenPush, zap.New(core)),
	}

	err := notifier.Notify(context.Background(), "ada@example.com", "2 days before reminder", testSnapshot())
	assert.NoError(t, err)
	mailer.AssertExpectations(t)
	assert.Equal(t, 1, logs.Len())

	// 邮件失败仍然是失败
	failingMailer := new(mockMailer)
	failingMailer.On("SendReminder", "ada@example.com", mock.Anything).Return(errors.New("smtp down"))
	notifier[0] = NewEmailSink(failingMailer)

	assert.Error(t, notifier.Notify(context.Background(), "ada@example.com", "2 days before reminder", testSnapshot()))
}
