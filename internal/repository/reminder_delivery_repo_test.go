package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/subtrack_go_server/internal/model"
	"github.com/qs3c/subtrack_go_server/internal/testutil"
)

func newDelivery(key string) *model.ReminderDelivery {
	return &model.ReminderDelivery{
		MarkerKey:      key,
		Scope:          "subscription-reminder-1",
		SubscriptionID: 1,
		RenewalDate:    time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Label:          "7 days before reminder",
		Recipient:      "ada@example.com",
		Status:         model.DeliveryStatusPending,
	}
}

func TestReminderDeliveryRepository_CreateIfAbsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReminderDeliveryRepository(db)
	ctx := context.Background()

	created, err := repo.CreateIfAbsent(ctx, newDelivery("k1"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, newDelivery("k1"))
	require.NoError(t, err)
	assert.False(t, created)

	created, err = repo.CreateIfAbsent(ctx, newDelivery("k2"))
	require.NoError(t, err)
	assert.True(t, created)

	deliveries, err := repo.ListBySubscriptionID(1)
	require.NoError(t, err)
	assert.Len(t, deliveries, 2)
}

func TestReminderDeliveryRepository_UpdateResult(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReminderDeliveryRepository(db)
	ctx := context.Background()

	_, err := repo.CreateIfAbsent(ctx, newDelivery("k1"))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateResult(ctx, "k1", model.DeliveryStatusFailed, "smtp down"))

	got, err := repo.GetByMarkerKey("k1")
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusFailed, got.Status)
	assert.Equal(t, "smtp down", got.Error)
}

func TestReminderDeliveryRepository_CanceledContext(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReminderDeliveryRepository(db)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.CreateIfAbsent(ctx, newDelivery("k1"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.GetByMarkerKey("k1")
	assert.Error(t, err, "nothing must be written with a canceled context")
}
