package handler

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qs3c/subtrack_go_server/internal/model"
	"github.com/qs3c/subtrack_go_server/internal/model/dto"
	"github.com/qs3c/subtrack_go_server/internal/pkg/response"
	"github.com/qs3c/subtrack_go_server/internal/repository"
	"github.com/qs3c/subtrack_go_server/internal/service"
	"github.com/qs3c/subtrack_go_server/internal/testutil"
	"github.com/qs3c/subtrack_go_server/internal/workflow"
)

type subscriptionEnv struct {
	*testContext
	service   *service.SubscriptionService
	scheduler *fakeScheduler
	user      *model.User
	router    *gin.Engine
}

func setupSubscriptionHandler(t *testing.T) *subscriptionEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	scheduler := &fakeScheduler{}
	svc := service.NewSubscriptionService(repository.NewSubscriptionRepository(db), scheduler, testConfig(), zap.NewNop())
	user := testutil.TestUser(t, db)

	subHandler := NewSubscriptionHandler(svc)
	wfHandler := NewWorkflowHandler(svc)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	subs := router.Group("/subscriptions")
	{
		subs.GET("", subHandler.List)
		subs.POST("", subHandler.Create)
		subs.GET("/upcoming-renewals", subHandler.Upcoming)
		subs.GET("/user/:id", subHandler.ListByUser)
		subs.GET("/:id", subHandler.Get)
		subs.PUT("/:id", subHandler.Update)
		subs.DELETE("/:id", subHandler.Delete)
		subs.PATCH("/:id/cancel", subHandler.Cancel)
	}
	router.POST("/workflows/subscription/reminder", wfHandler.TriggerReminder)

	return &subscriptionEnv{
		testContext: &testContext{DB: db},
		service:     svc,
		scheduler:   scheduler,
		user:        user,
		router:      router,
	}
}

func createBody() map[string]interface{} {
	return map[string]interface{}{
		"name":           "Netflix Premium",
		"price":          15.99,
		"currency":       "USD",
		"frequency":      "monthly",
		"category":       "entertainment",
		"payment_method": "Credit Card",
		"start_date":     time.Now().UTC().AddDate(0, 0, -3).Format(time.RFC3339),
	}
}

func TestSubscriptionHandler_Create(t *testing.T) {
	env := setupSubscriptionHandler(t)

	w := performRequest(env.router, "POST", "/subscriptions", createBody())
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var sub model.Subscription
	decodeData(t, resp, &sub)
	assert.Equal(t, "Netflix Premium", sub.Name)
	assert.Equal(t, model.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, []int64{sub.ID}, env.scheduler.scheduled)
}

func TestSubscriptionHandler_Create_Invalid(t *testing.T) {
	env := setupSubscriptionHandler(t)

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{name: "missing name", mutate: func(b map[string]interface{}) { delete(b, "name") }},
		{name: "negative price", mutate: func(b map[string]interface{}) { b["price"] = -1 }},
		{name: "unknown frequency", mutate: func(b map[string]interface{}) { b["frequency"] = "hourly" }},
		{name: "unknown currency", mutate: func(b map[string]interface{}) { b["currency"] = "JPY" }},
		{name: "unknown category", mutate: func(b map[string]interface{}) { b["category"] = "gardening" }},
		{name: "future start", mutate: func(b map[string]interface{}) {
			b["start_date"] = time.Now().UTC().AddDate(0, 0, 3).Format(time.RFC3339)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := createBody()
			tt.mutate(body)
			w := performRequest(env.router, "POST", "/subscriptions", body)
			assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
		})
	}
	assert.Empty(t, env.scheduler.scheduled)
}

func TestSubscriptionHandler_GetAndList(t *testing.T) {
	env := setupSubscriptionHandler(t)
	sub := testutil.TestSubscription(t, env.DB, env.user.ID)
	other := testutil.TestUser(t, env.DB)
	foreign := testutil.TestSubscription(t, env.DB, other.ID)

	w := performRequest(env.router, "GET", fmt.Sprintf("/subscriptions/%d", sub.ID), nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(env.router, "GET", fmt.Sprintf("/subscriptions/%d", foreign.ID), nil)
	assert.Equal(t, response.CodePermissionDenied, parseResponse(t, w).Code)

	w = performRequest(env.router, "GET", "/subscriptions/99999", nil)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)

	w = performRequest(env.router, "GET", "/subscriptions/abc", nil)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)

	w = performRequest(env.router, "GET", "/subscriptions", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	var list response.ListData
	decodeData(t, resp, &list)
	assert.Equal(t, 1, list.Count)

	w = performRequest(env.router, "GET", fmt.Sprintf("/subscriptions/user/%d", env.user.ID), nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(env.router, "GET", fmt.Sprintf("/subscriptions/user/%d", other.ID), nil)
	assert.Equal(t, response.CodePermissionDenied, parseResponse(t, w).Code)
}

func TestSubscriptionHandler_Update(t *testing.T) {
	env := setupSubscriptionHandler(t)
	sub := testutil.TestSubscription(t, env.DB, env.user.ID)
	path := fmt.Sprintf("/subscriptions/%d", sub.ID)

	w := performRequest(env.router, "PUT", path, map[string]interface{}{"name": "Renamed", "price": 20})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var updated model.Subscription
	decodeData(t, resp, &updated)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 20.0, updated.Price)

	t.Run("unknown field rejected", func(t *testing.T) {
		w := performRequest(env.router, "PUT", path, map[string]interface{}{"status": "active"})
		assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		w := performRequest(env.router, "PUT", path, map[string]interface{}{"frequency": "hourly"})
		assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		w := performRequest(env.router, "PUT", path, "{}")
		assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
	})
}

func TestSubscriptionHandler_CancelAndDelete(t *testing.T) {
	env := setupSubscriptionHandler(t)
	sub := testutil.TestSubscription(t, env.DB, env.user.ID)

	w := performRequest(env.router, "PATCH", fmt.Sprintf("/subscriptions/%d/cancel", sub.ID), nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var cancelled model.Subscription
	decodeData(t, resp, &cancelled)
	assert.Equal(t, model.SubscriptionStatusCancelled, cancelled.Status)

	w = performRequest(env.router, "DELETE", fmt.Sprintf("/subscriptions/%d", sub.ID), nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)
	assert.Equal(t, []int64{sub.ID, sub.ID}, env.scheduler.cancelled)

	w = performRequest(env.router, "DELETE", fmt.Sprintf("/subscriptions/%d", sub.ID), nil)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)
}

func TestSubscriptionHandler_Upcoming(t *testing.T) {
	env := setupSubscriptionHandler(t)
	now := time.Now().UTC()
	soon := testutil.TestSubscription(t, env.DB, env.user.ID, testutil.WithRenewalDate(now.AddDate(0, 0, 2)))
	testutil.TestSubscription(t, env.DB, env.user.ID, testutil.WithRenewalDate(now.AddDate(0, 0, 20)))

	w := performRequest(env.router, "GET", "/subscriptions/upcoming-renewals", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var list struct {
		Count int                   `json:"count"`
		Items []*model.Subscription `json:"items"`
	}
	decodeData(t, resp, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, soon.ID, list.Items[0].ID)
}

func TestWorkflowHandler_TriggerReminder(t *testing.T) {
	env := setupSubscriptionHandler(t)
	sub := testutil.TestSubscription(t, env.DB, env.user.ID)
	inactive := testutil.TestSubscription(t, env.DB, env.user.ID, testutil.WithStatus(model.SubscriptionStatusCancelled))

	w := performRequest(env.router, "POST", "/workflows/subscription/reminder", dto.TriggerReminderRequest{SubscriptionID: sub.ID})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var exec dto.TriggerReminderResponse
	decodeData(t, resp, &exec)
	assert.Equal(t, workflow.WorkflowID(sub.ID), exec.WorkflowID)
	assert.Equal(t, "test-run", exec.RunID)

	w = performRequest(env.router, "POST", "/workflows/subscription/reminder", dto.TriggerReminderRequest{SubscriptionID: inactive.ID})
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)

	w = performRequest(env.router, "POST", "/workflows/subscription/reminder", map[string]int{})
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)

	env.scheduler.err = errors.New("temporal unavailable")
	w = performRequest(env.router, "POST", "/workflows/subscription/reminder", dto.TriggerReminderRequest{SubscriptionID: sub.ID})
	assert.Equal(t, response.CodeUnavailable, parseResponse(t, w).Code)
}
