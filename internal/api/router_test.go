package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/qs3c/subtrack_go_server/config"
	"github.com/qs3c/subtrack_go_server/internal/api/handler"
	"github.com/qs3c/subtrack_go_server/internal/pkg/ws"
)

func TestRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret"}}
	router := NewRouter(
		handler.NewAuthHandler(nil),
		handler.NewUserHandler(nil),
		handler.NewSubscriptionHandler(nil),
		handler.NewWorkflowHandler(nil),
		handler.NewWebSocketHandler(ws.NewHub(nil), cfg.JWT.Secret, nil, zap.NewNop()),
		cfg,
		zap.NewNop(),
	).Setup()

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/users/:id",
		"PUT /api/v1/users/:id",
		"GET /api/v1/subscriptions",
		"POST /api/v1/subscriptions",
		"GET /api/v1/subscriptions/upcoming-renewals",
		"GET /api/v1/subscriptions/user/:id",
		"GET /api/v1/subscriptions/:id",
		"PUT /api/v1/subscriptions/:id",
		"DELETE /api/v1/subscriptions/:id",
		"PATCH /api/v1/subscriptions/:id/cancel",
		"POST /api/v1/workflows/subscription/reminder",
		"GET /api/v1/ws",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestRouter_RequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret"}}
	router := NewRouter(
		handler.NewAuthHandler(nil),
		handler.NewUserHandler(nil),
		handler.NewSubscriptionHandler(nil),
		handler.NewWorkflowHandler(nil),
		handler.NewWebSocketHandler(ws.NewHub(nil), cfg.JWT.Secret, nil, zap.NewNop()),
		cfg,
		zap.NewNop(),
	).Setup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/subscriptions", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":1001`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
