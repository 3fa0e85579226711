package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs3c/subtrack_go_server/config"
	"github.com/qs3c/subtrack_go_server/internal/api/handler"
	"github.com/qs3c/subtrack_go_server/internal/api/middleware"
)

type Router struct {
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	subscriptionHandler *handler.SubscriptionHandler
	workflowHandler     *handler.WorkflowHandler
	websocketHandler    *handler.WebSocketHandler
	cfg                 *config.Config
	logger              *zap.Logger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	workflowHandler *handler.WorkflowHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		authHandler:         authHandler,
		userHandler:         userHandler,
		subscriptionHandler: subscriptionHandler,
		workflowHandler:     workflowHandler,
		websocketHandler:    websocketHandler,
		cfg:                 cfg,
		logger:              logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestLogger(r.logger))
	engine.Use(middleware.Recovery(r.logger))
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			users := authenticated.Group("/users")
			{
				users.GET("/:id", r.userHandler.Get)
				users.PUT("/:id", r.userHandler.Update)
			}

			// 订阅
			subs := authenticated.Group("/subscriptions")
			{
				subs.GET("", r.subscriptionHandler.List)
				subs.POST("", r.subscriptionHandler.Create)
				subs.GET("/upcoming-renewals", r.subscriptionHandler.Upcoming)
				subs.GET("/user/:id", r.subscriptionHandler.ListByUser)
				subs.GET("/:id", r.subscriptionHandler.Get)
				subs.PUT("/:id", r.subscriptionHandler.Update)
				subs.DELETE("/:id", r.subscriptionHandler.Delete)
				subs.PATCH("/:id/cancel", r.subscriptionHandler.Cancel)
			}

			// 提醒工作流
			authenticated.POST("/workflows/subscription/reminder", r.workflowHandler.TriggerReminder)
		}
	}

	return engine
}
