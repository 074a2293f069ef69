package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chat_store/internal/config"
	"chat_store/internal/middleware"
	"chat_store/pkg/logger"
)

func NewRouter(
	handlers *Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) (*gin.Engine, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", handlers.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		rooms := v1.Group("/rooms")
		{
			rooms.POST("", handlers.Room.Create)
			rooms.GET("", handlers.Room.List)
			rooms.GET("/:id", handlers.Room.GetByID)
			rooms.DELETE("/:id", handlers.Room.Delete)
			rooms.PUT("/:id/participants/:userId", handlers.Room.AddParticipant)
			rooms.DELETE("/:id/participants/:userId", handlers.Room.RemoveParticipant)

			rooms.POST("/:id/messages",
				rateLimitMiddleware.Limit("post", cfg.Chat.PostLimitPerMinute),
				handlers.Message.Post,
			)
			rooms.GET("/:id/messages", handlers.Message.List)
			rooms.GET("/:id/unread", handlers.Message.Unread)
		}

		v1.GET("/projects/:id/room", handlers.Room.GetProjectRoom)

		messages := v1.Group("/messages")
		{
			messages.GET("/:id", handlers.Message.Get)
			messages.POST("/:id/seen",
				rateLimitMiddleware.Limit("seen", cfg.Chat.SeenLimitPerMinute),
				handlers.Receipt.MarkSeen,
			)
			messages.GET("/:id/seen", handlers.Receipt.ListSeenBy)
		}
	}

	internal := router.Group("/internal")
	internal.Use(middleware.RequireInternalToken(cfg.Internal.Token))
	{
		internal.PUT("/users/:id", handlers.Directory.PutUser)
		internal.DELETE("/users/:id", handlers.Directory.DeleteUser)
		internal.PUT("/projects/:id", handlers.Directory.PutProject)
		internal.DELETE("/projects/:id", handlers.Directory.DeleteProject)
	}

	return router, nil
}
