package handler

import (
	"time"

	"connect3/backend/internal/auth"
	"connect3/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the API on r. Every route except the feed stream runs
// under requestTimeout.
func SetupRoutes(r *gin.Engine, h *Handler, requestTimeout time.Duration) {
	RegisterValidators()

	r.GET("/health", h.Health)

	// Long-lived, so no request timeout.
	r.GET("/feed/:user_id/stream", h.StreamFeed)

	api := r.Group("")
	api.Use(middleware.Timeout(requestTimeout))
	{
		userRoutes := api.Group("/users")
		{
			userRoutes.POST("", h.CreateUser)
			userRoutes.GET("/email/:email", h.GetUserByEmail) // Must be before /:id
			userRoutes.GET("/email/:email/connections", h.GetUserConnectionsByEmail)
			userRoutes.GET("/:id", h.GetUserByID)
			userRoutes.GET("/:id/connections", h.GetUserConnections)
			userRoutes.POST("/:id/invites", h.CreateInvite)
		}

		api.POST("/connect_users", h.ConnectUsers)
		api.POST("/connect_users_by_name", h.ConnectUsersByName)
		api.POST("/connect_users_by_email", h.ConnectUsersByEmail)
		api.POST("/create_user_and_connect", auth.InviteMiddleware(h.invites), h.CreateUserAndConnect)

		api.POST("/posts", h.CreatePost)
		api.GET("/feed/:user_id", h.GetFeed)
	}
}
