package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/relyexchange/internal/handlers"
	"github.com/thereayou/relyexchange/internal/metrics"
	"github.com/thereayou/relyexchange/internal/middleware"
	"github.com/thereayou/relyexchange/pkg/auth"
)

type Endpoints struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Contacts *handlers.ContactHandler
	Posts    *handlers.PostHandler
	Comments *handlers.CommentHandler
	WS       *handlers.WebSocketHandler
	Health   *handlers.HealthHandler

	JWT       *auth.JWTManager
	Blacklist middleware.RevocationChecker
	Logger    *slog.Logger
}

func APIEndpoints(r *gin.Engine, e Endpoints) {
	r.Use(gin.Recovery(), middleware.RequestLogger(e.Logger))

	requireAuth := middleware.AuthMiddleware(e.JWT, e.Blacklist)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", e.Auth.Register)
		authGroup.POST("/login", e.Auth.Login)
		authGroup.POST("/logout", requireAuth, e.Auth.Logout)
	}

	r.GET("/ws", middleware.WSAuthMiddleware(e.JWT, e.Blacklist), e.WS.HandleWebSocket)
	r.GET("/metrics", metrics.Handler())
	r.GET("/healthz", e.Health.Healthz)

	api := r.Group("/api/v1", requireAuth)
	{
		users := api.Group("/users")
		users.GET("/me", e.Users.GetMe)
		users.GET("/search", e.Users.SearchUsers)
		users.GET("/:id", e.Users.GetUser)

		self := middleware.RequireSelf("user_id")
		contacts := api.Group("/contacts")
		contacts.POST("/upload/:user_id", self, e.Contacts.Upload)
		contacts.GET("/:user_id", self, e.Contacts.List)
		contacts.GET("/:user_id/:contact_id", self, e.Contacts.Get)
		contacts.PUT("/:user_id/:contact_id", self, e.Contacts.Update)
		contacts.DELETE("/:user_id/:contact_id", self, e.Contacts.Delete)

		posts := api.Group("/posts")
		posts.POST("/:id", middleware.RequireSelf("id"), e.Posts.Create)
		posts.GET("/:id", e.Posts.Get)
		posts.PUT("/:id", e.Posts.Update)
		posts.DELETE("/:id", e.Posts.Delete)
		posts.GET("/user/:user_id", e.Posts.ListByUser)
		posts.POST("/:id/comments", e.Comments.Add)
		posts.GET("/:id/comments", e.Comments.List)

		api.GET("/feed", e.Posts.Feed)

		comments := api.Group("/comments")
		comments.PUT("/:comment_id", e.Comments.Update)
		comments.DELETE("/:comment_id", e.Comments.Delete)
	}
}
