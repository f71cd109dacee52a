package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/advice-forum/internal/config"
	"github.com/iliyamo/advice-forum/internal/handler"
	"github.com/iliyamo/advice-forum/internal/middleware"
	"github.com/iliyamo/advice-forum/internal/repository"
)

// Register wires every endpoint onto the Echo instance. The /api group gets
// the rate limiter; submit_post and add_comment additionally require a valid
// session. Whether get_posts requires one is a deployment choice
// (FEED_REQUIRE_AUTH) because both behaviors existed historically.
func Register(e *echo.Echo, cfg config.Config, auth *handler.AuthHandler, posts *handler.PostHandler, sessions *repository.SessionRepo, limiter echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	api.Use(limiter)

	api.POST("/create_account", auth.CreateAccount)
	api.POST("/login", auth.Login)
	// validate_session inspects the bearer itself: its 401 body is JSON null,
	// not the middleware's error object.
	api.GET("/validate_session", auth.ValidateSession)

	protected := api.Group("", middleware.SessionAuth(sessions))
	protected.POST("/submit_post", posts.SubmitPost)
	protected.POST("/add_comment", posts.AddComment)

	if cfg.FeedRequireAuth {
		protected.GET("/get_posts", posts.GetPosts)
	} else {
		api.GET("/get_posts", posts.GetPosts)
	}
}
