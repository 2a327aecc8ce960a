package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"findhouse/internal/auth"
	"findhouse/internal/config"
	"findhouse/internal/handler"
)

// Register wires routes and middleware. Every protected group re-verifies the
// bearer token itself; nothing trusts the gateway in front of this process to
// have authenticated the caller.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	userHandler *handler.UserHandler,
	mediaHandler *handler.MediaHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	bearer := auth.Middleware(cfg.JWTSecret)

	// Auth routes (public)
	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/user/:id", authHandler.GetUser)

	// Listing routes. Static paths (pending, approved, search) must register
	// alongside the :id param routes; echo resolves static segments first.
	posts := e.Group("/posts")
	posts.GET("/approved", postHandler.ListApproved)
	posts.GET("/search", postHandler.Search)
	posts.GET("/pending", postHandler.ListPending, bearer, auth.RequireAdmin)
	posts.PATCH("/approve/:id", postHandler.Approve, bearer, auth.RequireAdmin)
	posts.POST("", postHandler.Create, bearer)
	posts.GET("/:id", postHandler.Get)
	posts.PATCH("/:id", postHandler.Update, bearer)
	posts.DELETE("/:id", postHandler.Delete, bearer)
	posts.POST("/:id/rate", postHandler.Rate)

	// Per-user routes (all bearer-protected)
	user := e.Group("/user", bearer)
	user.GET("/dashboard", userHandler.GetDashboard)
	user.GET("/profile", userHandler.GetProfile)
	user.PUT("/profile", userHandler.UpdateProfile)
	user.GET("/stats", userHandler.GetStats)
	user.GET("/posts", userHandler.GetPosts)
	user.GET("/posts/approved", userHandler.GetApprovedPosts)
	user.GET("/posts/pending", userHandler.GetPendingPosts)

	// Media routes
	media := e.Group("/media")
	media.POST("/upload", mediaHandler.Upload, bearer)
	media.GET("/images", mediaHandler.ListImages)
	media.GET("/images/:filename", mediaHandler.GetImage)
	media.GET("/images/:filename/info", mediaHandler.GetImageInfo)
	media.DELETE("/images/:filename", mediaHandler.DeleteImage, bearer)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
