package main

import (
	"context"
	"log"
	"net/http"

	_ "findhouse/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"findhouse/internal/auth"
	"findhouse/internal/cache"
	"findhouse/internal/config"
	"findhouse/internal/db"
	"findhouse/internal/handler"
	"findhouse/internal/model"
	"findhouse/internal/repository"
	"findhouse/internal/router"
	"findhouse/internal/service"
)

// @title FindHouse API
// @version 1.0
// @description Real-estate listing backend with JWT authentication, admin moderation, search and image upload.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.PostImage{},
		&model.Rating{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	mediaService, err := service.NewMediaService(cfg.UploadDir, cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("media init: %v", err)
	}
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	postService := service.NewPostService(postRepo, userRepo, cacheClient, mediaService)
	userService := service.NewUserService(userRepo, postRepo)

	// The moderation account must exist before the first request.
	if err := authService.EnsureDefaultAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)
	userHandler := handler.NewUserHandler(userService)
	mediaHandler := handler.NewMediaHandler(mediaService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		postHandler,
		userHandler,
		mediaHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
