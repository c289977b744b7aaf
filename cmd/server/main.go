package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kinyy999/sample-share-backend/config"
	"github.com/kinyy999/sample-share-backend/internal/sample"
	"github.com/kinyy999/sample-share-backend/internal/user"
	"github.com/kinyy999/sample-share-backend/pkg/auth"
	"github.com/kinyy999/sample-share-backend/pkg/database"
	"github.com/kinyy999/sample-share-backend/pkg/storage"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.LoadConfig()
	auth.Init(cfg.JWTSecret, cfg.JWTResetSecret)

	// Подключение к БД
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer db.Close()

	// Подключение к MinIO
	minioStorage, err := storage.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Ошибка подключения к MinIO: %v", err)
	}

	mailer := auth.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, mailer, cfg.FrontendURL)
	userHandler := user.NewHandler(userService)

	sampleRepo := sample.NewRepository(db)
	sampleService := sample.NewService(sampleRepo)
	sampleHandler := sample.NewHandler(sampleService, minioStorage)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE},
	}))

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "SampleShare backend is working!")
	})

	e.POST("/register", userHandler.Register)
	e.POST("/login", userHandler.Login)
	e.POST("/forgot-password", userHandler.ForgotPassword)
	e.POST("/reset-password", userHandler.ResetPassword)

	e.GET("/samples", sampleHandler.List)
	e.GET("/samples/:id", sampleHandler.Get)
	e.POST("/samples", sampleHandler.Create, auth.JWTMiddleware)
	e.PUT("/samples/:id", sampleHandler.Update, auth.JWTMiddleware)
	e.DELETE("/samples/:id", sampleHandler.Delete, auth.JWTMiddleware)

	e.POST("/samples/:id/comments", sampleHandler.AddComment, auth.JWTMiddleware)
	e.PUT("/samples/:sid/comments/:cid", sampleHandler.UpdateComment, auth.JWTMiddleware)
	e.DELETE("/samples/:sid/comments/:cid", sampleHandler.DeleteComment, auth.JWTMiddleware)

	e.POST("/samples/:id/audio", sampleHandler.UploadAudio, auth.JWTMiddleware)
	e.GET("/samples/:id/audio", sampleHandler.StreamAudio)

	admin := e.Group("/users", auth.JWTMiddleware, auth.AdminOnly)
	admin.GET("", userHandler.List)
	admin.DELETE("/:id", userHandler.Delete)
	admin.PATCH("/:id/role", userHandler.UpdateRole)
	admin.PATCH("/:id/active", userHandler.UpdateActive)

	go func() {
		log.Println("Запуск сервера на порту " + cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Ошибка остановки сервера: %v", err)
	}
	log.Println("Сервер остановлен")
}
