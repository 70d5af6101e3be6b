package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contact-relay-backend/config"
	_ "contact-relay-backend/docs" // Important for Swagger
	v1 "contact-relay-backend/internal/delivery/http/v1"
	"contact-relay-backend/internal/domain"
	"contact-relay-backend/internal/usecase"
	"contact-relay-backend/pkg/email"
	"contact-relay-backend/pkg/logger"
	"contact-relay-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Contact Relay API
// @version         1.0
// @description     Relays portfolio contact form submissions by email.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logCloser := logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer logCloser.Close()
	logger.Log.Info("Starting contact relay", "port", cfg.Port)

	gin.SetMode(cfg.GinMode)

	// 3. Setup Contact Usecase. The SMTP transport is built per request.
	contactUC := usecase.NewContactUsecase(usecase.ContactConfig{
		MailFrom:       cfg.MailFrom,
		RecipientEmail: cfg.ContactEmailTo,
		FormName:       cfg.ContactFormName,
		SMTP: domain.SMTPSettings{
			Host:               cfg.SMTPHost,
			Port:               cfg.SMTPPort,
			Username:           cfg.SMTPUsername,
			Password:           cfg.SMTPPassword,
			InsecureSkipVerify: cfg.SMTPInsecureSkipVerify,
		},
	}, email.NewSMTPMailer, validation.New())

	// 4. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		Config:    cfg,
	})

	// 5. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
