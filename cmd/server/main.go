package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skylink-air/skylink-backend/internal/auth"
	"github.com/skylink-air/skylink-backend/internal/config"
	"github.com/skylink-air/skylink-backend/internal/database"
	"github.com/skylink-air/skylink-backend/internal/handlers"
	"github.com/skylink-air/skylink-backend/internal/mail"
	"github.com/skylink-air/skylink-backend/internal/realtime"
	"github.com/skylink-air/skylink-backend/internal/router"
	"github.com/skylink-air/skylink-backend/internal/schedule"
	"github.com/skylink-air/skylink-backend/internal/service"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	repo := database.NewRepository(pool)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := repo.Ping(pingCtx); err != nil {
		log.Fatalf("Database is not reachable: %v", err)
	}
	pingCancel()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	mailer := mail.NewConsoleMailer(mail.Config{
		Host:    cfg.SMTPHost,
		Port:    cfg.SMTPPort,
		From:    cfg.SMTPFrom,
		BaseURL: cfg.PublicBaseURL,
	})

	hub := realtime.NewHub()
	go hub.Run()

	clock := schedule.SystemClock{}

	users := service.NewUserService(repo, tokens, mailer, service.UserServiceConfig{
		VerificationTTL:  cfg.VerificationTTL,
		PasswordResetTTL: cfg.PasswordResetTTL,
		StaffAccessCode:  cfg.StaffAccessCode,
		BcryptCost:       cfg.BcryptCost,
	})
	fleet := service.NewFleetService(repo)
	flights := service.NewFlightService(repo, hub, clock)
	templates := service.NewTemplateService(repo, clock)

	h := handlers.NewHandler(users, fleet, flights, templates, hub)
	r := router.SetupRouter(h, cfg.EnableMetrics)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API Server starting on port %s (%s)", cfg.Port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
