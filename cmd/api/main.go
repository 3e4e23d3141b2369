package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Fokku/flightbooker/internal/application/verification"
	"github.com/Fokku/flightbooker/internal/config"
	"github.com/Fokku/flightbooker/internal/infrastructure/maillog"
	"github.com/Fokku/flightbooker/internal/infrastructure/postgres"
	"github.com/Fokku/flightbooker/internal/infrastructure/smtp"
	"github.com/Fokku/flightbooker/internal/jobs"
	"github.com/Fokku/flightbooker/internal/session"
	transporthttp "github.com/Fokku/flightbooker/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	// Bootstrap the schema (creates tables if they don't exist).
	if err := postgres.Bootstrap(context.Background(), db); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	// In development, delivery goes to a local log file instead of SMTP.
	var notifier verification.Notifier
	if cfg.Development {
		notifier = maillog.New(cfg.EmailLogPath)
		log.Printf("Development mode: emails logged to %s", cfg.EmailLogPath)
	} else {
		notifier = smtp.NewMailer(cfg)
	}

	verificationRepo := postgres.NewVerificationRepo(db)
	sessions := session.NewManager(postgres.NewSessionRepo(db), cfg)

	deps := &transporthttp.Deps{
		UserRepo:         postgres.NewUserRepo(db),
		VerificationRepo: verificationRepo,
		FlightRepo:       postgres.NewFlightRepo(db),
		BookingRepo:      postgres.NewBookingRepo(db),
		ContactRepo:      postgres.NewContactRepo(db),
		FAQRepo:          postgres.NewFAQRepo(db),
		Notifier:         notifier,
		Sessions:         sessions,
	}

	router := transporthttp.NewRouter(cfg, deps)

	// Expired verification rows are invisible to lookups; the reaper just
	// keeps the table small.
	reaper := jobs.NewReaper(verificationRepo, 24*time.Hour)
	if err := reaper.Start(time.Hour); err != nil {
		log.Fatalf("reaper start failed: %v", err)
	}
	defer reaper.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
