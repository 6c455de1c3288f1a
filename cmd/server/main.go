package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SwiftPix/Transference-service/internal/clients"
	"github.com/SwiftPix/Transference-service/internal/config"
	"github.com/SwiftPix/Transference-service/internal/db"
	"github.com/SwiftPix/Transference-service/internal/domain"
	"github.com/SwiftPix/Transference-service/internal/events"
	"github.com/SwiftPix/Transference-service/internal/handlers"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()

	// Initialize database connection pool
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to create database pool: %v", err)
	}
	defer pool.Close()
	log.Println("database connection pool initialized")

	// Create repositories
	aliasRepo := db.NewAliasRepository(pool.Pool)
	transferRepo := db.NewTransferRepository(pool.Pool)

	// Create upstream clients
	userClient := clients.NewUserServiceClient(cfg.UserAPI.BaseURL, cfg.UserAPI.Timeout)
	conversionClient := clients.NewConversionClient(cfg.RateAPI.BaseURL, cfg.RateAPI.Timeout)

	// Notifications are best-effort: a missing broker must not keep the
	// service from starting.
	var notifier domain.Notifier
	rabbitNotifier, err := events.NewRabbitMQNotifier(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey)
	if err != nil {
		log.Printf("warning: RabbitMQ unavailable, notifications disabled: %v", err)
	} else {
		notifier = rabbitNotifier
		defer rabbitNotifier.Close()
	}

	// Create domain services
	aliasService := domain.NewAliasService(aliasRepo)
	transferService := domain.NewTransferService(aliasRepo, transferRepo, userClient, conversionClient, notifier)
	log.Println("domain services initialized")

	// Create HTTP server
	handler := handlers.NewHandler(aliasService, transferService)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.Router(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("transference service starting on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
