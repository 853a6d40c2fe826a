package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkolesnikov/semeinik/internal/config"
	"github.com/dkolesnikov/semeinik/internal/database"
	"github.com/dkolesnikov/semeinik/internal/email"
	"github.com/dkolesnikov/semeinik/internal/logging"
	"github.com/dkolesnikov/semeinik/internal/server"
	"github.com/dkolesnikov/semeinik/internal/token"
)

const cleanupInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	emailClient := email.NewClient(cfg.PostmarkToken, cfg.EmailFrom, cfg.BaseURL)
	if !emailClient.Configured() {
		logger.Warn("postmark token not set, activation emails will fail")
	}

	codec := token.NewCodec(cfg.JWTSecret)
	srv := server.New(db, codec, emailClient, logger)

	stopCleanup := make(chan struct{})
	go runCleanup(srv, logger, stopCleanup)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("semeinik listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	close(stopCleanup)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

// runCleanup reaps expired sessions and activation tokens periodically.
// Expired rows are otherwise only rejected on lookup, never removed.
func runCleanup(srv *server.Server, logger *slog.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n, err := srv.SessionStore().DeleteExpired(); err != nil {
				logger.Error("cleanup sessions", "error", err)
			} else if n > 0 {
				logger.Info("cleaned up expired sessions", "count", n)
			}
			if n, err := srv.ActivationTokenStore().DeleteExpired(); err != nil {
				logger.Error("cleanup activation tokens", "error", err)
			} else if n > 0 {
				logger.Info("cleaned up expired activation tokens", "count", n)
			}
			srv.RateLimiter().Cleanup()
		case <-stop:
			return
		}
	}
}
