package main

//go:generate go run github.com/swaggo/swag/cmd/swag@latest init -g main.go -o ../../docs --parseDependency

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casedesk/internal/bootstrap"
	"casedesk/internal/config"

	_ "casedesk/docs" // Import generated docs
)

const shutdownTimeout = 10 * time.Second

// @title Casedesk Location API
// @version 1.0
// @description Cascading country, state, city and coordinate selection for case intake forms.
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("CASEDESK_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger) // Set as default logger for the application

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.New(ctx, cfg, bootstrap.Options{}, logger)
	if err != nil {
		log.Fatalf("Failed to initialize location service: %v", err)
	}
	defer components.Close()

	components.Service.Warm(ctx)
	go components.Service.Run(ctx)

	app := NewApp(cfg, components, logger)

	srv := &http.Server{
		Addr:              cfg.GetServerAddr(),
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			components.Close()
			log.Fatal(err)
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}
