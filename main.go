package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gridimport/internal"
	"gridimport/internal/config"
	"gridimport/internal/container"
)

func main() {
	// Load application configuration, applying .env when present
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}
	if err := c.ConnectDatabase(ctx); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := c.ListenAndServe(ctx); err != nil {
		logger.Error("[Server] %v", err)
	}
	if err := c.Shutdown(context.Background()); err != nil {
		logger.Error("[Server] shutdown: %v", err)
		os.Exit(1)
	}
}
