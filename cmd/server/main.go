package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/transcript-summarizer/internal/config"
	"github.com/BerylCAtieno/transcript-summarizer/internal/db"
	"github.com/BerylCAtieno/transcript-summarizer/internal/history"
	"github.com/BerylCAtieno/transcript-summarizer/internal/prompts"
	"github.com/BerylCAtieno/transcript-summarizer/internal/render"
	"github.com/BerylCAtieno/transcript-summarizer/internal/repository"
	"github.com/BerylCAtieno/transcript-summarizer/internal/router"
	"github.com/BerylCAtieno/transcript-summarizer/internal/services"
	"github.com/BerylCAtieno/transcript-summarizer/internal/storage"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Open the settings database and run migrations
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to open database", "error", err)
	}
	defer database.Close()

	repo := repository.NewRepository(database)
	historyStore := history.NewStore(repo, logger)
	promptStore := prompts.NewStore(repo, logger)

	// Exported documents are archived only when an S3 endpoint is configured
	var archive storage.Storage
	if cfg.S3Endpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		archive, err = storage.NewS3Storage(ctx, cfg)
		cancel()
		if err != nil {
			logger.Fatal("Failed to initialize storage", "error", err)
		}
	}

	writer := render.NewWriter(render.NewFontLoader(cfg.FontURL, logger), logger)

	handler := router.NewRouter(router.Services{
		Relay:  services.NewRelayService(cfg, logger),
		Export: services.NewExportService(writer, archive, logger),
		Admin:  services.NewAdminService(historyStore, promptStore, logger),
	}, cfg, logger)

	// Create HTTP server. The write timeout covers a full upstream completion.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.SummaryTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "archive", cfg.S3Endpoint != "")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
