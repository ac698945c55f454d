package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sehha-plus/triage-server/internal/api"
	"github.com/sehha-plus/triage-server/internal/cache"
	"github.com/sehha-plus/triage-server/internal/config"
	"github.com/sehha-plus/triage-server/internal/database"
	"github.com/sehha-plus/triage-server/internal/feedback"
	"github.com/sehha-plus/triage-server/internal/logging"
	"github.com/sehha-plus/triage-server/internal/report"
	"github.com/sehha-plus/triage-server/internal/repository"
	"github.com/sehha-plus/triage-server/internal/service"
	"github.com/sehha-plus/triage-server/internal/triage"
	"github.com/sehha-plus/triage-server/pkg/llm"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := logging.New(cfg.Logging)
	logger.WithField("addr", cfg.Server.Host).Info("Starting Sehha+ triage server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	// Consultation storage is optional; the triage pipeline itself is
	// fully functional without a database.
	var db *database.DB
	var consultations service.ConsultationStore
	var health api.HealthChecker
	if cfg.Database.Host != "" {
		db, err = database.Connect(ctx, cfg.Database, logger)
		if err != nil {
			logger.WithError(err).Warn("Database unavailable, consultations will not be persisted")
		} else {
			defer db.Close()
			health = db

			migrator, err := database.NewMigrator(configManager.GetDatabaseURL(), cfg.Database.MigrationsPath, logger)
			if err != nil {
				logger.WithError(err).Fatal("Failed to initialize migrator")
			}
			if err := migrator.Up(); err != nil {
				logger.WithError(err).Fatal("Failed to apply migrations")
			}
			migrator.Close()

			consultations = repository.NewConsultationRepository(db.Pool, logger)
		}
	}

	analysisCache, err := cache.New(cfg.Cache, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize analysis cache")
	}
	defer analysisCache.Close()

	var completer service.Completer
	llmClient := llm.NewClient(cfg.LLM, logger)
	if llmClient.Available() {
		completer = llmClient
	} else {
		logger.Warn("No completion provider configured, running rules-only")
	}

	fbStore, err := feedback.NewSQLiteStore(cfg.Feedback.DBPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open feedback store")
	}
	defer fbStore.Close()

	analysis := service.NewAnalysisService(
		triage.NewMatcher(),
		triage.NewSynthesizer(),
		completer,
		analysisCache,
		consultations,
		logger,
	)
	chat := service.NewChatService(completer, logger)
	reports := report.NewGenerator(cfg.Report, logger)

	server := api.NewServer(*cfg, analysis, chat, reports, fbStore, health, logger)

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
	logger.Info("Server stopped")
}
