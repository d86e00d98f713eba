package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kunjshukla/ain/internal/config"
	"github.com/kunjshukla/ain/internal/handlers"
	"github.com/kunjshukla/ain/internal/jobs"
	"github.com/kunjshukla/ain/internal/llm"
	_ "github.com/kunjshukla/ain/internal/llm/gemini"
	"github.com/kunjshukla/ain/internal/metrics"
	"github.com/kunjshukla/ain/internal/models"
	"github.com/kunjshukla/ain/internal/orchestrator"
	"github.com/kunjshukla/ain/internal/prompts"
	"github.com/kunjshukla/ain/internal/relay"
	"github.com/kunjshukla/ain/internal/reports"
	"github.com/kunjshukla/ain/internal/routers"
	"github.com/kunjshukla/ain/internal/session"
)

func initReportDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.InterviewReport{}); err != nil {
		return nil, err
	}
	return db, nil
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("redis_addr", cfg.RedisAddr))

	promptManager, err := prompts.NewManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}
	orch := orchestrator.New(promptManager)

	generator, err := llm.NewGenerator(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	store := session.NewStore(rdb, cfg.SessionTTL, logger)

	turns := relay.NewTurnService(orch, store, generator, logger, cfg.GeneratorTimeout)
	wsHandler := relay.NewWSHandler(turns, logger)

	// Report storage is optional; the interview flow works without it.
	var reportManager *reports.Manager
	var exporterJob *jobs.ReportExporterJob
	db, err := initReportDB(cfg.ReportDBPath)
	if err != nil {
		logger.Error("Failed to initialize report database, reports disabled", zap.Error(err))
	} else {
		reportManager = reports.NewManager(db, cfg.ReportCacheTTL)

		exporterJob = jobs.NewReportExporterJob(reportManager, &jobs.ExporterConfig{
			Schedule:  cfg.ExportSchedule,
			ExportDir: cfg.ExportDir,
			Enabled:   cfg.ExportEnabled,
		}, logger)
		if err := exporterJob.Start(); err != nil {
			logger.Error("Failed to start report exporter job", zap.Error(err))
		}
	}

	interviewHandler := handlers.NewInterviewHandler(turns, store, reportManager, logger)
	healthHandler := handlers.NewHealthHandler(generator, reportManager, cfg)

	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8501", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)
	router.Use(metrics.Middleware)

	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler, []byte(cfg.JWTSecret))
	routers.WSRoutes(router, wsHandler)
	router.Handle("/metrics", metrics.Handler())

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("Interview coach service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview coach service shutting down...")

	if exporterJob != nil {
		exporterJob.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	if err := rdb.Close(); err != nil {
		logger.Warn("failed to close redis client", zap.Error(err))
	}

	logger.Info("Interview coach service exited")
}
