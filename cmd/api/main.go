package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tedred-internship-api/config"
	_ "tedred-internship-api/docs" // Important for Swagger
	"tedred-internship-api/internal/delivery/http/middleware"
	v1 "tedred-internship-api/internal/delivery/http/v1"
	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/repository/memory"
	"tedred-internship-api/internal/repository/postgres"
	redisrepo "tedred-internship-api/internal/repository/redis"
	"tedred-internship-api/internal/usecase"
	"tedred-internship-api/pkg/audit"
	"tedred-internship-api/pkg/database"
	"tedred-internship-api/pkg/email"
	"tedred-internship-api/pkg/logger"
	redispkg "tedred-internship-api/pkg/redis"
	"tedred-internship-api/pkg/security/antivirus"
)

// @title           TedRed Internship API
// @version         1.0
// @description     Internship application wizard with Ikigai department matching.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting internship wizard backend", "port", cfg.Port)

	auditLogger := audit.NewProduction("tedred-internship-api")
	defer auditLogger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Setup Database (optional: submissions are simulated without it)
	var submitter domain.ApplicationSubmitter
	var dbPing usecase.Pinger
	if cfg.DBUrl != "" {
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		submitter = postgres.NewApplicationRepository(dbPool)
		auditLogger.SetPersistFunc(postgres.NewAuditRepository(dbPool).Insert)
		dbPing = dbPool.Ping
	} else {
		submitter = memory.NewSimulatedSubmitter(cfg.SubmitSimulationDelay)
		logger.Log.Warn("Submissions are simulated in memory", "delay", cfg.SubmitSimulationDelay.String())
	}

	// 4. Setup Session Store
	var sessions domain.SessionRepository
	var redisPing usecase.Pinger
	if err := redispkg.Initialize(redispkg.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, sessions are kept in memory", "error", err)
		sessions = memory.NewSessionRepository(cfg.SessionTTL)
	} else {
		defer redispkg.Close()
		sessions = redisrepo.NewSessionRepository(redispkg.Client(), cfg.SessionTTL)
		redisPing = redispkg.HealthCheck
	}

	// 5. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - confirmation emails are disabled")
	}

	// 6. Setup Resume Scanner
	var opts []usecase.Option
	var scanPing usecase.Pinger
	if cfg.ClamAVAddress != "" {
		scanner := antivirus.NewClamAVScanner(cfg.ClamAVAddress, cfg.ClamAVTimeout)
		opts = append(opts, usecase.WithResumeScanner(scanner))
		scanPing = scanner.Ping
	} else {
		logger.Log.Warn("CLAMAV_ADDRESS not set - resumes are not malware scanned")
	}

	// 7. Setup UseCases
	wizardUC := usecase.NewWizardUsecase(sessions, submitter, emailService, auditLogger, usecase.WizardConfig{
		ExportPrefix:      cfg.ExportPrefix,
		SubmitMaxAttempts: cfg.SubmitMaxAttempts,
		SubmitBackoffBase: cfg.SubmitBackoffBase,
		MaxResumeBytes:    cfg.MaxResumeBytes,
	}, opts...)
	healthUC := usecase.NewHealthUsecase(map[string]usecase.Pinger{
		"database":  dbPing,
		"redis":     redisPing,
		"antivirus": scanPing,
	})

	// 8. Setup Rate Limiter (Redis when available, in-memory otherwise)
	rateLimiter := middleware.NewRateLimiter(redispkg.Client(), auditLogger)
	rateLimiter.StartCleanup(ctx, time.Minute)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		WizardUC:    wizardUC,
		HealthUC:    healthUC,
		RateLimiter: rateLimiter,
		Config:      cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
