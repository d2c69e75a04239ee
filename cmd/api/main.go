package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinassure/bias-audit-api/internal/adapter/client"
	"github.com/clinassure/bias-audit-api/internal/adapter/http/router"
	"github.com/clinassure/bias-audit-api/internal/adapter/inference"
	"github.com/clinassure/bias-audit-api/internal/infrastructure/cache"
	"github.com/clinassure/bias-audit-api/internal/infrastructure/config"
	"github.com/clinassure/bias-audit-api/internal/infrastructure/database"
	"github.com/clinassure/bias-audit-api/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Load the classifier. A missing model artifact is fatal: the service
	// must never come up answering /health without weights.
	model, err := inference.LoadModel(cfg.Model.Path, cfg.Model.MaxSeqLen)
	if err != nil {
		log.Error("Failed to load model", zap.String("path", cfg.Model.Path), zap.Error(err))
		return fmt.Errorf("failed to load model: %w", err)
	}
	defer model.Destroy()
	log.Info("Model loaded", zap.String("path", cfg.Model.Path))

	// Load few-shot configuration (falls back to built-in defaults)
	fewShotCfg, err := config.LoadFewShot(cfg.LLM.ExamplesFile)
	if err != nil {
		log.Error("Failed to load few-shot configuration", zap.Error(err))
		return fmt.Errorf("failed to load few-shot configuration: %w", err)
	}
	log.Info("Few-shot configuration loaded",
		zap.String("file", fewShotCfg.SourceFile),
		zap.Int("categories", len(fewShotCfg.Categories)),
		zap.Int("examples", fewShotCfg.TotalExamplePairs()))

	// External LLM client. Missing credentials are not fatal; the few-shot
	// and explanation paths degrade per request instead.
	chatClient := newChatClient(cfg, log)

	// Initialize database (optional, continue without history)
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Warn("Failed to connect to database, continuing without audit history", zap.Error(err))
		db = nil
	} else {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Connected to database")
	}

	// Initialize Redis (optional, continue without it)
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
		redisClient = nil
	} else {
		log.Info("Connected to Redis")
	}

	// Setup router
	r := router.Setup(router.Deps{
		Classifier: inference.NewClassifier(model),
		ChatClient: chatClient,
		FewShotCfg: fewShotCfg,
		LLMModel:   cfg.LLM.Model,
		DB:         db,
		Redis:      redisClient,
		CacheTTL:   time.Duration(cfg.LLM.CacheTTLSecs) * time.Second,
		Logger:     log,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close database connection
	if db != nil {
		if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	}

	// Close Redis connection
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
	return nil
}

// newChatClient picks the configured LLM provider. It returns nil when no
// credential is configured; the adapters treat nil as missing_api_key.
func newChatClient(cfg *config.Config, log *zap.Logger) client.ChatClient {
	timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second

	switch cfg.LLM.Provider {
	case "gemini":
		if cfg.LLM.GeminiAPIKey == "" {
			log.Warn("GEMINI_API_KEY not set, LLM-backed routes will degrade")
			return nil
		}
		gemini, err := client.NewGeminiClient(context.Background(), cfg.LLM.GeminiAPIKey)
		if err != nil {
			log.Warn("Failed to initialize Gemini client, LLM-backed routes will degrade", zap.Error(err))
			return nil
		}
		log.Info("Using Gemini provider", zap.String("model", cfg.LLM.Model))
		return gemini
	default:
		if cfg.LLM.APIKey == "" {
			log.Warn("OPENAI_API_KEY not set, LLM-backed routes will degrade")
			return nil
		}
		log.Info("Using OpenAI provider", zap.String("model", cfg.LLM.Model))
		return client.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, timeout)
	}
}
