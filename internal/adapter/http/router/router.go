package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clinassure/bias-audit-api/internal/adapter/client"
	"github.com/clinassure/bias-audit-api/internal/adapter/http/handler"
	"github.com/clinassure/bias-audit-api/internal/adapter/http/middleware"
	"github.com/clinassure/bias-audit-api/internal/adapter/repository/postgres"
	"github.com/clinassure/bias-audit-api/internal/domain/repository"
	"github.com/clinassure/bias-audit-api/internal/domain/service"
	"github.com/clinassure/bias-audit-api/internal/infrastructure/cache"
	"github.com/clinassure/bias-audit-api/internal/infrastructure/config"
	"github.com/clinassure/bias-audit-api/internal/usecase"
)

// Deps carries the wired adapters the router exposes. DB and Redis are
// optional; the routes that need them degrade when absent.
type Deps struct {
	Classifier service.Classifier
	ChatClient client.ChatClient
	FewShotCfg *config.FewShotConfig
	LLMModel   string
	DB         *gorm.DB
	Redis      *redis.Client
	CacheTTL   time.Duration
	Logger     *zap.Logger
}

// Setup creates and configures the Gin router
func Setup(deps Deps) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.DB, deps.Redis)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Optional adapters
	var auditRepo repository.AuditRepository
	if deps.DB != nil {
		auditRepo = postgres.NewAuditRepository(deps.DB)
	}
	var analysisCache *cache.AnalysisCache
	if deps.Redis != nil {
		analysisCache = cache.NewAnalysisCache(deps.Redis, deps.CacheTTL)
	}

	analyzer := client.NewFewShotClassifier(deps.ChatClient, deps.LLMModel, deps.FewShotCfg)
	explainer := client.NewLLMExplainer(deps.ChatClient, deps.LLMModel)

	auditUC := usecase.NewAuditUsecase(
		deps.Classifier,
		analyzer,
		explainer,
		auditRepo,
		analysisCache,
		deps.FewShotCfg,
		deps.LLMModel,
		deps.Logger,
	)

	predictHandler := handler.NewPredictHandler(auditUC)
	historyHandler := handler.NewHistoryHandler(auditUC)

	router.GET("/model-info", predictHandler.ModelInfo)
	router.POST("/predict", predictHandler.Predict)
	router.POST("/predict-fewshot", predictHandler.PredictFewShot)
	router.POST("/predict-batch", predictHandler.PredictBatch)
	router.GET("/audit-history", historyHandler.History)

	return router
}
