package v1

import (
	"time"

	"tedred-internship-api/config"
	"tedred-internship-api/internal/delivery/http/middleware"
	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/usecase"
	"tedred-internship-api/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	WizardUC    domain.WizardUsecase
	HealthUC    usecase.HealthUsecase
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(metrics.GinMiddleware())
	r.Use(middleware.ErrorHandler())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")

	if deps.HealthUC != nil {
		NewHealthHandler(v1, deps.HealthUC)
	}

	// Swagger
	if deps.Config.SwaggerEnabled {
		v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Wizard routes (anonymous, addressed by session id)
	public := v1.Group("")
	var submitLimit gin.HandlerFunc
	if deps.RateLimiter != nil {
		window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
		public.Use(deps.RateLimiter.Middleware(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))
		submitLimit = deps.RateLimiter.Middleware(middleware.SubmitRateLimitConfig(deps.Config.RateLimitSubmitThreshold, window))
	}
	{
		NewCatalogHandler(public)
		NewWizardHandler(public, deps.WizardUC, deps.Config.MaxResumeBytes, submitLimit)
	}

	return r
}
