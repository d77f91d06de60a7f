// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/price-tracker/internal/config"
	"github.com/javajoker/price-tracker/internal/handlers"
	"github.com/javajoker/price-tracker/internal/metrics"
	"github.com/javajoker/price-tracker/internal/middleware"
	"github.com/javajoker/price-tracker/internal/repository"
	"github.com/javajoker/price-tracker/internal/services"
	"github.com/javajoker/price-tracker/internal/utils"
)

const version = "1.0.0"

// Dependencies are the collaborators built outside the HTTP layer. Zero values are
// replaced with defaults.
type Dependencies struct {
	Logger   logrus.FieldLogger
	Registry *prometheus.Registry
	Scraper  *services.ScraperService
}

func Initialize(db *gorm.DB, cfg *config.Config, deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
		deps.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if deps.Scraper == nil {
		deps.Scraper = services.NewScraperService(cfg.Scraper, deps.Logger)
	}

	// Initialize services
	catalogRepo := repository.NewCatalogRepository(db)
	ingestionService := services.NewIngestionService(catalogRepo, deps.Logger, metrics.NewIngestion(deps.Registry))
	catalogService := services.NewCatalogService(catalogRepo)

	// Initialize handlers
	ingestionHandler := handlers.NewIngestionHandler(ingestionService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	scraperHandler := handlers.NewScraperHandler(deps.Scraper)

	// Bearer tokens come from the identity service
	utils.SetJWTValidation(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))

	general, ingest, admin := rateLimits(cfg.RateLimit)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": version,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		// Scraper service callback
		api.POST("/DataIngestion/ingest", ingest, ingestionHandler.Ingest)

		catalog := api.Group("")
		catalog.Use(general)
		{
			catalog.GET("/Product/:id", catalogHandler.GetProduct)
			catalog.GET("/Product/:id/pricehistory", catalogHandler.GetPriceHistory)
			catalog.GET("/Platform", catalogHandler.ListPlatforms)
		}
	}

	// Scraper administration
	scraper := r.Group("/Scraper")
	scraper.Use(middleware.AuthRequired(), middleware.AdminRequired(cfg.JWT.AdminRole))
	{
		scraper.GET("/status", scraperHandler.Status)
		scraper.POST("/:platform/trigger", admin, scraperHandler.Trigger)
	}

	return r
}

func rateLimits(cfg config.RateLimitConfig) (general, ingest, admin gin.HandlerFunc) {
	if !cfg.Enabled {
		return middleware.PerSecond(0, 0), middleware.PerMinute(0, 0), middleware.PerMinute(0, 0)
	}
	return middleware.PerSecond(cfg.RequestsPerSecond, cfg.Burst),
		middleware.PerMinute(cfg.IngestPerMinute, cfg.IngestBurst),
		middleware.PerMinute(cfg.AdminPerMinute, 1)
}
