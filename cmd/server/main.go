// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/price-tracker/internal/config"
	"github.com/javajoker/price-tracker/internal/database"
	"github.com/javajoker/price-tracker/internal/i18n"
	"github.com/javajoker/price-tracker/internal/logging"
	"github.com/javajoker/price-tracker/internal/router"
	"github.com/javajoker/price-tracker/internal/scheduler"
	"github.com/javajoker/price-tracker/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := logging.Setup(cfg.Log)

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	seeds, err := database.LoadPlatformSeeds(cfg.Catalog.PlatformSeedFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load platform seeds")
	}
	if err := database.SeedPlatforms(db, seeds); err != nil {
		logger.WithError(err).Fatal("Failed to seed platforms")
	}

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logger.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	scraperService := services.NewScraperService(cfg.Scraper, logger)

	// Initialize router
	r := router.Initialize(db, cfg, router.Dependencies{
		Logger:  logger,
		Scraper: scraperService,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scrapeScheduler := scheduler.New(cfg.Scraper.Cron, cfg.Scraper.Platforms, scraperService, logger)
	if err := scrapeScheduler.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to start scrape scheduler")
	}

	// Create HTTP server
	srv := newServer(cfg.Server, r)

	// Start server in a goroutine
	go func() {
		logger.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Info("Shutting down server...")

	scrapeScheduler.Stop()

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func newServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
}
