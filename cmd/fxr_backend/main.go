package main

import (
	"log/slog"
	"os"

	"github.com/SscSPs/fx_rates_app/internal/adapters/frankfurter"
	portssvc "github.com/SscSPs/fx_rates_app/internal/core/ports/services"
	"github.com/SscSPs/fx_rates_app/internal/core/services"
	"github.com/SscSPs/fx_rates_app/internal/handlers"
	"github.com/SscSPs/fx_rates_app/internal/middleware"
	"github.com/SscSPs/fx_rates_app/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title FX Rates API
// @version 1.0
// @description Exchange rate lookup, conversion and history backed by the Frankfurter API.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer, err := buildServices(cfg, logger)
	if err != nil {
		logger.Error("Failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	limiterInstance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: cfg.RateLimitPeriod,
		Limit:  cfg.RateLimitRequests,
	})

	handlers.RegisterRoutes(r, cfg, serviceContainer, limiterInstance)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, logger *slog.Logger) (*portssvc.ServiceContainer, error) {
	client, err := frankfurter.NewClient(frankfurter.ClientConfig{
		BaseURL:              cfg.Frankfurter.URL,
		HTTPTimeout:          cfg.Frankfurter.HTTPTimeout,
		MaxRetries:           cfg.Frankfurter.MaxRetries,
		RetryInitialInterval: cfg.Frankfurter.RetryInitialInterval,
		BreakerMinRequests:   cfg.Frankfurter.BreakerMinRequests,
		BreakerFailureRatio:  cfg.Frankfurter.BreakerFailureRatio,
		BreakDuration:        cfg.Frankfurter.BreakDuration,
	}, logger)
	if err != nil {
		return nil, err
	}

	registry := services.NewProviderRegistry()
	registry.Register(frankfurter.ProviderID, frankfurter.NewProvider(client, cfg.Frankfurter.CutoffHourUTC))

	exchangeRateService, err := services.NewExchangeRateService(registry, frankfurter.ProviderID)
	if err != nil {
		return nil, err
	}

	return &portssvc.ServiceContainer{ExchangeRate: exchangeRateService}, nil
}
