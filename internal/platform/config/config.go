package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FrankfurterConfig holds the upstream rate provider settings, including the
// retry and circuit breaker knobs for its HTTP client.
type FrankfurterConfig struct {
	URL                  string
	HTTPTimeout          time.Duration
	MaxRetries           uint64
	RetryInitialInterval time.Duration
	BreakerMinRequests   uint32
	BreakerFailureRatio  float64
	BreakDuration        time.Duration
	CutoffHourUTC        int
}

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	JWTSecret    string
	JWTIssuer    string

	// Rate limiting (requests per RateLimitPeriod, keyed by client IP)
	RateLimitRequests int64
	RateLimitPeriod   time.Duration

	Frankfurter FrankfurterConfig
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "fx-rates-app")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 10)
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")
	viper.SetDefault("FRANKFURTER_URL", "https://api.frankfurter.dev")
	viper.SetDefault("FRANKFURTER_HTTP_TIMEOUT", "10s")
	viper.SetDefault("FRANKFURTER_MAX_RETRIES", 5)
	viper.SetDefault("FRANKFURTER_RETRY_INITIAL_INTERVAL", "500ms")
	viper.SetDefault("FRANKFURTER_BREAKER_MIN_REQUESTS", 3)
	viper.SetDefault("FRANKFURTER_BREAKER_FAILURE_RATIO", 0.6)
	viper.SetDefault("FRANKFURTER_BREAK_DURATION", "60s")
	viper.SetDefault("RATES_CUTOFF_HOUR_UTC", 15)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RateLimitRequests = viper.GetInt64("RATE_LIMIT_REQUESTS")
	cfg.RateLimitPeriod = parseDurationOr("RATE_LIMIT_PERIOD", time.Minute)

	cfg.Frankfurter = FrankfurterConfig{
		URL:                  viper.GetString("FRANKFURTER_URL"),
		HTTPTimeout:          parseDurationOr("FRANKFURTER_HTTP_TIMEOUT", 10*time.Second),
		MaxRetries:           viper.GetUint64("FRANKFURTER_MAX_RETRIES"),
		RetryInitialInterval: parseDurationOr("FRANKFURTER_RETRY_INITIAL_INTERVAL", 500*time.Millisecond),
		BreakerMinRequests:   viper.GetUint32("FRANKFURTER_BREAKER_MIN_REQUESTS"),
		BreakerFailureRatio:  viper.GetFloat64("FRANKFURTER_BREAKER_FAILURE_RATIO"),
		BreakDuration:        parseDurationOr("FRANKFURTER_BREAK_DURATION", 60*time.Second),
		CutoffHourUTC:        viper.GetInt("RATES_CUTOFF_HOUR_UTC"),
	}
	if cfg.Frankfurter.CutoffHourUTC < 0 || cfg.Frankfurter.CutoffHourUTC > 23 {
		log.Printf("Warning: Invalid value for RATES_CUTOFF_HOUR_UTC (%d). Defaulting to 15.\n", cfg.Frankfurter.CutoffHourUTC)
		cfg.Frankfurter.CutoffHourUTC = 15
	}

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		return fallback
	}
	return d
}
