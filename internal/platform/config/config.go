package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	// EnableSwagger serves /swagger; it defaults to off in production.
	EnableSwagger bool
	JWTSecret     string
	JWTIssuer     string

	// RateLimit uses the limiter format, e.g. "100-M" for 100 requests per minute.
	RateLimit string

	// Reconciliation retry policy for serialization conflicts
	ReconcileMaxRetries      uint64
	ReconcileRetryInterval   time.Duration
	ReconcileRetryMaxElapsed time.Duration

	// Event publishing; an empty AMQPURL disables it.
	AMQPURL      string
	AMQPExchange string

	MigrationsPath string

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "money-reconcile")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("RECONCILE_MAX_RETRIES", 5)
	viper.SetDefault("RECONCILE_RETRY_INITIAL_INTERVAL", "50ms")
	viper.SetDefault("RECONCILE_RETRY_MAX_ELAPSED", "5s")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "reconciliation")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Using the in-memory store.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	if cfg.RateLimit == "" {
		cfg.RateLimit = "100-M"
	}

	cfg.ReconcileMaxRetries = viper.GetUint64("RECONCILE_MAX_RETRIES")
	cfg.ReconcileRetryInterval = durationOrDefault("RECONCILE_RETRY_INITIAL_INTERVAL", 50*time.Millisecond)
	cfg.ReconcileRetryMaxElapsed = durationOrDefault("RECONCILE_RETRY_MAX_ELAPSED", 5*time.Second)

	cfg.AMQPURL = viper.GetString("AMQP_URL")
	cfg.AMQPExchange = viper.GetString("AMQP_EXCHANGE")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	viper.SetDefault("SWAGGER_ENABLED", !cfg.IsProduction)
	cfg.EnableSwagger = viper.GetBool("SWAGGER_ENABLED")

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

// splitList parses a comma separated setting, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
