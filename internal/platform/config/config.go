package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// Storage selects the repository adapters: "postgres" or "memory".
	Storage string `envconfig:"STORAGE" default:"postgres"`
	// ReferenceFixture seeds products and staff in memory storage mode.
	ReferenceFixture string `envconfig:"REFERENCE_FIXTURE"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"enterprise_booking"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	RedisPassword     string        `envconfig:"REDIS_PASSWORD"`
	RedisDB           int           `envconfig:"REDIS_DB" default:"0"`
	ReferenceCacheTTL time.Duration `envconfig:"REFERENCE_CACHE_TTL" default:"30s"`

	RabbitURL       string `envconfig:"RABBIT_URL"`
	EventsExchange  string `envconfig:"EVENTS_EXCHANGE" default:"booking.events"`
	EventsQueue     string `envconfig:"EVENTS_QUEUE" default:"booking.reactor.q"`
	NoticesExchange string `envconfig:"NOTICES_EXCHANGE" default:"booking.notices"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	PickupCodeTTL     time.Duration `envconfig:"PICKUP_CODE_TTL" default:"24h"`
	ReactorTimeout    time.Duration `envconfig:"REACTOR_TIMEOUT" default:"10s"`
	ReconcileInterval time.Duration `envconfig:"RECONCILE_INTERVAL" default:"1m"`
	ReconcileLookback time.Duration `envconfig:"RECONCILE_LOOKBACK" default:"15m"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}

	switch c.Storage {
	case "postgres":
	case "memory":
		if c.ReferenceFixture == "" {
			return errors.New("REFERENCE_FIXTURE is required when STORAGE=memory")
		}
	default:
		return fmt.Errorf("STORAGE must be postgres or memory, got %q", c.Storage)
	}

	if c.PickupCodeTTL <= 0 {
		return errors.New("PICKUP_CODE_TTL must be positive")
	}

	if c.ReconcileInterval <= 0 {
		return errors.New("RECONCILE_INTERVAL must be positive")
	}

	return nil
}
