package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/quorix/kb-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configuration
	LlamaCloudConnectorCfg LlamaCloudConnectorConfig `envPrefix:"LLAMACLOUD_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Knowledge entry limits
	KnowledgeCfg KnowledgeConfig `envPrefix:"KNOWLEDGE_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type LlamaCloudConnectorConfig struct {
	HTTPClientConfig
	PipelinesEndpoint string               `env:"PIPELINES_ENDPOINT" envDefault:"/api/v1/pipelines"`
	MetadataCacheTTL  time.Duration        `env:"METADATA_CACHE_TTL" envDefault:"5m"`
	Retry             pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// KnowledgeConfig holds limits for knowledge entry payloads
type KnowledgeConfig struct {
	MaxContentBytes int64 `env:"MAX_CONTENT_BYTES" envDefault:"1048576"` // 1 MiB of text per entry
	MaxNameLength   int   `env:"MAX_NAME_LENGTH" envDefault:"255"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
	}

	if cfg.KnowledgeCfg.MaxContentBytes < 1 {
		return fmt.Errorf("KNOWLEDGE_MAX_CONTENT_BYTES must be positive, got %d", cfg.KnowledgeCfg.MaxContentBytes)
	}

	if cfg.KnowledgeCfg.MaxNameLength < 1 || cfg.KnowledgeCfg.MaxNameLength > 1024 {
		return fmt.Errorf("KNOWLEDGE_MAX_NAME_LENGTH must be between 1 and 1024, got %d", cfg.KnowledgeCfg.MaxNameLength)
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
