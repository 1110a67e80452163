package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	pkgRetry "github.com/adforge/adgen-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8000"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Storage directories
	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`
	OutputDir string `env:"OUTPUT_DIR" envDefault:"generated_ads"`

	// Image generation backend
	ImageGenCfg ImageGenConfig `envPrefix:"IMAGEGEN_"`

	// Generation fan-out behavior
	GenerationCfg GenerationConfig `envPrefix:"GENERATION_"`

	// Image upload limits
	ImageUploadCfg ImageUploadConfig `envPrefix:"IMAGE_UPLOAD_"`

	// In-memory store expiry; non-positive disables expiry
	ConversationTTL time.Duration `env:"CONVERSATION_TTL" envDefault:"24h"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// ImageGenConfig configures the Gemini image generation connector.
type ImageGenConfig struct {
	HTTPClientConfig
	APIKey string               `env:"API_KEY"`
	Model  string               `env:"MODEL" envDefault:"gemini-2.5-flash-image-preview"`
	Retry  pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// GenerationConfig controls the variation fan-out.
type GenerationConfig struct {
	Concurrent bool          `env:"CONCURRENT" envDefault:"true"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"90s"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"120s"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
}

// ImageUploadConfig holds product image upload limits
type ImageUploadConfig struct {
	MaxImageSize int64 `env:"MAX_IMAGE_SIZE" envDefault:"10485760"` // 10 MiB
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
	if cfg.ImageUploadCfg.MaxImageSize < 1 {
		return fmt.Errorf("IMAGE_UPLOAD_MAX_IMAGE_SIZE must be positive, got %d", cfg.ImageUploadCfg.MaxImageSize)
	}

	if cfg.GenerationCfg.Timeout < time.Second {
		return fmt.Errorf("GENERATION_TIMEOUT must be at least 1s, got %s", cfg.GenerationCfg.Timeout)
	}

	if !cfg.EnableMocks && cfg.ImageGenCfg.APIKey == "" {
		return fmt.Errorf("IMAGEGEN_API_KEY is required unless ENABLE_MOCKS=true")
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "local":
		return ".env.local"
	case "prod":
		return ".env"
	default:
		return ".env." + environment
	}
}
