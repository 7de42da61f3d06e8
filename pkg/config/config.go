package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	OpenAI  OpenAIConfig
	Retry   RetryConfig
	Paths   PathsConfig
	Logging LoggingConfig
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey      string        `envconfig:"OPENAI_API_KEY"`
	Model       string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	BaseURL     string        `envconfig:"OPENAI_BASE_URL"`
	Timeout     time.Duration `envconfig:"OPENAI_TIMEOUT" default:"60s"`
	Temperature float64       `envconfig:"AI_TEMPERATURE" default:"0"`
	MaxTokens   int           `envconfig:"AI_MAX_TOKENS" default:"2000"`
	ImageModel  string        `envconfig:"OPENAI_IMAGE_MODEL" default:"gpt-image-1"`
	ImageSize   string        `envconfig:"OPENAI_IMAGE_SIZE" default:"1024x1024"`
}

// RetryConfig bounds retries against the OpenAI API. MaxAttempts counts
// the initial call; MaxCorrections bounds re-asks after unparseable output.
type RetryConfig struct {
	MaxAttempts     int           `envconfig:"AI_MAX_ATTEMPTS" default:"3"`
	InitialInterval time.Duration `envconfig:"AI_RETRY_INITIAL" default:"2s"`
	MaxInterval     time.Duration `envconfig:"AI_RETRY_MAX_INTERVAL" default:"10s"`
	MaxCorrections  int           `envconfig:"AI_MAX_CORRECTIONS" default:"2"`
}

// PathsConfig holds the working directories of the tool
type PathsConfig struct {
	CacheDir     string `envconfig:"CACHE_DIR" default:"cache/ai_outputs"`
	ReportsDir   string `envconfig:"REPORTS_DIR" default:"reports"`
	AssetsDir    string `envconfig:"ASSETS_DIR" default:"assets"`
	TemplatesDir string `envconfig:"TEMPLATES_DIR" default:"templates"`
	FixturesDir  string `envconfig:"FIXTURES_DIR" default:"fixtures"`
	LogsDir      string `envconfig:"LOGS_DIR" default:"logs"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	config, err := Read()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Read parses the environment without requiring an API key. Commands that
// never call the API (cache maintenance) load config this way.
func Read() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if !strings.HasPrefix(c.OpenAI.APIKey, "sk-") {
		log.Printf("Warning: OPENAI_API_KEY does not look like an OpenAI key")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("AI_MAX_ATTEMPTS must be at least 1")
	}
	if c.Retry.MaxCorrections < 0 {
		return fmt.Errorf("AI_MAX_CORRECTIONS must not be negative")
	}
	return nil
}
