package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the chartgen server.
type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Storage StorageConfig
	Insight InsightConfig
	Jobs    JobsConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type RedisConfig struct {
	// URL is optional; when empty the server runs with a no-op cache.
	URL string
}

type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
	Disabled      bool
}

type InsightConfig struct {
	Provider  string
	Timeout   time.Duration
	MaxTokens int
	OpenAI    OpenAIConfig
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type JobsConfig struct {
	Retention     time.Duration
	SweepInterval time.Duration
	MaxJobs       int
}

var validProviders = map[string]bool{
	"openai": true,
	"mock":   true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("CHARTGEN_PORT", 8080),
			Env:  envString("CHARTGEN_ENV", "development"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Storage: StorageConfig{
			Endpoint:      os.Getenv("STORAGE_ENDPOINT"),
			AccessKey:     os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey:     os.Getenv("STORAGE_SECRET_KEY"),
			Bucket:        envString("STORAGE_BUCKET", "charts"),
			UseSSL:        envBool("STORAGE_USE_SSL", true),
			PublicBaseURL: os.Getenv("STORAGE_PUBLIC_BASE_URL"),
			Disabled:      envBool("STORAGE_DISABLED", false),
		},
		Insight: InsightConfig{
			Provider:  envString("INSIGHT_PROVIDER", "mock"),
			Timeout:   envDurationSecs("INSIGHT_TIMEOUT_SECS", 30*time.Second),
			MaxTokens: envInt("INSIGHT_MAX_TOKENS", 256),
			OpenAI: OpenAIConfig{
				APIKey: os.Getenv("OPENAI_API_KEY"),
				Model:  envString("OPENAI_MODEL", "gpt-4o-mini"),
			},
		},
		Jobs: JobsConfig{
			Retention:     envDuration("JOB_RETENTION", time.Hour),
			SweepInterval: envDuration("JOB_SWEEP_INTERVAL", time.Hour),
			MaxJobs:       envInt("JOB_MAX_JOBS", 1000),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("CHARTGEN_PORT must be a valid port, got %d", c.Server.Port)
	}

	if !validProviders[c.Insight.Provider] {
		return fmt.Errorf("INSIGHT_PROVIDER must be one of openai, mock; got %q", c.Insight.Provider)
	}
	if c.Insight.Provider == "openai" && c.Insight.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when INSIGHT_PROVIDER is openai")
	}

	if !c.Storage.Disabled {
		if c.Storage.Endpoint == "" {
			return fmt.Errorf("STORAGE_ENDPOINT is required unless STORAGE_DISABLED=true")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required unless STORAGE_DISABLED=true")
		}
	}
	if c.Storage.PublicBaseURL != "" &&
		!strings.HasPrefix(c.Storage.PublicBaseURL, "http://") &&
		!strings.HasPrefix(c.Storage.PublicBaseURL, "https://") {
		return fmt.Errorf("STORAGE_PUBLIC_BASE_URL must start with http:// or https://, got %q", c.Storage.PublicBaseURL)
	}

	if c.Jobs.Retention <= 0 {
		return fmt.Errorf("JOB_RETENTION must be positive, got %s", c.Jobs.Retention)
	}
	if c.Jobs.SweepInterval <= 0 {
		return fmt.Errorf("JOB_SWEEP_INTERVAL must be positive, got %s", c.Jobs.SweepInterval)
	}
	if c.Jobs.MaxJobs <= 0 {
		return fmt.Errorf("JOB_MAX_JOBS must be positive, got %d", c.Jobs.MaxJobs)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
