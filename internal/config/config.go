// Package config loads HomeLLM configuration from YAML, the environment and
// an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/spherical/homellm/internal/analysis"
	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/observability"
)

// Environment variables read by applyEnvOverrides.
const (
	EnvAnalysisEndpoint = "HOMELLM_ANALYSIS_ENDPOINT"
	EnvAPIBaseURL       = "HOMELLM_API_BASE_URL"
	EnvAPIKey           = "HOMELLM_API_KEY"
	EnvAnalysisModel    = "HOMELLM_ANALYSIS_MODEL"
)

// Config holds all configuration for HomeLLM.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Analysis      AnalysisConfig      `yaml:"analysis"`
	Cache         CacheConfig         `yaml:"cache"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// AnalysisConfig holds remote analysis settings.
type AnalysisConfig struct {
	Endpoint string        `yaml:"endpoint"` // explicit override URL
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// Environment defaults, lowest precedence.
	EnvEndpoint string `yaml:"-"`
	EnvBaseURL  string `yaml:"-"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Backend    string      `yaml:"backend"` // memory or redis
	MaxEntries int         `yaml:"max_entries"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"` // stdout or stderr
}

// Load reads configuration from a YAML file and applies environment overrides.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			MaxUploadBytes:   20 * 1024 * 1024,
			AllowedOrigins:   []string{"*"},
		},
		Analysis: AnalysisConfig{
			Model:    analysis.DefaultModel,
			CacheTTL: 24 * time.Hour,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			MaxEntries: 500,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "homellm:",
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
			LogOutput: "stderr",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return domain.ConfigError(fmt.Sprintf("invalid server port: %d", c.Server.Port), nil)
	}

	if c.Server.MaxUploadBytes <= 0 {
		return domain.ConfigError("max_upload_bytes must be positive", nil)
	}

	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return domain.ConfigError(fmt.Sprintf("invalid cache backend: %s", c.Cache.Backend), nil)
	}

	if c.Cache.Backend == "redis" && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return domain.ConfigError("redis cache requires an address", nil)
	}

	if c.Observability.LogFormat != "json" && c.Observability.LogFormat != "console" {
		return domain.ConfigError(fmt.Sprintf("invalid log format: %s", c.Observability.LogFormat), nil)
	}

	if o := c.Observability.LogOutput; o != "stdout" && o != "stderr" {
		return domain.ConfigError(fmt.Sprintf("invalid log output: %s", o), nil)
	}

	if !observability.ValidLevel(c.Observability.LogLevel) {
		return domain.ConfigError(fmt.Sprintf("invalid log level: %s", c.Observability.LogLevel), nil)
	}

	if c.Analysis.CacheTTL < 0 {
		return domain.ConfigError("analysis cache_ttl cannot be negative", nil)
	}

	return nil
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AnalysisEndpoint resolves the remote analysis URL; "" when none is configured.
func (c *Config) AnalysisEndpoint() string {
	return analysis.ResolveEndpoint(analysis.EndpointSources{
		Override:    c.Analysis.Endpoint,
		BaseURL:     c.Analysis.BaseURL,
		EnvEndpoint: c.Analysis.EnvEndpoint,
		EnvBaseURL:  c.Analysis.EnvBaseURL,
	})
}

// LogConfig builds the logger configuration for a service.
func (c *Config) LogConfig(serviceName string) observability.LogConfig {
	return observability.LogConfig{
		Level:       c.Observability.LogLevel,
		Format:      c.Observability.LogFormat,
		Output:      observability.OutputWriter(c.Observability.LogOutput),
		ServiceName: serviceName,
	}
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	cfg.Analysis.EnvEndpoint = os.Getenv(EnvAnalysisEndpoint)
	cfg.Analysis.EnvBaseURL = os.Getenv(EnvAPIBaseURL)

	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Analysis.APIKey = v
	}

	if v := os.Getenv(EnvAnalysisModel); v != "" {
		cfg.Analysis.Model = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Backend = "redis"
		if opts, err := redis.ParseURL(v); err == nil {
			cfg.Cache.Redis.Addr = opts.Addr
			cfg.Cache.Redis.Password = opts.Password
			cfg.Cache.Redis.DB = opts.DB
		} else {
			// Bare host:port
			cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
