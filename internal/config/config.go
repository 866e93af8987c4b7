// Package config loads settings for the ratexpr command and evaluation
// service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/ratexpr"
)

// Config holds all ratexpr configuration.
type Config struct {
	// Parser limits
	Limits LimitsConfig `yaml:"limits"`

	// HTTP service
	Server ServerConfig `yaml:"server"`

	// Logging
	Log LogConfig `yaml:"log"`
}

// LimitsConfig bounds the size of accepted expressions. Zero disables a
// limit.
type LimitsConfig struct {
	MaxDepth  int `yaml:"max_depth"`
	MaxTokens int `yaml:"max_tokens"`
}

// ServerConfig configures the evaluation service.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// Workers caps concurrent evaluations within one batch request.
	Workers int `yaml:"workers"`
	// MaxBatch is the most expressions accepted in one batch request.
	MaxBatch int `yaml:"max_batch"`
	// MaxBodyBytes is the largest request body accepted.
	MaxBodyBytes int `yaml:"max_body_bytes"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxDepth:  ratexpr.DefaultMaxDepth,
			MaxTokens: ratexpr.DefaultMaxTokens,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			Workers:      4,
			MaxBatch:     256,
			MaxBodyBytes: 64 << 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override the file in either case.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Use defaults.
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if s := os.Getenv("RATEXPR_MAX_DEPTH"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid RATEXPR_MAX_DEPTH: %w", err)
		}
		c.Limits.MaxDepth = n
	}
	if s := os.Getenv("RATEXPR_MAX_TOKENS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid RATEXPR_MAX_TOKENS: %w", err)
		}
		c.Limits.MaxTokens = n
	}
	if addr := os.Getenv("RATEXPR_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("RATEXPR_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Limits.MaxDepth < 0 {
		return fmt.Errorf("limits.max_depth must not be negative, got %d", c.Limits.MaxDepth)
	}
	if c.Limits.MaxTokens < 0 {
		return fmt.Errorf("limits.max_tokens must not be negative, got %d", c.Limits.MaxTokens)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.Workers < 0 {
		return fmt.Errorf("server.workers must not be negative, got %d", c.Server.Workers)
	}
	if c.Server.MaxBatch <= 0 {
		return fmt.Errorf("server.max_batch must be positive, got %d", c.Server.MaxBatch)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return nil
}

// ParseOptions returns the parser options the limits describe.
func (c *Config) ParseOptions() []ratexpr.ParseOption {
	return []ratexpr.ParseOption{
		ratexpr.MaxDepth(c.Limits.MaxDepth),
		ratexpr.MaxTokens(c.Limits.MaxTokens),
	}
}

// Logger builds a zap logger at the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
