package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend drivers.
const (
	DriverQA     = "qa"
	DriverOpenAI = "openai"
)

// Config holds the kilnchat API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Backend   BackendConfig   `yaml:"backend"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// BackendConfig holds the answer backend settings.
type BackendConfig struct {
	Driver       string `yaml:"driver"`   // qa, openai (default: qa)
	BaseURL      string `yaml:"base_url"` // required for qa; optional override for openai
	Domain       string `yaml:"domain"`   // path segment of /api/<domain>/query (default: Pottery)
	APIKey       string `yaml:"api_key"`  // bearer credential; required for openai
	TimeoutSec   int    `yaml:"timeout_sec"`
	DefaultTopK  int    `yaml:"default_top_k"` // 0 = backend default
	Model        string `yaml:"model"`         // openai only
	SystemPrompt string `yaml:"system_prompt"` // openai only
}

// Rate limit store drivers.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreValkey = "valkey"
)

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	RPS   float64     `yaml:"rps"` // 0 = disabled
	Burst int         `yaml:"burst"`
	Store StoreConfig `yaml:"store"`
}

// StoreConfig holds the rate limit counter store. memory keeps buckets per replica;
// redis and valkey share fixed-window counters across replicas.
type StoreConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis, valkey (default: memory)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Shared reports whether counters live in an external store.
func (c StoreConfig) Shared() bool {
	return c.Driver == StoreRedis || c.Driver == StoreValkey
}

// Enabled reports whether rate limiting is configured.
func (c RateLimitConfig) Enabled() bool {
	return c.RPS > 0
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Backend.Driver == "" {
		c.Backend.Driver = DriverQA
	}
	if c.Backend.Domain == "" {
		c.Backend.Domain = "Pottery"
	}
	if c.Backend.TimeoutSec <= 0 {
		c.Backend.TimeoutSec = 30
	}
	if c.Backend.Model == "" {
		c.Backend.Model = "gpt-4o-mini"
	}
	if c.RateLimit.Enabled() && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = int(math.Ceil(c.RateLimit.RPS))
	}
	if c.RateLimit.Store.Driver == "" {
		c.RateLimit.Store.Driver = StoreMemory
	}
	if c.RateLimit.Store.KeyPrefix == "" {
		c.RateLimit.Store.KeyPrefix = "kilnchat:ratelimit:"
	}
	if c.RateLimit.Store.ReadinessTimeout <= 0 {
		c.RateLimit.Store.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Backend.Driver {
	case DriverQA:
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("backend.base_url is required for driver %q", DriverQA)
		}
	case DriverOpenAI:
		if c.Backend.APIKey == "" {
			return fmt.Errorf("backend.api_key is required for driver %q", DriverOpenAI)
		}
	default:
		return fmt.Errorf("backend.driver must be %q or %q, got %q", DriverQA, DriverOpenAI, c.Backend.Driver)
	}
	if c.Backend.BaseURL != "" {
		if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("backend.base_url must be an absolute URL, got %q", c.Backend.BaseURL)
		}
	}
	if c.Backend.DefaultTopK < 0 {
		return fmt.Errorf("backend.default_top_k must not be negative, got %d", c.Backend.DefaultTopK)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit.rps and rate_limit.burst must not be negative")
	}
	switch c.RateLimit.Store.Driver {
	case StoreMemory:
	case StoreRedis, StoreValkey:
		if c.RateLimit.Enabled() && len(c.RateLimit.Store.Addrs) == 0 {
			return fmt.Errorf("rate_limit.store.addrs is required for driver %q", c.RateLimit.Store.Driver)
		}
	default:
		return fmt.Errorf("rate_limit.store.driver must be %q, %q or %q, got %q",
			StoreMemory, StoreRedis, StoreValkey, c.RateLimit.Store.Driver)
	}
	return nil
}

// BackendTimeout returns the outbound request timeout.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSec) * time.Second
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
