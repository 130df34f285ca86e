// Package config loads service configuration from an optional YAML file with
// environment variables layered on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Server     Server           `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Auth       AuthConfig       `yaml:"auth"`
	Generation GenerationConfig `yaml:"generation"`
	Kits       KitsConfig       `yaml:"kits"`
	Patterns   PatternsConfig   `yaml:"patterns"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig points at Postgres. An empty URL selects the in-memory stores.
type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	MaxOpenConns   int           `yaml:"max_open_conns"`
	MaxIdleConns   int           `yaml:"max_idle_conns"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// RedisConfig configures the pattern cache. An empty URL disables caching.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// KafkaConfig configures the audit stream. No brokers means audit events are
// only logged.
type KafkaConfig struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	ClientID string   `yaml:"client_id"`
}

type AuthConfig struct {
	JWTSigningKey string `yaml:"jwt_signing_key"`
	JWTIssuer     string `yaml:"jwt_issuer"`
	JWTAudience   string `yaml:"jwt_audience"`
}

// GenerationConfig selects the completion provider. An empty APIKey leaves
// generation unavailable rather than failing startup.
type GenerationConfig struct {
	Provider     string        `yaml:"provider"`
	APIKey       string        `yaml:"api_key"`
	Model        string        `yaml:"model"`
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	ScreenOutput bool          `yaml:"screen_output"`
}

type KitsConfig struct {
	DuplicationScope string `yaml:"duplication_scope"`
}

type PatternsConfig struct {
	MinSample int           `yaml:"min_sample"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DuplicationOwnedOrPublished = "owned_or_published"
	DuplicationAny              = "any"
)

// Default returns the development defaults.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Log:    LogConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{
			MaxOpenConns:   10,
			MaxIdleConns:   5,
			ConnectTimeout: 30 * time.Second,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{Topic: "algowatch.audit", ClientID: "algowatch"},
		Auth: AuthConfig{
			JWTSigningKey: "dev-secret-key-change-in-production",
			JWTIssuer:     "algowatch",
			JWTAudience:   "algowatch-api",
		},
		Generation: GenerationConfig{
			Provider: ProviderOpenAI,
			Timeout:  60 * time.Second,
		},
		Kits:     KitsConfig{DuplicationScope: DuplicationOwnedOrPublished},
		Patterns: PatternsConfig{MinSample: 0, CacheTTL: time.Minute},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// non-empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	switch c.Generation.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("generation provider %q: must be %q or %q", c.Generation.Provider, ProviderOpenAI, ProviderGemini)
	}
	switch c.Kits.DuplicationScope {
	case DuplicationOwnedOrPublished, DuplicationAny:
	default:
		return fmt.Errorf("duplication scope %q: must be %q or %q", c.Kits.DuplicationScope, DuplicationOwnedOrPublished, DuplicationAny)
	}
	if c.Patterns.MinSample < 0 {
		return fmt.Errorf("patterns min sample must not be negative")
	}
	if c.Auth.JWTSigningKey == "" {
		return fmt.Errorf("jwt signing key is required")
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []string
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = d
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = b
		}
	}

	str("ALGOWATCH_ADDR", &cfg.Server.Addr)
	dur("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("DATABASE_URL", &cfg.Database.URL)
	dur("DATABASE_CONNECT_TIMEOUT", &cfg.Database.ConnectTimeout)
	str("REDIS_URL", &cfg.Redis.URL)
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	str("KAFKA_TOPIC", &cfg.Kafka.Topic)
	str("JWT_SIGNING_KEY", &cfg.Auth.JWTSigningKey)
	str("JWT_ISSUER", &cfg.Auth.JWTIssuer)
	str("JWT_AUDIENCE", &cfg.Auth.JWTAudience)
	str("GENERATION_PROVIDER", &cfg.Generation.Provider)
	str("GENERATION_API_KEY", &cfg.Generation.APIKey)
	str("GENERATION_MODEL", &cfg.Generation.Model)
	str("GENERATION_BASE_URL", &cfg.Generation.BaseURL)
	dur("GENERATION_TIMEOUT", &cfg.Generation.Timeout)
	boolean("GENERATION_SCREEN_OUTPUT", &cfg.Generation.ScreenOutput)
	str("DUPLICATION_SCOPE", &cfg.Kits.DuplicationScope)
	integer("PATTERNS_MIN_SAMPLE", &cfg.Patterns.MinSample)
	dur("PATTERNS_CACHE_TTL", &cfg.Patterns.CacheTTL)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
