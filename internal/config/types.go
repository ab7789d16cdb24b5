// Package config provides configuration loading for diffpress.
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/diffpress/internal/cache"
	"github.com/fyrsmithlabs/diffpress/internal/compression"
	"github.com/fyrsmithlabs/diffpress/internal/logging"
)

// Secret is a string that redacts itself when printed or serialized.
type Secret string

// String implements fmt.Stringer. Always returns a redacted value.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string {
	return "Secret([REDACTED])"
}

// Value returns the actual secret value. Use sparingly.
func (s Secret) Value() string {
	return string(s)
}

// IsSet returns true if the secret has a non-empty value.
func (s Secret) IsSet() bool {
	return s != ""
}

// MarshalJSON implements json.Marshaler. Always returns a redacted value.
func (s Secret) MarshalJSON() ([]byte, error) {
	if s == "" {
		return json.Marshal("")
	}
	return json.Marshal("[REDACTED]")
}

// MarshalText implements encoding.TextMarshaler. Always redacted.
func (s Secret) MarshalText() ([]byte, error) {
	if s == "" {
		return []byte(""), nil
	}
	return []byte("[REDACTED]"), nil
}

// GitHubConfig holds source-control access settings.
type GitHubConfig struct {
	Token Secret `koanf:"token"`
}

// RedisConfig holds cache backend settings. When disabled, an in-memory
// store is used instead.
type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr"`
	Password Secret `koanf:"password"`
	DB       int    `koanf:"db"`
}

// StoreConfig converts to the cache package's connection settings.
func (r RedisConfig) StoreConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     r.Addr,
		Password: r.Password.Value(),
		DB:       r.DB,
	}
}

// LanguageCacheConfig controls the language-score cache behavior.
type LanguageCacheConfig struct {
	TTL     time.Duration `koanf:"ttl"`
	Timeout time.Duration `koanf:"timeout"`
}

// Config is the root configuration.
type Config struct {
	Logging       logging.Config      `koanf:"logging"`
	GitHub        GitHubConfig        `koanf:"github"`
	Redis         RedisConfig         `koanf:"redis"`
	Strategy      string              `koanf:"strategy"`
	Compression   compression.Config  `koanf:"compression"`
	LanguageCache LanguageCacheConfig `koanf:"language_cache"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging:     logging.DefaultConfig(),
		Redis:       RedisConfig{Addr: "localhost:6379"},
		Strategy:    "smart",
		Compression: compression.DefaultConfig(),
		LanguageCache: LanguageCacheConfig{
			TTL:     6 * time.Hour,
			Timeout: 2 * time.Second,
		},
	}
}

// Validate checks invariants across the whole config tree. Compression
// policy violations are rejected here, before any compression begins.
func (c *Config) Validate() error {
	if c.Strategy == "" {
		return fmt.Errorf("strategy must not be empty")
	}
	if err := c.Compression.Validate(); err != nil {
		return fmt.Errorf("compression: %w", err)
	}
	if c.LanguageCache.TTL < 0 {
		return fmt.Errorf("language_cache.ttl must be non-negative")
	}
	if c.LanguageCache.Timeout <= 0 {
		return fmt.Errorf("language_cache.timeout must be positive")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr required when redis is enabled")
	}
	return nil
}
