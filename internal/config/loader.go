package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "DIFFPRESS_"
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// sections are the top-level config keys an environment variable may
// address. Needed to split DIFFPRESS_LANGUAGE_CACHE_TTL into the
// language_cache section and the ttl key.
var sections = []string{
	"language_cache",
	"compression",
	"logging",
	"github",
	"redis",
}

// Load builds the configuration from defaults, an optional YAML file, and
// DIFFPRESS_* environment variables, in increasing precedence.
//
//	DIFFPRESS_GITHUB_TOKEN            -> github.token
//	DIFFPRESS_REDIS_ADDR              -> redis.addr
//	DIFFPRESS_COMPRESSION_MAX_TOKENS  -> compression.max_tokens
//	DIFFPRESS_LANGUAGE_CACHE_TTL      -> language_cache.ttl
//	DIFFPRESS_STRATEGY                -> strategy
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if content != nil {
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// envToKey maps an environment variable name (prefix already stripped by
// the provider) to a dotted config key.
func envToKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

// readConfigFile reads the file if it exists. A missing file is not an
// error: defaults plus environment remain in effect.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
