// Package config loads runtime settings from a YAML file, a .env file and
// DELTA_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/aretw0/delta/internal/logging"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit path is given.
const DefaultFile = "delta.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendLoam   = "loam"
	BackendRedis  = "redis"
)

type Config struct {
	LogLevel  string       `yaml:"log_level" mapstructure:"log_level"`
	LogFormat string       `yaml:"log_format" mapstructure:"log_format"`
	LogFile   string       `yaml:"log_file" mapstructure:"log_file"` // JSON copy of every record
	Store     StoreConfig  `yaml:"store" mapstructure:"store"`
	Server    ServerConfig `yaml:"server" mapstructure:"server"`
	Remote    RemoteConfig `yaml:"remote" mapstructure:"remote"`
}

type StoreConfig struct {
	Backend string      `yaml:"backend" mapstructure:"backend"`
	Path    string      `yaml:"path" mapstructure:"path"`
	Redis   RedisConfig `yaml:"redis" mapstructure:"redis"`
	// EncryptionKey is a base64 AES key; when set, records are encrypted at rest.
	EncryptionKey string `yaml:"encryption_key" mapstructure:"encryption_key"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	Prefix   string        `yaml:"prefix" mapstructure:"prefix"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
	LockTTL  time.Duration `yaml:"lock_ttl" mapstructure:"lock_ttl"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	// CatalogPath holds the published algorithms served to sync clients.
	// Empty keeps the catalog in memory.
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`
	// Redact lists patterns masked in the notes of published algorithms.
	Redact []string `yaml:"redact" mapstructure:"redact"`
}

type RemoteConfig struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    ".delta/algorithms",
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Prefix:  "delta:algorithm:",
				LockTTL: 30 * time.Second,
			},
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Remote: RemoteConfig{
			Timeout: 10 * time.Second,
		},
	}
}

// envKeys maps environment variables to configuration keys.
var envKeys = map[string]string{
	"DELTA_LOG_LEVEL":      "log_level",
	"DELTA_LOG_FORMAT":     "log_format",
	"DELTA_LOG_FILE":       "log_file",
	"DELTA_STORE":          "store.backend",
	"DELTA_STORE_PATH":     "store.path",
	"DELTA_ENCRYPTION_KEY": "store.encryption_key",
	"DELTA_REDIS_ADDR":     "store.redis.addr",
	"DELTA_REDIS_PASSWORD": "store.redis.password",
	"DELTA_REDIS_DB":       "store.redis.db",
	"DELTA_REDIS_PREFIX":   "store.redis.prefix",
	"DELTA_REDIS_TTL":      "store.redis.ttl",
	"DELTA_REDIS_LOCK_TTL": "store.redis.lock_ttl",
	"DELTA_ADDR":           "server.addr",
	"DELTA_CATALOG_PATH":   "server.catalog_path",
	"DELTA_REDACT":         "server.redact",
	"DELTA_REMOTE_URL":     "remote.url",
	"DELTA_REMOTE_TIMEOUT": "remote.timeout",
}

// Load builds the configuration. path may be empty, in which case DefaultFile
// is used if present; an explicit path must exist. envFile is loaded into the
// environment first (missing files are ignored) without overriding variables
// that are already set.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnv(cfg, os.Environ()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv decodes DELTA_* variables found in environ over cfg.
func applyEnv(cfg *Config, environ []string) error {
	raw := map[string]any{}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		key, known := envKeys[name]
		if !known {
			continue
		}
		setPath(raw, strings.Split(key, "."), value)
	}
	if len(raw) == 0 {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid environment configuration: %w", err)
	}
	return nil
}

func setPath(m map[string]any, path []string, value string) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

// Validate reports settings no component can honour.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendLoam, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	for _, pattern := range c.Server.Redact {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid redact pattern %q: %w", pattern, err)
		}
	}
	return nil
}
