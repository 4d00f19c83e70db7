// Package config loads the keyaudit.yaml runtime configuration and
// validates it against an embedded JSON schema before use.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	kaerrors "github.com/systmms/keyaudit/internal/errors"
)

//go:embed schema.json
var schemaJSON string

// DefaultPath is where keyaudit looks for its configuration when no
// --config flag is given.
const DefaultPath = "keyaudit.yaml"

// CacheConfig bounds the validation cache.
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds,omitempty" json:"ttl_seconds,omitempty"`
	MaxSize    int `yaml:"max_size,omitempty" json:"max_size,omitempty"`
}

// Config is the keyaudit.yaml structure.
type Config struct {
	Version        int         `yaml:"version" json:"version"`
	Providers      []string    `yaml:"providers,omitempty" json:"providers,omitempty"`
	TimeoutSeconds float64     `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
	Concurrency    int         `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	Cache          CacheConfig `yaml:"cache,omitempty" json:"cache,omitempty"`
	AuditLog       string      `yaml:"audit_log,omitempty" json:"audit_log,omitempty"`
	Redaction      string      `yaml:"redaction,omitempty" json:"redaction,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Version:        1,
		TimeoutSeconds: 30,
		Concurrency:    10,
		Cache:          CacheConfig{TTLSeconds: 3600, MaxSize: 10000},
		AuditLog:       "audit.log",
		Redaction:      "partial",
	}
}

// Load reads and validates a configuration file. A missing file at the
// default path is not an error; an explicitly requested path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, kaerrors.UserError{
			Message:    fmt.Sprintf("cannot read config file: %s", path),
			Suggestion: "check the path passed to --config",
			Err:        err,
		}
	}

	// Validate the raw document rather than the parsed struct so unknown
	// fields are caught instead of silently dropped.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, kaerrors.UserError{
			Message:    fmt.Sprintf("invalid YAML in %s", path),
			Suggestion: "check the file for syntax errors",
			Err:        err,
		}
	}
	if err := validate(raw); err != nil {
		return Config{}, kaerrors.UserError{
			Message:    fmt.Sprintf("invalid configuration in %s", path),
			Details:    err.Error(),
			Suggestion: "compare the file against the documented keyaudit.yaml format",
			Err:        err,
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, kaerrors.UserError{
			Message:    fmt.Sprintf("invalid YAML in %s", path),
			Suggestion: "check the file for syntax errors",
			Err:        err,
		}
	}

	applyDefaults(&cfg)
	return cfg, nil
}

// validate checks the raw configuration document against the embedded
// schema.
func validate(raw map[string]any) error {
	doc, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal config for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return fmt.Errorf("schema validation failed:\n  - %s", strings.Join(messages, "\n  - "))
	}
	return nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = def.TimeoutSeconds
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = def.Cache.TTLSeconds
	}
	if cfg.Cache.MaxSize <= 0 {
		cfg.Cache.MaxSize = def.Cache.MaxSize
	}
	if cfg.AuditLog == "" {
		cfg.AuditLog = def.AuditLog
	}
	if cfg.Redaction == "" {
		cfg.Redaction = def.Redaction
	}
}

// Timeout returns the per-request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// CacheTTL returns the cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
