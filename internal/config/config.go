// Package config loads application configuration from defaults, an optional
// YAML file, optional dotenv files and environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the config file location.
const PathEnvVar = "CONFIG_PATH"

// DefaultPaths are searched in order when PathEnvVar is unset.
var DefaultPaths = []string{"config.yaml", "config.yml"}

// DotEnvPaths are read in order when present; later files win.
var DotEnvPaths = []string{".env", ".env.local"}

// ErrInvalid wraps every validation failure returned by Load.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Narrative NarrativeConfig `koanf:"narrative"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// TMDBConfig configures the catalog provider. An empty APIKey is allowed:
// the catalog then answers every query with an empty list.
type TMDBConfig struct {
	APIKey       string        `koanf:"api_key"`
	BaseURL      string        `koanf:"base_url" validate:"required,url"`
	ImageBaseURL string        `koanf:"image_base_url" validate:"required,url"`
	Language     string        `koanf:"language" validate:"required"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
}

// NarrativeConfig configures the text-generation provider. Leaving Endpoint
// or APIKey empty disables remote calls.
type NarrativeConfig struct {
	Endpoint   string        `koanf:"endpoint" validate:"omitempty,url"`
	APIKey     string        `koanf:"api_key"`
	Revalidate time.Duration `koanf:"revalidate" validate:"gte=0"`
	Timeout    time.Duration `koanf:"timeout" validate:"gt=0"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Language:     "en-US",
			Timeout:      10 * time.Second,
		},
		Narrative: NarrativeConfig{
			Revalidate: 120 * time.Second,
			Timeout:    15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envMappings maps environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"http_addr":               "server.addr",
	"cors_origins":            "server.cors_origins",
	"shutdown_timeout":        "server.shutdown_timeout",
	"tmdb_api_key":            "tmdb.api_key",
	"tmdb_base_url":           "tmdb.base_url",
	"tmdb_image_base_url":     "tmdb.image_base_url",
	"tmdb_language":           "tmdb.language",
	"tmdb_timeout":            "tmdb.timeout",
	"ai_recommender_endpoint": "narrative.endpoint",
	"ai_api_key":              "narrative.api_key",
	"ai_revalidate":           "narrative.revalidate",
	"ai_timeout":              "narrative.timeout",
	"log_level":               "logging.level",
	"log_format":              "logging.format",
}

// sliceFields are split on commas when they arrive as a single string.
var sliceFields = []string{"server.cors_origins"}

// Load builds the configuration: defaults, then the config file if one
// exists, then dotenv files, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := loadDotEnv(k); err != nil {
		return nil, err
	}

	if err := k.Load(env.ProviderWithValue("", ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := splitSlices(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// NarrativeEnabled reports whether remote narrative generation is configured.
func (c *Config) NarrativeEnabled() bool {
	return c.Narrative.Endpoint != "" && c.Narrative.APIKey != ""
}

// envKeyValue maps a known, non-empty environment variable to its koanf path.
func envKeyValue(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return envMappings[strings.ToLower(key)], value
}

// loadDotEnv applies mapped keys from dotenv files without touching the
// process environment. Variables already set in the environment are skipped
// since the env provider loads them next anyway.
func loadDotEnv(k *koanf.Koanf) error {
	for _, p := range DotEnvPaths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		vars, err := godotenv.Read(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		for key, value := range vars {
			if os.Getenv(key) != "" {
				continue
			}
			path, v := envKeyValue(key, value)
			if path == "" {
				continue
			}
			if err := k.Set(path, v); err != nil {
				return fmt.Errorf("setting %s from %s: %w", path, p, err)
			}
		}
	}
	return nil
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func splitSlices(k *koanf.Koanf) error {
	for _, path := range sliceFields {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("setting %s: %w", path, err)
		}
	}
	return nil
}
