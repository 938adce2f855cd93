// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first
// match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moviemaster/config.yaml",
	"/etc/moviemaster/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Users     UsersConfig     `koanf:"users"`
	API       APIConfig       `koanf:"api"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig locates the movie dataset.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// UsersConfig controls the account subsystem.
type UsersConfig struct {
	DataDir         string        `koanf:"data_dir"`
	SessionPath     string        `koanf:"session_path"`
	SessionTTL      time.Duration `koanf:"session_ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// APIConfig tunes request handling.
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size"`
	MaxPageSize     int           `koanf:"max_page_size"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	AuthRateLimit   int           `koanf:"auth_rate_limit"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// RecommendConfig tunes the recommendation engine weights.
type RecommendConfig struct {
	GenreWeight        int     `koanf:"genre_weight"`
	KeywordWeight      int     `koanf:"keyword_weight"`
	CastWeight         int     `koanf:"cast_weight"`
	DirectorWeight     int     `koanf:"director_weight"`
	TopCast            int     `koanf:"top_cast"`
	PrefGenreWeight    float64 `koanf:"pref_genre_weight"`
	PrefDirectorWeight float64 `koanf:"pref_director_weight"`
	PrefActorWeight    float64 `koanf:"pref_actor_weight"`
	MinVoteCount       int64   `koanf:"min_vote_count"`
	SimilarPerItem     int     `koanf:"similar_per_item"`
	DiversityPoolExtra int     `koanf:"diversity_pool_extra"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaultConfig returns the built-in defaults, overridden by the
// config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Catalog: CatalogConfig{
			Path: "data/movies.csv",
		},
		Users: UsersConfig{
			DataDir:         "data/users",
			SessionPath:     "data/sessions",
			SessionTTL:      24 * time.Hour,
			CleanupInterval: time.Hour,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			AuthRateLimit:   10,
			CORSOrigins:     []string{"*"},
		},
		Recommend: RecommendConfig{
			GenreWeight:        3,
			KeywordWeight:      1,
			CastWeight:         2,
			DirectorWeight:     3,
			TopCast:            3,
			PrefGenreWeight:    2,
			PrefDirectorWeight: 3,
			PrefActorWeight:    1.5,
			MinVoteCount:       50,
			SimilarPerItem:     5,
			DiversityPoolExtra: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// and environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated
// slices when they arrive as env strings.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields splits comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val, ok := k.Get(path).(string)
		if !ok || val == "" {
			continue
		}
		parts := strings.Split(val, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransform maps environment variable names to config paths.
// Unmapped variables are dropped so arbitrary environment noise cannot
// change configuration.
func envTransform(key string) string {
	mappings := map[string]string{
		"http_host":          "server.host",
		"http_port":          "server.port",
		"http_read_timeout":  "server.read_timeout",
		"http_write_timeout": "server.write_timeout",
		"shutdown_timeout":   "server.shutdown_timeout",

		"catalog_path": "catalog.path",

		"users_data_dir":           "users.data_dir",
		"session_store_path":       "users.session_path",
		"session_ttl":              "users.session_ttl",
		"session_cleanup_interval": "users.cleanup_interval",

		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",
		"rate_limit_requests":   "api.rate_limit_reqs",
		"rate_limit_window":     "api.rate_limit_window",
		"auth_rate_limit":       "api.auth_rate_limit",
		"cors_origins":          "api.cors_origins",

		"recommend_genre_weight":         "recommend.genre_weight",
		"recommend_keyword_weight":       "recommend.keyword_weight",
		"recommend_cast_weight":          "recommend.cast_weight",
		"recommend_director_weight":      "recommend.director_weight",
		"recommend_top_cast":             "recommend.top_cast",
		"recommend_min_vote_count":       "recommend.min_vote_count",
		"recommend_similar_per_item":     "recommend.similar_per_item",
		"recommend_diversity_pool_extra": "recommend.diversity_pool_extra",

		"log_level":  "logging.level",
		"log_format": "logging.format",
	}

	if mapped, ok := mappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required")
	}
	if c.Users.DataDir == "" {
		return fmt.Errorf("users data directory is required")
	}
	if c.Users.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("default page size %d must be between 1 and max page size %d",
			c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	return c.validateLogging()
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", c.Logging.Format)
	}
	return nil
}
