package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	coreagg "github.com/s3meta/s3meta/internal/core/aggregation"
)

const envPrefix = "S3META_"

// Config represents the top-level application config plus the resolved category set.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Analyzer AnalyzerConfig `koanf:"analyzer"`
	Loader   LoaderConfig   `koanf:"loader"`

	// Categories is populated by Load from analyzer.categories_file.
	Categories *coreagg.CategorySet `koanf:"-"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	Type         string `koanf:"type"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type AnalyzerConfig struct {
	// TableName is the raw table both ingestion and the analyzer use.
	// Migrations only create "objects"; any other table needs the same columns.
	TableName        string `koanf:"table_name"`
	BatchSize        int    `koanf:"batch_size"`
	WorkerCount      int    `koanf:"worker_count"`
	Interval         string `koanf:"interval"` // parsed and validated on startup
	Enabled          bool   `koanf:"enabled"`
	StrictCategories bool   `koanf:"strict_categories"`
	CategoriesFile   string `koanf:"categories_file"` // empty = built-in zip/csv/html
}

type LoaderConfig struct {
	Bucket         string  `koanf:"bucket"`
	Prefix         string  `koanf:"prefix"`
	Region         string  `koanf:"region"`
	PageSize       int     `koanf:"page_size"`
	PagesPerSecond float64 `koanf:"pages_per_second"` // 0 = unlimited
}

// IntervalDuration returns the parsed analyzer.interval.
// Only valid after Validate succeeded.
func (c AnalyzerConfig) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}
	if c.Database.Type != "" && c.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database.type %q", c.Database.Type)
	}

	if strings.TrimSpace(c.Analyzer.TableName) == "" {
		return fmt.Errorf("analyzer.table_name is required")
	}
	interval, err := time.ParseDuration(c.Analyzer.Interval)
	if err != nil {
		return fmt.Errorf("invalid analyzer.interval %q: %w", c.Analyzer.Interval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("analyzer.interval must be > 0")
	}
	if c.Analyzer.BatchSize <= 0 {
		return fmt.Errorf("analyzer.batch_size must be > 0")
	}
	if c.Analyzer.WorkerCount <= 0 {
		return fmt.Errorf("analyzer.worker_count must be > 0")
	}

	if c.Loader.PageSize <= 0 || c.Loader.PageSize > 1000 {
		return fmt.Errorf("invalid loader.page_size %d (must be 1-1000)", c.Loader.PageSize)
	}
	if c.Loader.PagesPerSecond < 0 {
		return fmt.Errorf("loader.pages_per_second must be >= 0")
	}

	return nil
}

// Load parses config from defaults, file and env, validates it, then loads
// the category matchers.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                8080,
		"server.host":                "0.0.0.0",
		"server.max_body_size_mb":    8,
		"server.mode":                "release",
		"database.type":              "postgres",
		"database.dsn":               "postgres://localhost:5432/s3_metadata?sslmode=disable",
		"database.max_open_conns":    25,
		"database.max_idle_conns":    25,
		"database.auto_migrate":      true,
		"analyzer.table_name":        "objects",
		"analyzer.batch_size":        1000,
		"analyzer.worker_count":      7,
		"analyzer.interval":          "2m",
		"analyzer.enabled":           true,
		"analyzer.strict_categories": true,
		"analyzer.categories_file":   "",
		"loader.bucket":              "",
		"loader.prefix":              "",
		"loader.region":              "",
		"loader.page_size":           1000,
		"loader.pages_per_second":    0,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	categories, err := coreagg.LoadCategories(cfg.Analyzer.CategoriesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	cfg.Categories = categories

	return &cfg, nil
}
