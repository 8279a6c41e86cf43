// Package config handles gateway configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultListen is the default listen address for the gateway.
const DefaultListen = ":8787"

// DefaultCachePath is the default location of the scorecard cache.
const DefaultCachePath = "verixiv-cache.db"

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	URL        string `yaml:"url"`
	APIToken   string `yaml:"api_token"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// IndexConfig configures the vector index.
type IndexConfig struct {
	URL      string `yaml:"url"`
	APIToken string `yaml:"api_token"`
}

// ServiceConfig configures a plain HTTP collaborator.
type ServiceConfig struct {
	URL string `yaml:"url"`
}

// Config is the gateway configuration.
type Config struct {
	Listen     string          `yaml:"listen"`
	Embedding  EmbeddingConfig `yaml:"embedding"`
	Index      IndexConfig     `yaml:"index"`
	Scoring    ServiceConfig   `yaml:"scoring"`
	Extraction ServiceConfig   `yaml:"extraction"`
	CachePath  string          `yaml:"cache_path"`
}

// Default returns a configuration with defaults applied.
func Default() *Config {
	return &Config{
		Listen:    DefaultListen,
		CachePath: DefaultCachePath,
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides config values from the environment.
func (c *Config) applyEnv() {
	setString(&c.Listen, "VERIXIV_LISTEN")
	setString(&c.Embedding.URL, "VERIXIV_EMBEDDING_URL")
	setString(&c.Embedding.APIToken, "VERIXIV_EMBEDDING_TOKEN")
	setString(&c.Embedding.Model, "VERIXIV_EMBEDDING_MODEL")
	setInt(&c.Embedding.Dimensions, "VERIXIV_EMBEDDING_DIMENSIONS")
	setString(&c.Index.URL, "VERIXIV_INDEX_URL")
	setString(&c.Index.APIToken, "VERIXIV_INDEX_TOKEN")
	setString(&c.Scoring.URL, "VERIXIV_SCORING_URL")
	setString(&c.Extraction.URL, "VERIXIV_EXTRACTION_URL")
	setString(&c.CachePath, "VERIXIV_CACHE_PATH")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate checks that every collaborator has a base URL configured.
func (c *Config) Validate() error {
	if c.Embedding.URL == "" {
		return fmt.Errorf("embedding url is required (VERIXIV_EMBEDDING_URL)")
	}
	if c.Index.URL == "" {
		return fmt.Errorf("index url is required (VERIXIV_INDEX_URL)")
	}
	if c.Scoring.URL == "" {
		return fmt.Errorf("scoring url is required (VERIXIV_SCORING_URL)")
	}
	if c.Extraction.URL == "" {
		return fmt.Errorf("extraction url is required (VERIXIV_EXTRACTION_URL)")
	}
	return nil
}
