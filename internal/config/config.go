// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the pipeline configuration.
type Config struct {
	WatchPaths []string       `mapstructure:"watch_paths"`
	DataDir    string         `mapstructure:"data_dir"`
	LogFile    string         `mapstructure:"log_file"`
	Debug      bool           `mapstructure:"debug"`
	Workers    int            `mapstructure:"workers"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Qdrant     QdrantConfig   `mapstructure:"qdrant"`
	Embedder   EmbedderConfig `mapstructure:"embedder"`
	Split      SplitConfig    `mapstructure:"split"`
}

// RedisConfig holds job queue connection settings. An empty address
// disables Redis and uses the in-process queue.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
	QueueKey string `mapstructure:"queue_key"`
}

// QdrantConfig holds document store settings. An empty address disables
// vector indexing and documents are appended to a jsonl file instead.
type QdrantConfig struct {
	Addr       string `mapstructure:"addr"`
	Collection string `mapstructure:"collection"`
}

// EmbedderConfig selects the embedding provider.
type EmbedderConfig struct {
	Provider  string `mapstructure:"provider"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	Dimension int    `mapstructure:"dimension"`
}

// SplitConfig mirrors the paragraph reconstruction options.
type SplitConfig struct {
	Paragraphs     bool `mapstructure:"paragraphs"`
	MergeShort     bool `mapstructure:"merge_short"`
	MergeLowercase bool `mapstructure:"merge_lowercase"`
}

// CachePath returns the scrape cache location under the data directory.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

// StatePath returns the watcher state location under the data directory.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state.db")
}

// OutputPath returns the jsonl fallback output under the data directory.
func (c *Config) OutputPath() string {
	return filepath.Join(c.DataDir, "documents.jsonl")
}

// Load reads configuration from the given yaml file (or defaults when
// empty) and the DOCPREP_* environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("watch_paths", []string{"./watch"})
	v.SetDefault("data_dir", "./data")
	v.SetDefault("workers", 4)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.queue_key", "docprep:ingest")
	v.SetDefault("qdrant.addr", "")
	v.SetDefault("qdrant.collection", "docprep_documents")
	v.SetDefault("embedder.provider", "mock")
	v.SetDefault("split.paragraphs", true)
	v.SetDefault("split.merge_short", true)
	v.SetDefault("split.merge_lowercase", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// A .env file in the working directory seeds the environment before
	// viper reads it. Missing files are fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v.SetEnvPrefix("DOCPREP")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &cfg, nil
}
