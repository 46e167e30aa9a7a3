// Package config loads application configuration for the medassist CLI.
// Configuration lives in ~/.medassist/config.yaml and can be overridden by
// MEDASSIST_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	LLM       LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Retrieval RetrievalConfig `mapstructure:"retrieval" yaml:"retrieval"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// LLMConfig contains configuration for the language model provider.
type LLMConfig struct {
	// Provider identifies the backend (currently only "ollama").
	Provider string `mapstructure:"provider" yaml:"provider"`
	// Endpoint is the API base URL.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// Model is the model to use.
	Model string `mapstructure:"model" yaml:"model"`
	// Temperature controls randomness (0.0-1.0).
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	// MaxTokens caps response length.
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens"`
	// TimeoutSec is the per-call timeout in seconds.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DatabaseConfig contains configuration for the relational store.
type DatabaseConfig struct {
	// DSN is the PostgreSQL connection string.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
	// Tables are the tables exposed to classification and SQL generation.
	Tables []string `mapstructure:"tables" yaml:"tables"`
}

// RetrievalConfig contains configuration for the document retrieval backend.
type RetrievalConfig struct {
	// Table is the articles table searched for passages.
	Table string `mapstructure:"table" yaml:"table"`
	// TopK is the number of passages retrieved per question.
	TopK int `mapstructure:"top_k" yaml:"top_k"`
}

// LoggingConfig contains configuration for application logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error").
	Level string `mapstructure:"level" yaml:"level"`
	// File is an optional log file path; empty logs to stderr only.
	File string `mapstructure:"file" yaml:"file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "ollama",
			Endpoint:    "http://127.0.0.1:11434",
			Model:       "mistral:7b",
			Temperature: 0.2,
			MaxTokens:   2048,
			TimeoutSec:  120,
		},
		Database: DatabaseConfig{
			DSN:    "postgres://localhost:5432/mydb",
			Tables: []string{"doctors", "institutions"},
		},
		Retrieval: RetrievalConfig{
			Table: "articles",
			TopK:  3,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the default config file location
// (~/.medassist/config.yaml).
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(homeDir, ".medassist", "config.yaml")
}

// Load reads configuration from path, creating the file with defaults when
// it does not exist. Environment variables prefixed MEDASSIST_ override
// file values (e.g. MEDASSIST_DATABASE_DSN).
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MEDASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in missing values so a partial config file still works.
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.LLM.Provider == "" {
		c.LLM.Provider = defaults.LLM.Provider
	}
	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = defaults.LLM.Endpoint
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaults.LLM.Model
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = defaults.LLM.Temperature
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = defaults.LLM.MaxTokens
	}
	if c.LLM.TimeoutSec == 0 {
		c.LLM.TimeoutSec = defaults.LLM.TimeoutSec
	}
	if c.Database.DSN == "" {
		c.Database.DSN = defaults.Database.DSN
	}
	if len(c.Database.Tables) == 0 {
		c.Database.Tables = defaults.Database.Tables
	}
	if c.Retrieval.Table == "" {
		c.Retrieval.Table = defaults.Retrieval.Table
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = defaults.Retrieval.TopK
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}

// SaveToPath writes the configuration to a specific file path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return writeConfigFile(path, c)
}

func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
