// Package config provides configuration loading for chatd.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	LLM       LLMConfig       `koanf:"llm"`
	Knowledge KnowledgeConfig `koanf:"knowledge"`
	Profile   ProfileConfig   `koanf:"profile"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LLMConfig holds the chat-model provider settings.
type LLMConfig struct {
	BaseURL    string  `koanf:"base_url"`
	APIKey     string  `koanf:"api_key"`
	Model      string  `koanf:"model"`
	TimeoutSec int     `koanf:"timeout_sec"`
	RateLimit  float64 `koanf:"rate_limit"`
	MaxRetries int     `koanf:"max_retries"`

	// Keywords toggles AI keyword extraction. When false the scorer runs
	// on message and entry signals alone.
	Keywords bool `koanf:"keywords"`
}

// KnowledgeConfig holds knowledge base settings.
type KnowledgeConfig struct {
	// Dir is the directory of per-agent YAML knowledge files.
	Dir string `koanf:"dir"`

	// Watch enables hot reload of changed knowledge files.
	Watch bool `koanf:"watch"`
}

// ProfileConfig holds profile persistence settings.
type ProfileConfig struct {
	// DBPath is the SQLite database file. Empty means in-memory only.
	DBPath string `koanf:"db_path"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.LLM.Keywords && c.LLM.APIKey == "" {
		return fmt.Errorf("llm.keywords enabled but llm.api_key is empty")
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	return nil
}
