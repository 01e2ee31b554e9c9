package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the taskforce service.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Agents    AgentsConfig    `mapstructure:"agents"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	History   HistoryConfig   `mapstructure:"history"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Listen   string `mapstructure:"listen"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// LLMConfig contains per-provider LLM settings. The default provider is used
// when a dispatch request does not name one.
type LLMConfig struct {
	Default   string          `mapstructure:"default"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
}

type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AnthropicConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type OllamaConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// AgentsConfig contains agent execution settings.
type AgentsConfig struct {
	MaxConcurrent   int           `mapstructure:"max_concurrent"`
	Fetcher         string        `mapstructure:"fetcher"` // http or chromedp
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	MaxExcerptChars int           `mapstructure:"max_excerpt_chars"`
	MaxExtractChars int           `mapstructure:"max_extract_chars"`
}

// NotifyConfig contains notification bus settings.
type NotifyConfig struct {
	Buffer int `mapstructure:"buffer"`
}

// UploadsConfig contains file upload settings.
type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

// HistoryConfig contains dispatch history settings.
type HistoryConfig struct {
	Backend string      `mapstructure:"backend"` // memory or redis
	Limit   int         `mapstructure:"limit"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TelemetryConfig contains metrics settings.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from an optional JSON file and environment
// variables. Path may be empty, in which case the default search paths are
// used and every value falls back to its default.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("taskforce")
	v.SetConfigType("json")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TASKFORCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; defaults plus env cover a full setup.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	overrideFromEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.listen", ":8090")
	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")

	v.SetDefault("llm.default", "openai")
	v.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.timeout", "30s")
	v.SetDefault("llm.anthropic.base_url", "https://api.anthropic.com")
	v.SetDefault("llm.anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("llm.anthropic.timeout", "30s")
	v.SetDefault("llm.ollama.model", "llama3")
	v.SetDefault("llm.ollama.timeout", "30s")

	v.SetDefault("agents.max_concurrent", 5)
	v.SetDefault("agents.fetcher", "http")
	v.SetDefault("agents.fetch_timeout", "15s")
	v.SetDefault("agents.max_excerpt_chars", 2000)
	v.SetDefault("agents.max_extract_chars", 500)

	v.SetDefault("notify.buffer", 64)
	v.SetDefault("uploads.dir", "./uploads")

	v.SetDefault("history.backend", "memory")
	v.SetDefault("history.limit", 50)
	v.SetDefault("history.redis.host", "localhost")
	v.SetDefault("history.redis.port", 6379)
	v.SetDefault("history.redis.db", 0)
	v.SetDefault("history.redis.timeout", "5s")

	v.SetDefault("telemetry.enabled", true)
}

// overrideFromEnv overrides sensitive values from the conventional
// environment variables. A missing key is not an error here; the provider
// clients surface it at call time.
func overrideFromEnv(v *viper.Viper) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		v.Set("llm.openai.api_key", apiKey)
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		v.Set("llm.anthropic.api_key", apiKey)
	}
	// Name used by the first deployment of this service.
	if apiKey := os.Getenv("CLAUDE_API_KEY"); apiKey != "" && os.Getenv("ANTHROPIC_API_KEY") == "" {
		v.Set("llm.anthropic.api_key", apiKey)
	}
	if url := os.Getenv("OLLAMA_URL"); url != "" {
		v.Set("llm.ollama.endpoint", url)
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		v.Set("history.redis.host", host)
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("history.redis.port", p)
		}
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		v.Set("history.redis.password", password)
	}
}

func validate(cfg *Config) error {
	if cfg.General.Listen == "" {
		return fmt.Errorf("general.listen must not be empty")
	}
	if cfg.Agents.MaxConcurrent <= 0 {
		return fmt.Errorf("agents.max_concurrent must be positive")
	}
	switch cfg.Agents.Fetcher {
	case "http", "chromedp":
	default:
		return fmt.Errorf("agents.fetcher must be http or chromedp, got %q", cfg.Agents.Fetcher)
	}
	switch cfg.History.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("history.backend must be memory or redis, got %q", cfg.History.Backend)
	}
	switch cfg.LLM.Default {
	case "openai", "anthropic", "ollama":
	default:
		return fmt.Errorf("llm.default must be openai, anthropic or ollama, got %q", cfg.LLM.Default)
	}
	return nil
}
