package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	OpenAIEndpoint      string `yaml:"openai_endpoint"`
	OpenAIKey           string `yaml:"openai_key"`
	OpenAIAPIVersion    string `yaml:"openai_api_version"`
	ChatDeployment      string `yaml:"chat_deployment"`
	EmbeddingDeployment string `yaml:"embedding_deployment"`

	SearchEndpoint string `yaml:"search_endpoint"`
	SearchKey      string `yaml:"search_key"`
	SearchIndex    string `yaml:"search_index"`

	UpstreamTimeoutSeconds int  `yaml:"upstream_timeout_seconds"`
	LogUpstreamPayloads    bool `yaml:"log_upstream_payloads"`

	UpstreamMaxAttempts        int  `yaml:"upstream_max_attempts"`
	UpstreamRetryBackoffMS     int  `yaml:"upstream_retry_backoff_ms"`
	UpstreamBreakerEnabled     bool `yaml:"upstream_breaker_enabled"`
	UpstreamBreakerOpenSeconds int  `yaml:"upstream_breaker_open_seconds"`

	APIRateLimitRPS   int `yaml:"api_rate_limit_rps"`
	APIRateLimitBurst int `yaml:"api_rate_limit_burst"`
	APIMaxConcurrent  int `yaml:"api_max_concurrent"`
}

// Load builds the process configuration: defaults, then an optional YAML
// file named by CONFIG_FILE, then environment variables on top. Required
// upstream values are validated here so a misconfigured process fails at
// startup instead of on first request.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		APIPort:  "8080",
		LogLevel: "info",

		OpenAIAPIVersion: "2024-02-01",

		UpstreamTimeoutSeconds: 120,

		UpstreamMaxAttempts:        3,
		UpstreamRetryBackoffMS:     100,
		UpstreamBreakerEnabled:     true,
		UpstreamBreakerOpenSeconds: 30,
	}
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	envStr("API_PORT", &cfg.APIPort)
	envStr("LOG_LEVEL", &cfg.LogLevel)

	envStr("AZURE_OPENAI_ENDPOINT", &cfg.OpenAIEndpoint)
	envStr("AZURE_OPENAI_KEY", &cfg.OpenAIKey)
	envStr("AZURE_OPENAI_API_VERSION", &cfg.OpenAIAPIVersion)
	envStr("AZURE_OPENAI_DEPLOYMENT", &cfg.ChatDeployment)
	envStr("AZURE_OPENAI_EMBEDDING_DEPLOYMENT", &cfg.EmbeddingDeployment)

	envStr("AZURE_SEARCH_ENDPOINT", &cfg.SearchEndpoint)
	envStr("AZURE_SEARCH_KEY", &cfg.SearchKey)
	envStr("AZURE_SEARCH_INDEX", &cfg.SearchIndex)

	envInt("UPSTREAM_TIMEOUT_SECONDS", &cfg.UpstreamTimeoutSeconds)
	envBool("LOG_UPSTREAM_PAYLOADS", &cfg.LogUpstreamPayloads)

	envInt("UPSTREAM_MAX_ATTEMPTS", &cfg.UpstreamMaxAttempts)
	envInt("UPSTREAM_RETRY_BACKOFF_MS", &cfg.UpstreamRetryBackoffMS)
	envBool("UPSTREAM_BREAKER_ENABLED", &cfg.UpstreamBreakerEnabled)
	envInt("UPSTREAM_BREAKER_OPEN_SECONDS", &cfg.UpstreamBreakerOpenSeconds)

	envInt("API_RATE_LIMIT_RPS", &cfg.APIRateLimitRPS)
	envInt("API_RATE_LIMIT_BURST", &cfg.APIRateLimitBurst)
	envInt("API_MAX_CONCURRENT", &cfg.APIMaxConcurrent)
}

func (c Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"AZURE_OPENAI_ENDPOINT", c.OpenAIEndpoint},
		{"AZURE_OPENAI_KEY", c.OpenAIKey},
		{"AZURE_OPENAI_DEPLOYMENT", c.ChatDeployment},
		{"AZURE_OPENAI_EMBEDDING_DEPLOYMENT", c.EmbeddingDeployment},
		{"AZURE_SEARCH_ENDPOINT", c.SearchEndpoint},
		{"AZURE_SEARCH_KEY", c.SearchKey},
		{"AZURE_SEARCH_INDEX", c.SearchIndex},
	}

	var missing []string
	for _, item := range required {
		if strings.TrimSpace(item.value) == "" {
			missing = append(missing, item.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.UpstreamTimeoutSeconds <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be positive, got %d", c.UpstreamTimeoutSeconds)
	}
	if c.UpstreamMaxAttempts <= 0 {
		return fmt.Errorf("UPSTREAM_MAX_ATTEMPTS must be positive, got %d", c.UpstreamMaxAttempts)
	}
	return nil
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*dst = n
}

func envBool(key string, dst *bool) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return
	}
	*dst = parsed
}
