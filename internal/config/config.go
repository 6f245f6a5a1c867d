// Package config loads the jobcal YAML configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobcal.
type Config struct {
	Fetch        FetchConfig
	Parser       ParserConfig
	AI           AIConfig
	Store        StoreConfig
	Notification NotificationConfig
}

// FetchConfig controls the page fetcher and the decorators wrapped around it.
type FetchConfig struct {
	Timeout           time.Duration
	UserAgent         string
	MaxBodyBytes      int64
	RequestsPerSecond float64 // per host; 0 disables limiting
	Burst             int
	MaxRetries        int // caller-owned retry; 0 means a failed fetch is final
	RetryBaseDelay    time.Duration
}

// ParserConfig controls dispatch policy.
type ParserConfig struct {
	StrictHosts bool // unknown hosts fail instead of using the generic extractor
}

// AIConfig controls the optional description reformat step.
type AIConfig struct {
	Enabled         bool
	BaseURL         string // defaults to https://api.openai.com/v1
	Model           string
	APIKey          string // expanded from env var by Load; blank disables the step
	Timeout         time.Duration
	MaxOutputTokens int
	Temperature     float64
	TopP            float64
}

// Active reports whether descriptions should be sent to the LLM.
func (a AIConfig) Active() bool {
	return a.Enabled && strings.TrimSpace(a.APIKey) != ""
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// NotificationConfig controls the deadline reminders.
type NotificationConfig struct {
	Type       string        // "log" or "slack"
	WebhookURL string        // required if type is "slack"
	Window     time.Duration // deadlines within this window are announced
	Interval   time.Duration // sweep interval for the daemon
}

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultModel         = "gpt-4.1-mini"
	defaultUserAgent     = "Mozilla/5.0 (compatible; jobcal/1.0)"
	slackWebhookPrefix   = "https://hooks.slack.com/"

	maxFetchTimeout = 30 * time.Second
	minWindow       = time.Hour
	maxWindow       = 30 * 24 * time.Hour
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Fetch        rawFetchConfig        `yaml:"fetch"`
	Parser       rawParserConfig       `yaml:"parser"`
	AI           rawAIConfig           `yaml:"ai"`
	Store        StoreConfig           `yaml:"store"`
	Notification rawNotificationConfig `yaml:"notification"`
}

type rawFetchConfig struct {
	Timeout           string   `yaml:"timeout"`
	UserAgent         string   `yaml:"user_agent"`
	MaxBodyBytes      int64    `yaml:"max_body_bytes"`
	RequestsPerSecond *float64 `yaml:"requests_per_second"`
	Burst             int      `yaml:"burst"`
	MaxRetries        int      `yaml:"max_retries"`
	RetryBaseDelay    string   `yaml:"retry_base_delay"`
}

type rawParserConfig struct {
	StrictHosts bool `yaml:"strict_hosts"`
}

type rawAIConfig struct {
	Enabled         *bool    `yaml:"enabled"`
	BaseURL         string   `yaml:"base_url"`
	Model           string   `yaml:"model"`
	APIKey          string   `yaml:"api_key"`
	Timeout         string   `yaml:"timeout"`
	MaxOutputTokens int      `yaml:"max_output_tokens"`
	Temperature     *float64 `yaml:"temperature"`
	TopP            *float64 `yaml:"top_p"`
}

type rawNotificationConfig struct {
	Type       string `yaml:"type"`
	WebhookURL string `yaml:"webhook_url"`
	Window     string `yaml:"window"`
	Interval   string `yaml:"interval"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			Timeout:           10 * time.Second,
			UserAgent:         defaultUserAgent,
			MaxBodyBytes:      5 << 20,
			RequestsPerSecond: 1,
			Burst:             2,
			MaxRetries:        0,
			RetryBaseDelay:    2 * time.Second,
		},
		AI: AIConfig{
			Enabled:         true,
			BaseURL:         defaultOpenAIBaseURL,
			Model:           defaultModel,
			APIKey:          os.Getenv("OPENAI_API_KEY"),
			Timeout:         12 * time.Second,
			MaxOutputTokens: 1400,
			Temperature:     0.1,
			TopP:            0.9,
		},
		Store: StoreConfig{Path: "jobcal.db"},
		Notification: NotificationConfig{
			Type:     "log",
			Window:   72 * time.Hour,
			Interval: 24 * time.Hour,
		},
	}
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// Fields the file leaves out keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	cfg.AI.APIKey = ""

	if err := parseDuration("fetch.timeout", raw.Fetch.Timeout, &cfg.Fetch.Timeout); err != nil {
		return nil, err
	}
	if err := parseDuration("fetch.retry_base_delay", raw.Fetch.RetryBaseDelay, &cfg.Fetch.RetryBaseDelay); err != nil {
		return nil, err
	}
	if err := parseDuration("ai.timeout", raw.AI.Timeout, &cfg.AI.Timeout); err != nil {
		return nil, err
	}
	if err := parseDuration("notification.window", raw.Notification.Window, &cfg.Notification.Window); err != nil {
		return nil, err
	}
	if err := parseDuration("notification.interval", raw.Notification.Interval, &cfg.Notification.Interval); err != nil {
		return nil, err
	}

	if raw.Fetch.UserAgent != "" {
		cfg.Fetch.UserAgent = raw.Fetch.UserAgent
	}
	if raw.Fetch.MaxBodyBytes != 0 {
		cfg.Fetch.MaxBodyBytes = raw.Fetch.MaxBodyBytes
	}
	if raw.Fetch.RequestsPerSecond != nil {
		cfg.Fetch.RequestsPerSecond = *raw.Fetch.RequestsPerSecond
	}
	if raw.Fetch.Burst != 0 {
		cfg.Fetch.Burst = raw.Fetch.Burst
	}
	cfg.Fetch.MaxRetries = raw.Fetch.MaxRetries

	cfg.Parser.StrictHosts = raw.Parser.StrictHosts

	if raw.AI.Enabled != nil {
		cfg.AI.Enabled = *raw.AI.Enabled
	}
	if raw.AI.BaseURL != "" {
		cfg.AI.BaseURL = strings.TrimRight(raw.AI.BaseURL, "/")
	}
	if raw.AI.Model != "" {
		cfg.AI.Model = raw.AI.Model
	}
	cfg.AI.APIKey = strings.TrimSpace(raw.AI.APIKey)
	if raw.AI.MaxOutputTokens != 0 {
		cfg.AI.MaxOutputTokens = raw.AI.MaxOutputTokens
	}
	if raw.AI.Temperature != nil {
		cfg.AI.Temperature = *raw.AI.Temperature
	}
	if raw.AI.TopP != nil {
		cfg.AI.TopP = *raw.AI.TopP
	}

	if raw.Store.Path != "" {
		cfg.Store.Path = raw.Store.Path
	}

	if raw.Notification.Type != "" {
		cfg.Notification.Type = raw.Notification.Type
	}
	cfg.Notification.WebhookURL = raw.Notification.WebhookURL

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(field, value string, dst *time.Duration) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	*dst = d
	return nil
}

func validate(cfg *Config) error {
	if cfg.Fetch.Timeout <= 0 || cfg.Fetch.Timeout > maxFetchTimeout {
		return fmt.Errorf("fetch.timeout must be between 0 and %v, got %v", maxFetchTimeout, cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("fetch.max_body_bytes must be positive, got %d", cfg.Fetch.MaxBodyBytes)
	}
	if cfg.Fetch.RequestsPerSecond < 0 {
		return fmt.Errorf("fetch.requests_per_second must not be negative, got %v", cfg.Fetch.RequestsPerSecond)
	}
	if cfg.Fetch.Burst < 1 {
		return fmt.Errorf("fetch.burst must be at least 1, got %d", cfg.Fetch.Burst)
	}
	if cfg.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must not be negative, got %d", cfg.Fetch.MaxRetries)
	}
	if cfg.Fetch.MaxRetries > 0 && cfg.Fetch.RetryBaseDelay <= 0 {
		return fmt.Errorf("fetch.retry_base_delay must be positive when retries are enabled")
	}

	if cfg.AI.Enabled {
		if cfg.AI.BaseURL == "" {
			return fmt.Errorf("ai.base_url is required when ai.enabled is true")
		}
		if cfg.AI.Model == "" {
			return fmt.Errorf("ai.model is required when ai.enabled is true")
		}
		if cfg.AI.Timeout <= 0 {
			return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
		}
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, slackWebhookPrefix) {
			return fmt.Errorf("notification.webhook_url must start with %s", slackWebhookPrefix)
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	if cfg.Notification.Window < minWindow || cfg.Notification.Window > maxWindow {
		return fmt.Errorf("notification.window must be between %v and %v, got %v", minWindow, maxWindow, cfg.Notification.Window)
	}
	if cfg.Notification.Interval <= 0 {
		return fmt.Errorf("notification.interval must be positive, got %v", cfg.Notification.Interval)
	}

	if cfg.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}

	return nil
}
