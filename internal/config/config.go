package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Search   SearchConfig   `yaml:"search"`
	Discover DiscoverConfig `yaml:"discover"`
	Notify   NotifyConfig   `yaml:"notify"`
	Server   ServerConfig   `yaml:"server"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ScheduleConfig configures discovery and ranking refresh intervals.
type ScheduleConfig struct {
	DiscoverInterval string `yaml:"discover_interval"`
	RefreshInterval  string `yaml:"refresh_interval"`
}

// ParseDiscoverInterval returns the discovery interval as time.Duration.
func (s ScheduleConfig) ParseDiscoverInterval() time.Duration {
	d, err := time.ParseDuration(s.DiscoverInterval)
	if err != nil {
		return 6 * time.Hour
	}
	return d
}

// ParseRefreshInterval returns the ranking refresh interval as time.Duration.
func (s ScheduleConfig) ParseRefreshInterval() time.Duration {
	d, err := time.ParseDuration(s.RefreshInterval)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// SearchConfig configures the relevance matcher.
type SearchConfig struct {
	MaxResults int `yaml:"max_results"`
}

// DiscoverConfig holds configuration for all tool discovery sources.
type DiscoverConfig struct {
	HackerNews      HackerNewsConfig `yaml:"hackernews"`
	GitHub          GitHubConfig     `yaml:"github"`
	RSS             RSSConfig        `yaml:"rss"`
	ExtraKeywords   []string         `yaml:"extra_keywords"`
	ExcludeKeywords []string         `yaml:"exclude_keywords"`
	Screener        ScreenerConfig   `yaml:"screener"`
}

// HackerNewsConfig for the Show HN collector.
type HackerNewsConfig struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"`
}

// GitHubConfig for the GitHub repository collector.
type GitHubConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

// RSSConfig for the RSS feed collector.
type RSSConfig struct {
	Enabled bool       `yaml:"enabled"`
	Feeds   []FeedItem `yaml:"feeds"`
}

// FeedItem is a single RSS feed entry.
type FeedItem struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// ScreenerConfig configures the optional LLM candidate screener.
type ScreenerConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Provider string  `yaml:"provider"` // "openai" or "anthropic"
	Model    string  `yaml:"model"`
	APIKey   string  `yaml:"api_key"`
	BaseURL  string  `yaml:"base_url"`  // custom endpoint (optional)
	MinScore float64 `yaml:"min_score"` // keep threshold 0-10 (default: 6)
}

// NotifyConfig configures digest destinations.
type NotifyConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook digests.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook digests.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook digests.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./toolscout.db"},
		Schedule: ScheduleConfig{
			DiscoverInterval: "6h",
			RefreshInterval:  "30m",
		},
		Search: SearchConfig{MaxResults: 12},
		Discover: DiscoverConfig{
			HackerNews: HackerNewsConfig{Enabled: true, Limit: 100},
			GitHub:     GitHubConfig{Enabled: true},
			RSS: RSSConfig{
				Enabled: true,
				Feeds: []FeedItem{
					{Name: "Product Hunt", URL: "https://www.producthunt.com/feed?category=artificial-intelligence"},
					{Name: "TechCrunch AI", URL: "https://techcrunch.com/category/artificial-intelligence/feed/"},
					{Name: "VentureBeat AI", URL: "https://venturebeat.com/category/ai/feed/"},
				},
			},
			Screener: ScreenerConfig{
				Provider: "openai",
				Model:    "gpt-4o-mini",
				MinScore: 6,
			},
		},
		Notify: NotifyConfig{},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TOOLSCOUT_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.Discover.GitHub.Token = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Notify.Slack.WebhookURL = v
		cfg.Notify.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Notify.Discord.WebhookURL = v
		cfg.Notify.Discord.Enabled = true
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Discover.Screener.APIKey = v
		cfg.Discover.Screener.Enabled = true
		cfg.Discover.Screener.Provider = "openai"
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Discover.Screener.APIKey = v
		cfg.Discover.Screener.Enabled = true
		cfg.Discover.Screener.Provider = "anthropic"
	}
}
