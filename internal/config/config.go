package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Feeds    []FeedSource   `mapstructure:"feeds"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Curation CurationConfig `mapstructure:"curation"`
	Enrich   EnrichConfig   `mapstructure:"enrich"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Database DatabaseConfig `mapstructure:"database"`
	Search   SearchConfig   `mapstructure:"search"`
	Alerts   AlertConfig    `mapstructure:"alerts"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// FeedSource describes one upstream RSS/Atom feed. Color is the UI accent
// carried through to the snapshot, not interpreted by the pipeline.
type FeedSource struct {
	Name     string `mapstructure:"name" json:"name"`
	Category string `mapstructure:"category" json:"category"`
	URL      string `mapstructure:"url" json:"url"`
	Color    string `mapstructure:"color" json:"color"`
}

type FetchConfig struct {
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

type CurationConfig struct {
	MaxAgeDays    int      `mapstructure:"max_age_days"`
	MaxArticles   int      `mapstructure:"max_articles"`
	SpamKeywords  []string `mapstructure:"spam_keywords"`
	MaxDescLength int      `mapstructure:"max_description_length"`
}

type EnrichConfig struct {
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	MaxArticles  int           `mapstructure:"max_articles"`
	Concurrency  int           `mapstructure:"concurrency"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

type SnapshotConfig struct {
	Path string `mapstructure:"path"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SearchConfig struct {
	IndexPath string `mapstructure:"index_path"`
}

type AlertConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	StreamURL    string        `mapstructure:"stream_url"`
	ListenAddr   string        `mapstructure:"listen_addr"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	baseDir := filepath.Join(homeDir, ".gpwpulse")

	return &Config{
		Feeds: []FeedSource{
			{Name: "Bankier.pl", Category: "gielda", URL: "https://www.bankier.pl/rss/wiadomosci.xml", Color: "#0B62A4"},
			{Name: "Money.pl", Category: "gielda", URL: "https://www.money.pl/rss/", Color: "#E4003A"},
			{Name: "Parkiet", Category: "gielda", URL: "https://www.parkiet.com/rss/1019", Color: "#00594E"},
			{Name: "StockWatch.pl", Category: "gielda", URL: "https://stockwatch.pl/rss/wiadomosci.xml", Color: "#1D3A6E"},
			{Name: "Strefa Inwestorów", Category: "wiadomosci", URL: "https://strefainwestorow.pl/feeds/news.rss", Color: "#C8102E"},
		},
		Fetch: FetchConfig{
			HTTPTimeout: 10 * time.Second,
			UserAgent:   "gpwpulse/1.0 (news aggregator; github.com/mzurek/gpwpulse)",
		},
		Curation: CurationConfig{
			MaxAgeDays:  30,
			MaxArticles: 100,
			SpamKeywords: []string{
				"kredyt gotówkowy",
				"kredyt hipoteczny",
				"cashback",
				"lokata",
				"konto osobiste",
				"ranking kont",
				"pożyczka online",
				"promocja bankowa",
			},
			MaxDescLength: 300,
		},
		Enrich: EnrichConfig{
			HTTPTimeout:  5 * time.Second,
			MaxArticles:  20,
			Concurrency:  5,
			MaxBodyBytes: 20000,
		},
		Snapshot: SnapshotConfig{
			Path: filepath.Join(baseDir, "news.json"),
		},
		Database: DatabaseConfig{
			Path:    filepath.Join(baseDir, "gpwpulse.db"),
			Timeout: 1 * time.Second,
		},
		Search: SearchConfig{
			IndexPath: filepath.Join(baseDir, "index.bleve"),
		},
		Alerts: AlertConfig{
			TickInterval: 15 * time.Second,
			StreamURL:    "wss://quotes.gpwpulse.dev/stream",
			ListenAddr:   ":8740",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("feeds", cfg.Feeds)
	v.SetDefault("fetch", cfg.Fetch)
	v.SetDefault("curation", cfg.Curation)
	v.SetDefault("enrich", cfg.Enrich)
	v.SetDefault("snapshot", cfg.Snapshot)
	v.SetDefault("database", cfg.Database)
	v.SetDefault("search", cfg.Search)
	v.SetDefault("alerts", cfg.Alerts)
	v.SetDefault("logging", cfg.Logging)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "gpwpulse")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GPWPULSE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects feed descriptors the pipeline could never fetch.
func (c *Config) Validate() error {
	for _, f := range c.Feeds {
		if f.Name == "" {
			return fmt.Errorf("feed with URL %q has no name", f.URL)
		}
		u, err := url.Parse(f.URL)
		if err != nil {
			return fmt.Errorf("feed %s: invalid URL: %w", f.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("feed %s: unsupported scheme %q", f.Name, u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("feed %s: URL has no host", f.Name)
		}
	}
	if c.Curation.MaxAgeDays <= 0 {
		return fmt.Errorf("curation.max_age_days must be positive")
	}
	if c.Curation.MaxArticles <= 0 {
		return fmt.Errorf("curation.max_articles must be positive")
	}
	if c.Enrich.Concurrency <= 0 {
		return fmt.Errorf("enrich.concurrency must be positive")
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Snapshot.Path = expandPath(cfg.Snapshot.Path)
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Search.IndexPath = expandPath(cfg.Search.IndexPath)
}

func Save(config *Config, path string) error {
	v := viper.New()

	fetchCfg := map[string]interface{}{
		"http_timeout": config.Fetch.HTTPTimeout.String(),
		"user_agent":   config.Fetch.UserAgent,
	}

	enrichCfg := map[string]interface{}{
		"http_timeout":   config.Enrich.HTTPTimeout.String(),
		"max_articles":   config.Enrich.MaxArticles,
		"concurrency":    config.Enrich.Concurrency,
		"max_body_bytes": config.Enrich.MaxBodyBytes,
	}

	curationCfg := map[string]interface{}{
		"max_age_days":           config.Curation.MaxAgeDays,
		"max_articles":           config.Curation.MaxArticles,
		"spam_keywords":          config.Curation.SpamKeywords,
		"max_description_length": config.Curation.MaxDescLength,
	}

	alertsCfg := map[string]interface{}{
		"tick_interval": config.Alerts.TickInterval.String(),
		"stream_url":    config.Alerts.StreamURL,
		"listen_addr":   config.Alerts.ListenAddr,
	}

	searchCfg := map[string]interface{}{
		"index_path": config.Search.IndexPath,
	}

	dbCfg := map[string]interface{}{
		"path":    config.Database.Path,
		"timeout": config.Database.Timeout.String(),
	}

	v.Set("feeds", config.Feeds)
	v.Set("fetch", fetchCfg)
	v.Set("curation", curationCfg)
	v.Set("enrich", enrichCfg)
	v.Set("snapshot", config.Snapshot)
	v.Set("database", dbCfg)
	v.Set("search", searchCfg)
	v.Set("alerts", alertsCfg)
	v.Set("logging", config.Logging)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
