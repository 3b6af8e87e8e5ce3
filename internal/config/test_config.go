package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Feeds: []FeedSource{
			{Name: "Test Feed", Category: "gielda", URL: "https://example.com/rss.xml", Color: "#0B62A4"},
		},
		Fetch: FetchConfig{
			HTTPTimeout: 5 * time.Second,
			UserAgent:   "gpwpulse-test/1.0",
		},
		Curation: CurationConfig{
			MaxAgeDays:    30,
			MaxArticles:   100,
			SpamKeywords:  defaultConfig().Curation.SpamKeywords,
			MaxDescLength: 300,
		},
		Enrich: EnrichConfig{
			HTTPTimeout:  2 * time.Second,
			MaxArticles:  20,
			Concurrency:  5,
			MaxBodyBytes: 20000,
		},
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Alerts: AlertConfig{
			TickInterval: 100 * time.Millisecond,
			ListenAddr:   "127.0.0.1:0",
		},
		Logging: LoggingConfig{Level: "error"},
	}
}
