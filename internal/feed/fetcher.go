package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mzurek/gpwpulse/internal/config"
	"github.com/mzurek/gpwpulse/internal/news"
)

// FetchResult is the settled outcome for one feed. Err is set on HTTP,
// network or parse failure; the orchestrator coerces it to zero articles so
// one broken feed never aborts the batch.
type FetchResult struct {
	Source   config.FeedSource
	Articles []news.Article
	Err      error
}

type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	parser    *Parser
}

func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Fetch.HTTPTimeout,
		},
		userAgent: cfg.Fetch.UserAgent,
		timeout:   cfg.Fetch.HTTPTimeout,
		parser:    NewParser(cfg.Curation.MaxDescLength),
	}
}

// Fetch retrieves and normalizes a single feed. It never panics and never
// returns a partial article list alongside an error.
func (f *Fetcher) Fetch(ctx context.Context, src config.FeedSource) FetchResult {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return FetchResult{Source: src, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return FetchResult{Source: src, Err: fmt.Errorf("fetching feed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FetchResult{Source: src, Err: fmt.Errorf("HTTP error: %d", resp.StatusCode)}
	}

	articles, err := f.parser.Parse(resp.Body, src)
	if err != nil {
		return FetchResult{Source: src, Err: err}
	}

	return FetchResult{Source: src, Articles: articles}
}
