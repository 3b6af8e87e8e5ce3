package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mzurek/gpwpulse/internal/config"
	"github.com/mzurek/gpwpulse/internal/logging"
	"github.com/mzurek/gpwpulse/internal/metrics"
	"github.com/mzurek/gpwpulse/internal/news"
)

// Indexer receives the curated article set after each run.
type Indexer interface {
	IndexArticles(articles []news.Article) error
}

// RunRecorder persists metadata about a completed run.
type RunRecorder interface {
	SaveLastRun(at time.Time, articleCount int) error
}

// Pipeline runs one full batch: concurrent feed fetches, curation,
// image enrichment, snapshot write. A run succeeds as long as the snapshot
// is written, even if every feed failed.
type Pipeline struct {
	cfg      *config.Config
	fetcher  *Fetcher
	curator  *news.Curator
	enricher *news.Enricher
	writer   *news.SnapshotWriter

	// Optional hooks; nil disables them.
	Index    Indexer
	Recorder RunRecorder
}

func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		fetcher: NewFetcher(cfg),
		curator: news.NewCurator(
			cfg.Curation.MaxAgeDays,
			cfg.Curation.MaxArticles,
			cfg.Curation.SpamKeywords,
		),
		enricher: news.NewEnricher(
			cfg.Enrich.HTTPTimeout,
			cfg.Fetch.UserAgent,
			cfg.Enrich.MaxArticles,
			cfg.Enrich.Concurrency,
			cfg.Enrich.MaxBodyBytes,
		),
		writer: news.NewSnapshotWriter(cfg.Snapshot.Path),
	}
}

func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	results := p.fetchAll(ctx)

	var merged []news.Article
	for _, res := range results {
		if res.Err != nil {
			metrics.FeedFetchesTotal.WithLabelValues(res.Source.Name, "error").Inc()
			logging.Log.Warn("feed skipped",
				zap.String("feed", res.Source.Name),
				zap.Error(res.Err),
			)
			continue
		}
		metrics.FeedFetchesTotal.WithLabelValues(res.Source.Name, "ok").Inc()
		logging.Log.Info("feed fetched",
			zap.String("feed", res.Source.Name),
			zap.Int("articles", len(res.Articles)),
		)
		merged = append(merged, res.Articles...)
	}

	curated := p.curator.Curate(merged)
	p.enricher.Enrich(ctx, curated)

	if err := p.writer.Write(curated, start); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	if p.Recorder != nil {
		if err := p.Recorder.SaveLastRun(start, len(curated)); err != nil {
			logging.Log.Warn("recording run metadata failed", zap.Error(err))
		}
	}
	if p.Index != nil {
		if err := p.Index.IndexArticles(curated); err != nil {
			logging.Log.Warn("reindexing articles failed", zap.Error(err))
		}
	}

	logging.Log.Info("pipeline finished",
		zap.Int("feeds", len(results)),
		zap.Int("articles", len(curated)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// fetchAll issues all feed fetches concurrently and waits for every one to
// settle. Results come back in the configured feed order so dedup keeps a
// deterministic first-occurrence winner.
func (p *Pipeline) fetchAll(ctx context.Context) []FetchResult {
	results := make([]FetchResult, len(p.cfg.Feeds))
	var wg sync.WaitGroup
	for i, src := range p.cfg.Feeds {
		wg.Add(1)
		go func(i int, src config.FeedSource) {
			defer wg.Done()
			results[i] = p.fetcher.Fetch(ctx, src)
		}(i, src)
	}
	wg.Wait()
	return results
}
