package news

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mzurek/gpwpulse/internal/logging"
	"github.com/mzurek/gpwpulse/internal/metrics"
)

// Enricher fills in missing article images by probing each article page for
// an og:image meta tag. Strictly best-effort: a failed lookup leaves the
// article untouched.
type Enricher struct {
	client       *http.Client
	userAgent    string
	maxArticles  int
	concurrency  int
	maxBodyBytes int64
}

func NewEnricher(timeout time.Duration, userAgent string, maxArticles, concurrency int, maxBodyBytes int64) *Enricher {
	return &Enricher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent:    userAgent,
		maxArticles:  maxArticles,
		concurrency:  concurrency,
		maxBodyBytes: maxBodyBytes,
	}
}

// Attribute order varies across sites: property can come before or after content.
var (
	ogImagePropertyFirst = regexp.MustCompile(`<meta[^>]+property=["']og:image["'][^>]+content=["']([^"']+)["']`)
	ogImageContentFirst  = regexp.MustCompile(`<meta[^>]+content=["']([^"']+)["'][^>]+property=["']og:image["']`)
)

// Enrich mutates articles in place, looking up og:image for the first
// maxArticles entries that have no image. Lookups run in batches of
// concurrency goroutines; individual failures are logged and skipped.
func (e *Enricher) Enrich(ctx context.Context, articles []Article) {
	if e.maxArticles <= 0 {
		return
	}
	var candidates []int
	for i := range articles {
		if articles[i].Image == nil {
			candidates = append(candidates, i)
			if len(candidates) == e.maxArticles {
				break
			}
		}
	}
	if len(candidates) == 0 {
		return
	}

	idxChan := make(chan int, len(candidates))
	var wg sync.WaitGroup
	workers := e.concurrency
	if workers > len(candidates) {
		workers = len(candidates)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxChan {
				if img := e.lookupImage(ctx, articles[i].Link); img != "" {
					articles[i].Image = &img
					metrics.ImageLookupsTotal.WithLabelValues("hit").Inc()
				} else {
					metrics.ImageLookupsTotal.WithLabelValues("miss").Inc()
				}
			}
		}()
	}
	for _, i := range candidates {
		idxChan <- i
	}
	close(idxChan)
	wg.Wait()
}

// lookupImage fetches a bounded prefix of the page and scans it for an
// absolute og:image URL. Returns "" on any failure.
func (e *Enricher) lookupImage(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		logging.Log.Debug("og:image fetch failed", zap.String("url", pageURL), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ""
	}

	// Read only a prefix of the body; the meta tag lives in <head>.
	// Closing the body afterwards releases the connection early.
	prefix, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodyBytes))
	if err != nil && len(prefix) == 0 {
		return ""
	}

	return extractOGImage(string(prefix))
}

func extractOGImage(html string) string {
	for _, re := range []*regexp.Regexp{ogImagePropertyFirst, ogImageContentFirst} {
		if m := re.FindStringSubmatch(html); len(m) > 1 {
			if strings.HasPrefix(m[1], "http") {
				return m[1]
			}
		}
	}
	return ""
}
