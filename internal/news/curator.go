package news

import (
	"sort"
	"strings"
	"time"

	"github.com/mzurek/gpwpulse/internal/metrics"
)

// Curator reduces the merged output of all feeds to the bounded, ordered set
// that makes up the snapshot. The steps run in a fixed order: recency filter,
// spam filter, dedup, sort, cap.
type Curator struct {
	MaxAge       time.Duration
	MaxArticles  int
	SpamKeywords []string

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewCurator(maxAgeDays, maxArticles int, spamKeywords []string) *Curator {
	return &Curator{
		MaxAge:       time.Duration(maxAgeDays) * 24 * time.Hour,
		MaxArticles:  maxArticles,
		SpamKeywords: spamKeywords,
		Now:          time.Now,
	}
}

func (c *Curator) Curate(articles []Article) []Article {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	cutoff := now.Add(-c.MaxAge)

	kept := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.Published.IsZero() || a.Published.Before(cutoff) {
			metrics.ArticlesDroppedTotal.WithLabelValues("stale").Inc()
			continue
		}
		if c.isSpam(a) {
			metrics.ArticlesDroppedTotal.WithLabelValues("spam").Inc()
			continue
		}
		kept = append(kept, a)
	}

	kept = dedupeByLink(kept)

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Published.After(kept[j].Published)
	})

	if len(kept) > c.MaxArticles {
		kept = kept[:c.MaxArticles]
	}

	for i := range kept {
		kept[i].DateISO = kept[i].Published.Format(time.RFC3339)
		kept[i].DateFormatted = FormatDisplayDate(kept[i].Published)
		metrics.ArticlesKeptTotal.Inc()
	}

	return kept
}

func (c *Curator) isSpam(a Article) bool {
	haystack := strings.ToLower(a.Title + " " + a.Description)
	for _, kw := range c.SpamKeywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// dedupeByLink keeps the first occurrence of each normalized link.
func dedupeByLink(articles []Article) []Article {
	seen := make(map[string]bool, len(articles))
	result := make([]Article, 0, len(articles))
	for _, a := range articles {
		key := NormalizeLink(a.Link)
		if seen[key] {
			metrics.ArticlesDroppedTotal.WithLabelValues("duplicate").Inc()
			continue
		}
		seen[key] = true
		result = append(result, a)
	}
	return result
}
