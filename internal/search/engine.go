// Package search maintains a bleve full-text index over the curated
// article set. The snapshot replaces the whole article set on every run, so
// the index is rebuilt from scratch rather than patched.
package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/mzurek/gpwpulse/internal/news"
)

// Result is one search hit reconstructed from stored fields.
type Result struct {
	Title       string
	Link        string
	Description string
	Source      string
	Score       float64
}

type Engine struct {
	path string
	idx  bleve.Index
}

// Open opens an existing index for querying.
func Open(indexPath string) (*Engine, error) {
	idx, err := bleve.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	return &Engine{path: indexPath, idx: idx}, nil
}

// Rebuild drops any existing index at indexPath and indexes articles into a
// fresh one.
func Rebuild(indexPath string, articles []news.Article) (*Engine, error) {
	if err := os.RemoveAll(indexPath); err != nil {
		return nil, fmt.Errorf("clearing search index: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := bleve.New(indexPath, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}

	e := &Engine{path: indexPath, idx: idx}
	if err := e.IndexArticles(articles); err != nil {
		idx.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) Close() error {
	return e.idx.Close()
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true

	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = standard.Name
	desc.Store = true

	source := bleve.NewTextFieldMapping()
	source.Analyzer = standard.Name
	source.Store = true

	link := bleve.NewTextFieldMapping()
	link.Analyzer = standard.Name
	link.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("description", desc)
	dm.AddFieldMappingsAt("source", source)
	dm.AddFieldMappingsAt("link", link)

	im.DefaultMapping = dm
	return im
}

// IndexArticles adds articles to the index, keyed by normalized link.
func (e *Engine) IndexArticles(articles []news.Article) error {
	batch := e.idx.NewBatch()
	for _, a := range articles {
		err := batch.Index(news.NormalizeLink(a.Link), map[string]any{
			"title":       a.Title,
			"description": a.Description,
			"source":      a.Source,
			"link":        a.Link,
		})
		if err != nil {
			return fmt.Errorf("indexing article: %w", err)
		}
	}
	return e.idx.Batch(batch)
}

// Search runs a boosted disjunction of match and prefix queries per token
// over title, description and source.
func (e *Engine) Search(query string, limit int) ([]Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []Result{}, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)

		qtp := bleve.NewPrefixQuery(tok)
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qd := bleve.NewMatchQuery(tok)
		qd.SetField("description")
		qd.SetBoost(2.0)
		qs = append(qs, qd)

		qdp := bleve.NewPrefixQuery(tok)
		qdp.SetField("description")
		qdp.SetBoost(1.8)
		qs = append(qs, qdp)

		qsrc := bleve.NewMatchQuery(tok)
		qsrc.SetField("source")
		qsrc.SetBoost(1.0)
		qs = append(qs, qsrc)
	}
	if len(qs) == 0 {
		return []Result{}, nil
	}

	q := bleve.NewDisjunctionQuery(qs...)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"title", "description", "source", "link"}

	res, err := e.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		r := Result{Score: h.Score}
		if v, ok := h.Fields["title"].(string); ok {
			r.Title = v
		}
		if v, ok := h.Fields["description"].(string); ok {
			r.Description = v
		}
		if v, ok := h.Fields["source"].(string); ok {
			r.Source = v
		}
		if v, ok := h.Fields["link"].(string); ok {
			r.Link = v
		}
		out = append(out, r)
	}
	return out, nil
}

// DocCount reports the number of indexed articles.
func (e *Engine) DocCount() (uint64, error) {
	return e.idx.DocCount()
}
