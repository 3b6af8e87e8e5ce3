package feed

import (
	"fmt"
	"io"
	"regexp"

	"github.com/mmcdole/gofeed"

	"github.com/mzurek/gpwpulse/internal/config"
	"github.com/mzurek/gpwpulse/internal/news"
)

// Parser turns a raw RSS or Atom document into normalized articles. gofeed
// handles the shape differences (single vs. list items, CDATA, Atom link
// relations, dc:date fallbacks); normalization of text and images is ours.
type Parser struct {
	parser        *gofeed.Parser
	maxDescLength int
}

func NewParser(maxDescLength int) *Parser {
	return &Parser{
		parser:        gofeed.NewParser(),
		maxDescLength: maxDescLength,
	}
}

func (p *Parser) Parse(reader io.Reader, src config.FeedSource) ([]news.Article, error) {
	parsed, err := p.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	articles := make([]news.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if article, ok := p.normalizeItem(item, src); ok {
			articles = append(articles, article)
		}
	}
	return articles, nil
}

// normalizeItem maps one feed item onto the Article shape. Items without a
// resolvable title or link are discarded.
func (p *Parser) normalizeItem(item *gofeed.Item, src config.FeedSource) (news.Article, bool) {
	title := cleanText(item.Title)
	link := item.Link
	if title == "" || link == "" {
		return news.Article{}, false
	}

	descSource := item.Description
	if descSource == "" {
		descSource = item.Content
	}
	description := truncate(cleanText(descSource), p.maxDescLength)

	pubDate := item.Published
	if pubDate == "" {
		pubDate = item.Updated
	}

	article := news.Article{
		Title:       title,
		Link:        link,
		Description: description,
		PubDate:     pubDate,
		Source:      src.Name,
		SourceColor: src.Color,
		Category:    src.Category,
	}

	if item.PublishedParsed != nil {
		article.Published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		article.Published = *item.UpdatedParsed
	}

	if img := extractImage(item); img != "" {
		article.Image = &img
	}

	return article, true
}

var imgSrcRegex = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)

// extractImage tries, in priority order: enclosure URL, media:content or
// media:thumbnail extension, first <img src> in the raw description/content.
func extractImage(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc.URL != "" {
			return enc.URL
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"content", "thumbnail"} {
			for _, ext := range media[key] {
				if url := ext.Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}

	html := item.Description + " " + item.Content
	if m := imgSrcRegex.FindStringSubmatch(html); len(m) > 1 {
		return m[1]
	}

	return ""
}
