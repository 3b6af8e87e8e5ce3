package feed

import (
	"strings"
	"testing"

	"github.com/mzurek/gpwpulse/internal/config"
	"github.com/mzurek/gpwpulse/internal/news"
)

var testSource = config.FeedSource{
	Name:     "Bankier.pl",
	Category: "gielda",
	URL:      "https://www.bankier.pl/rss/wiadomosci.xml",
	Color:    "#0B62A4",
}

func TestParser_Parse(t *testing.T) {
	parser := NewParser(300)

	tests := []struct {
		name          string
		feedContent   string
		expectError   bool
		expectedCount int
		validateFunc  func(t *testing.T, articles []news.Article)
	}{
		{
			name: "valid RSS feed",
			feedContent: `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Bankier.pl</title>
		<item>
			<title><![CDATA[Spółka X rośnie]]></title>
			<link>http://example.com/article1</link>
			<description><![CDATA[<p>Wzrost kursu</p>]]></description>
			<pubDate>Wed, 01 Jan 2025 12:00:00 GMT</pubDate>
			<enclosure url="http://example.com/image1.jpg" type="image/jpeg"/>
		</item>
		<item>
			<title>Druga wiadomość</title>
			<link>http://example.com/article2</link>
			<description>Opis drugiej</description>
			<pubDate>Thu, 02 Jan 2025 12:00:00 GMT</pubDate>
		</item>
	</channel>
</rss>`,
			expectedCount: 2,
			validateFunc: func(t *testing.T, articles []news.Article) {
				a := articles[0]
				if a.Title != "Spółka X rośnie" {
					t.Errorf("expected cleaned title, got %q", a.Title)
				}
				if a.Description != "Wzrost kursu" {
					t.Errorf("expected HTML stripped from description, got %q", a.Description)
				}
				if a.Image == nil || *a.Image != "http://example.com/image1.jpg" {
					t.Error("expected enclosure image")
				}
				if a.Source != "Bankier.pl" || a.Category != "gielda" || a.SourceColor != "#0B62A4" {
					t.Error("source metadata not carried over")
				}
				if a.Published.IsZero() {
					t.Error("expected parsed publish date")
				}
				if a.PubDate != "Wed, 01 Jan 2025 12:00:00 GMT" {
					t.Errorf("expected raw pubDate retained, got %q", a.PubDate)
				}
				if articles[1].Image != nil {
					t.Error("article without any image should have nil image")
				}
			},
		},
		{
			name: "valid Atom feed",
			feedContent: `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Test Atom Feed</title>
	<entry>
		<title>Atom Entry 1</title>
		<link rel="alternate" href="http://example.org/entry1"/>
		<id>urn:uuid:1225c695-cfb8-4ebb-aaaa-80da344efa6a</id>
		<published>2025-01-01T12:00:00Z</published>
		<updated>2025-01-02T12:00:00Z</updated>
		<summary>Entry summary</summary>
	</entry>
</feed>`,
			expectedCount: 1,
			validateFunc: func(t *testing.T, articles []news.Article) {
				a := articles[0]
				if a.Title != "Atom Entry 1" {
					t.Errorf("expected title 'Atom Entry 1', got %q", a.Title)
				}
				if a.Link != "http://example.org/entry1" {
					t.Errorf("expected alternate link resolved, got %q", a.Link)
				}
				if a.Published.IsZero() {
					t.Error("expected published date parsed")
				}
			},
		},
		{
			name: "media thumbnail fallback",
			feedContent: `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
	<channel>
		<item>
			<title>Z miniaturą</title>
			<link>http://example.com/thumb</link>
			<description>tekst</description>
			<media:thumbnail url="http://example.com/thumb.jpg"/>
		</item>
	</channel>
</rss>`,
			expectedCount: 1,
			validateFunc: func(t *testing.T, articles []news.Article) {
				if articles[0].Image == nil || *articles[0].Image != "http://example.com/thumb.jpg" {
					t.Error("expected media:thumbnail image")
				}
			},
		},
		{
			name: "img tag in description as last resort",
			feedContent: `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<item>
			<title>Z obrazkiem w opisie</title>
			<link>http://example.com/inline</link>
			<description><![CDATA[Zobacz: <img src="http://example.com/photo.jpg" /> koniec]]></description>
		</item>
	</channel>
</rss>`,
			expectedCount: 1,
			validateFunc: func(t *testing.T, articles []news.Article) {
				if articles[0].Image == nil || *articles[0].Image != "http://example.com/photo.jpg" {
					t.Error("expected inline img extracted")
				}
			},
		},
		{
			name: "items without title or link are dropped",
			feedContent: `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<item>
			<title>Bez linku</title>
			<description>opis</description>
		</item>
		<item>
			<link>http://example.com/notitle</link>
			<description>opis</description>
		</item>
		<item>
			<title>Kompletny</title>
			<link>http://example.com/ok</link>
		</item>
	</channel>
</rss>`,
			expectedCount: 1,
			validateFunc: func(t *testing.T, articles []news.Article) {
				if articles[0].Link != "http://example.com/ok" {
					t.Errorf("wrong survivor: %q", articles[0].Link)
				}
			},
		},
		{
			name:        "invalid XML",
			feedContent: "not valid XML",
			expectError: true,
		},
		{
			name:          "empty channel",
			feedContent:   `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel></channel></rss>`,
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles, err := parser.Parse(strings.NewReader(tt.feedContent), testSource)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if len(articles) != tt.expectedCount {
				t.Errorf("expected %d articles, got %d", tt.expectedCount, len(articles))
			}

			if tt.validateFunc != nil && len(articles) > 0 {
				tt.validateFunc(t, articles)
			}
		})
	}
}

func TestParser_DescriptionTruncation(t *testing.T) {
	parser := NewParser(300)

	long := strings.Repeat("a", 400)
	content := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><item>
	<title>Długi opis</title>
	<link>http://example.com/long</link>
	<description>` + long + `</description>
</item></channel></rss>`

	articles, err := parser.Parse(strings.NewReader(content), testSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if got := len([]rune(articles[0].Description)); got != 300 {
		t.Errorf("expected description truncated to 300 runes, got %d", got)
	}
}
