package news

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testCurator() *Curator {
	c := NewCurator(30, 100, []string{"kredyt gotówkowy", "cashback", "lokata"})
	c.Now = func() time.Time { return testNow }
	return c
}

func article(link string, published time.Time) Article {
	return Article{
		Title:     "Tytuł " + link,
		Link:      link,
		Published: published,
		Source:    "Test",
	}
}

func TestCurator_RecencyBoundary(t *testing.T) {
	c := testCurator()

	onBoundary := article("http://x.com/boundary", testNow.Add(-30*24*time.Hour))
	tooOld := article("http://x.com/old", testNow.Add(-31*24*time.Hour))
	unparsable := article("http://x.com/nodate", time.Time{})

	out := c.Curate([]Article{onBoundary, tooOld, unparsable})

	if len(out) != 1 {
		t.Fatalf("expected 1 article, got %d", len(out))
	}
	if out[0].Link != "http://x.com/boundary" {
		t.Errorf("expected the boundary article to survive, got %s", out[0].Link)
	}
}

func TestCurator_SpamFilter(t *testing.T) {
	c := testCurator()

	clean := article("http://x.com/a", testNow)
	spamTitle := article("http://x.com/b", testNow)
	spamTitle.Title = "Najlepszy kredyt gotówkowy na rynku"
	spamDesc := article("http://x.com/c", testNow)
	spamDesc.Description = "Promocja: CASHBACK do 500 zł"

	out := c.Curate([]Article{clean, spamTitle, spamDesc})

	if len(out) != 1 || out[0].Link != "http://x.com/a" {
		t.Errorf("expected only the clean article, got %v", links(out))
	}
}

func TestCurator_DedupNormalizesLinks(t *testing.T) {
	c := testCurator()

	first := article("https://x.com/a?utm=1", testNow)
	first.Title = "Pierwszy"
	second := article("https://x.com/a#frag", testNow.Add(-time.Hour))
	second.Title = "Drugi"

	out := c.Curate([]Article{first, second})

	if len(out) != 1 {
		t.Fatalf("expected duplicates collapsed, got %d articles", len(out))
	}
	if out[0].Title != "Pierwszy" {
		t.Errorf("expected first occurrence to win, got %q", out[0].Title)
	}
}

func TestCurator_SortAndCap(t *testing.T) {
	c := testCurator()

	var input []Article
	for i := 0; i < 150; i++ {
		input = append(input, article(
			fmt.Sprintf("http://x.com/%d", i),
			testNow.Add(-time.Duration(i)*time.Minute),
		))
	}

	out := c.Curate(input)

	if len(out) != 100 {
		t.Fatalf("expected cap at 100 articles, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].Published.After(out[i-1].Published) {
			t.Fatalf("articles not sorted descending at index %d", i)
		}
	}
	if out[0].DateISO == "" || out[0].DateFormatted == "" {
		t.Error("expected derived date fields to be set")
	}
}

func TestCurator_Idempotent(t *testing.T) {
	c := testCurator()

	input := []Article{
		article("http://x.com/a?utm=1", testNow),
		article("http://x.com/a", testNow.Add(-time.Hour)),
		article("http://x.com/b", testNow.Add(-2*time.Hour)),
		article("http://x.com/old", testNow.Add(-40*24*time.Hour)),
	}

	first := c.Curate(input)
	second := c.Curate(input)

	if !reflect.DeepEqual(first, second) {
		t.Error("curation must be deterministic for the same input")
	}
}

func TestNormalizeLink(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://x.com/a?utm=1", "https://x.com/a"},
		{"https://x.com/a#frag", "https://x.com/a"},
		{"https://x.com/a?b=1#frag", "https://x.com/a"},
		{"https://x.com/a", "https://x.com/a"},
	}
	for _, tt := range tests {
		if got := NormalizeLink(tt.input); got != tt.expected {
			t.Errorf("NormalizeLink(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatDisplayDate(t *testing.T) {
	d := time.Date(2026, 3, 3, 14, 5, 0, 0, time.UTC)
	if got := FormatDisplayDate(d); got != "3 marca 2026, 14:05" {
		t.Errorf("FormatDisplayDate = %q", got)
	}
	if got := FormatDisplayDate(time.Time{}); got != "" {
		t.Errorf("zero time should format to empty string, got %q", got)
	}
}

func links(articles []Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Link
	}
	return out
}
