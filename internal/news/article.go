package news

import (
	"fmt"
	"strings"
	"time"
)

// Article is the uniform record produced by the pipeline. Image is nil when
// no image could be found for the article.
type Article struct {
	Title         string  `json:"title"`
	Link          string  `json:"link"`
	Description   string  `json:"description"`
	PubDate       string  `json:"pubDate"`
	DateISO       string  `json:"dateISO"`
	DateFormatted string  `json:"dateFormatted"`
	Source        string  `json:"source"`
	SourceColor   string  `json:"sourceColor"`
	Category      string  `json:"category"`
	Image         *string `json:"image"`

	// Published is the parsed pubDate; zero when the source date was
	// unparsable. Not part of the snapshot document.
	Published time.Time `json:"-"`
}

// Snapshot is the single JSON document the pipeline replaces on every run.
type Snapshot struct {
	Articles  []Article `json:"articles"`
	UpdatedAt string    `json:"updatedAt"`
}

// NormalizeLink strips query and fragment suffixes so tracking parameters
// do not defeat deduplication.
func NormalizeLink(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		return link[:i]
	}
	return link
}

var plMonths = [...]string{
	"stycznia", "lutego", "marca", "kwietnia", "maja", "czerwca",
	"lipca", "sierpnia", "września", "października", "listopada", "grudnia",
}

// FormatDisplayDate renders a Polish display date like "3 marca 2026, 14:05".
// Returns "" for the zero time, matching the unparsable-date contract.
func FormatDisplayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d, %02d:%02d",
		t.Day(), plMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
