package news

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "news.json")
	w := NewSnapshotWriter(path)

	img := "https://cdn.x.com/img.jpg"
	articles := []Article{
		{Title: "Pierwszy", Link: "http://x.com/1", Image: &img},
		{Title: "Drugi", Link: "http://x.com/2"},
	}
	at := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

	require.NoError(t, w.Write(articles, at))

	snap, err := w.Read()
	require.NoError(t, err)
	require.Len(t, snap.Articles, 2)
	assert.Equal(t, "Pierwszy", snap.Articles[0].Title)
	require.NotNil(t, snap.Articles[0].Image)
	assert.Equal(t, img, *snap.Articles[0].Image)
	assert.Nil(t, snap.Articles[1].Image)
	assert.Equal(t, "2026-03-10T08:30:00Z", snap.UpdatedAt)
}

func TestSnapshotWriter_EmptySetIsArrayNotNull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	w := NewSnapshotWriter(path)

	require.NoError(t, w.Write(nil, time.Now()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"articles": []`)
	assert.NotContains(t, string(data), `"articles": null`)
}

func TestSnapshotWriter_ReplacesWholeDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	w := NewSnapshotWriter(path)

	require.NoError(t, w.Write([]Article{{Title: "Stary", Link: "http://x.com/old"}}, time.Now()))
	require.NoError(t, w.Write([]Article{{Title: "Nowy", Link: "http://x.com/new"}}, time.Now()))

	snap, err := w.Read()
	require.NoError(t, err)
	require.Len(t, snap.Articles, 1)
	assert.Equal(t, "Nowy", snap.Articles[0].Title)
}

func TestSnapshotWriter_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewSnapshotWriter(filepath.Join(dir, "news.json"))

	require.NoError(t, w.Write([]Article{{Title: "A", Link: "http://x.com/a"}}, time.Now()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".news-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
