package crawl

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitemap-audit/pkg/models"
)

// mockFetcher serves canned sitemap documents per URL and records fetch order.
type mockFetcher struct {
	docs    map[string]string
	errs    map[string]error
	fetched []string
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{docs: make(map[string]string), errs: make(map[string]error)}
}

func (m *mockFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	m.fetched = append(m.fetched, rawURL)
	if err, ok := m.errs[rawURL]; ok {
		return nil, err
	}
	doc, ok := m.docs[rawURL]
	if !ok {
		return nil, fmt.Errorf("no document for %s", rawURL)
	}
	return []byte(doc), nil
}

func urlSet(urls ...string) string {
	var buf bytes.Buffer
	buf.WriteString("<urlset>")
	for _, u := range urls {
		fmt.Fprintf(&buf, "<url><loc>%s</loc></url>", u)
	}
	buf.WriteString("</urlset>")
	return buf.String()
}

func sitemapIndex(sitemaps ...string) string {
	var buf bytes.Buffer
	buf.WriteString("<sitemapindex>")
	for _, s := range sitemaps {
		fmt.Fprintf(&buf, "<sitemap><loc>%s</loc></sitemap>", s)
	}
	buf.WriteString("</sitemapindex>")
	return buf.String()
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func leafValues(records []models.LeafURLRecord) []string {
	urls := make([]string, len(records))
	for i, rec := range records {
		urls[i] = rec.URL
	}
	return urls
}

func TestTraverse_SingleURLSet(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.docs["https://example.com/sitemap.xml"] = urlSet("https://example.com/a", "https://example.com/b")

	engine := NewEngine(fetcher, testLogger())
	result := engine.Traverse(context.Background(), "https://example.com/sitemap.xml", 100)

	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, leafValues(result.LeafURLs))
	assert.Equal(t, []string{"https://example.com/sitemap.xml"}, result.ProcessedSitemaps)
	assert.Empty(t, result.Errors)
	for _, rec := range result.LeafURLs {
		assert.Equal(t, "https://example.com/sitemap.xml", rec.SourceSitemap)
	}
}

func TestTraverse_BreadthFirstOrder(t *testing.T) {
	// index -> [A, B]; A -> [X, Y]; B -> [Z]. A and B must both be
	// processed before any of their children would be (here children are
	// leaves, so assert sitemap visit order and leaf order).
	fetcher := newMockFetcher()
	fetcher.docs["idx"] = sitemapIndex("A", "B")
	fetcher.docs["A"] = urlSet("X", "Y")
	fetcher.docs["B"] = urlSet("Z")

	engine := NewEngine(fetcher, testLogger())
	result := engine.Traverse(context.Background(), "idx", 100)

	assert.Equal(t, []string{"idx", "A", "B"}, result.ProcessedSitemaps)
	assert.Equal(t, []string{"X", "Y", "Z"}, leafValues(result.LeafURLs))
}

func TestTraverse_DedupAcrossSitemaps(t *testing.T) {
	// The same leaf URL referenced from two child sitemaps appears once,
	// attributed to whichever child was processed first.
	fetcher := newMockFetcher()
	fetcher.docs["idx"] = sitemapIndex("A", "B")
	fetcher.docs["A"] = urlSet("https://example.com/shared", "https://example.com/a-only")
	fetcher.docs["B"] = urlSet("https://example.com/shared", "https://example.com/b-only")

	engine := NewEngine(fetcher, testLogger())
	result := engine.Traverse(context.Background(), "idx", 100)

	require.Equal(t, []string{"https://example.com/shared", "https://example.com/a-only", "https://example.com/b-only"},
		leafValues(result.LeafURLs))
	assert.Equal(t, "A", result.LeafURLs[0].SourceSitemap)
}

func TestTraverse_CycleSafety(t *testing.T) {
	// idx references itself and a child that references idx back.
	fetcher := newMockFetcher()
	fetcher.docs["idx"] = sitemapIndex("idx", "child")
	fetcher.docs["child"] = sitemapIndex("idx")

	engine := NewEngine(fetcher, testLogger())
	result := engine.Traverse(context.Background(), "idx", 100)

	assert.Equal(t, []string{"idx", "child"}, result.ProcessedSitemaps)
	assert.Equal(t, []string{"idx", "child"}, fetcher.fetched)
}

func TestTraverse_CapEnforcement(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.docs["idx"] = sitemapIndex("A", "B")
	fetcher.docs["A"] = urlSet("u1", "u2", "u3", "u4", "u5")
	fetcher.docs["B"] = urlSet("u6")

	engine := NewEngine(fetcher, testLogger())
	result := engine.Traverse(context.Background(), "idx", 3)

	assert.Len(t, result.LeafURLs, 3)
	assert.Equal(t, []string{"u1", "u2", "u3"}, leafValues(result.LeafURLs))
	// B was queued but the cap was already satisfied, so it is never fetched.
	assert.Equal(t, []string{"idx", "A"}, fetcher.fetched)
}

func TestTraverse_PartialFailure(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.docs["idx"] = sitemapIndex("broken", "good")
	fetcher.errs["broken"] = errors.New("connection refused")
	fetcher.docs["good"] = urlSet("https://example.com/page")

	engine := NewEngine(fetcher, testLogger())
	result := engine.Traverse(context.Background(), "idx", 100)

	assert.Equal(t, []string{"https://example.com/page"}, leafValues(result.LeafURLs))
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "broken")
	assert.Contains(t, result.Errors[0], "connection refused")
	assert.Equal(t, []string{"idx", "broken", "good"}, result.ProcessedSitemaps)
}

func TestTraverse_MalformedDocument(t *testing.T) {
	// Unparsable content is not an error; it just contributes nothing.
	fetcher := newMockFetcher()
	fetcher.docs["idx"] = "this is not xml at all"

	engine := NewEngine(fetcher, testLogger())
	result := engine.Traverse(context.Background(), "idx", 100)

	assert.Empty(t, result.LeafURLs)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"idx"}, result.ProcessedSitemaps)
}

func TestTraverse_Cancellation(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.docs["idx"] = sitemapIndex("A", "B")
	fetcher.docs["A"] = urlSet("u1")
	fetcher.docs["B"] = urlSet("u2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(fetcher, testLogger())
	result := engine.Traverse(ctx, "idx", 100)

	assert.Empty(t, result.ProcessedSitemaps)
	assert.Empty(t, fetcher.fetched)
}

func TestTraverseAll_MultipleSeeds(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.docs["sm1"] = urlSet("a")
	fetcher.docs["sm2"] = urlSet("b")

	engine := NewEngine(fetcher, testLogger())
	result := engine.TraverseAll(context.Background(), []string{"sm1", "sm2"}, 100)

	assert.Equal(t, []string{"sm1", "sm2"}, result.ProcessedSitemaps)
	assert.Equal(t, []string{"a", "b"}, leafValues(result.LeafURLs))
}

func TestParseUploaded(t *testing.T) {
	data := []byte(urlSet("https://example.com/a", "https://example.com/b", "https://example.com/a"))

	records := ParseUploaded(data, "upload.xml")

	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, leafValues(records))
	for _, rec := range records {
		assert.Equal(t, "upload.xml", rec.SourceSitemap)
	}
}

func TestParseUploaded_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(urlSet("https://example.com/a")))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	records := ParseUploaded(buf.Bytes(), "upload.xml.gz")

	assert.Equal(t, []string{"https://example.com/a"}, leafValues(records))
}
