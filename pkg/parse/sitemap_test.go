package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSitemap_URLSet(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/a</loc><lastmod>2024-01-01</lastmod></url>
  <url><loc> https://example.com/b </loc></url>
</urlset>`)

	leafURLs, childSitemaps := ParseSitemap(data)

	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, leafURLs)
	assert.Empty(t, childSitemaps)
}

func TestParseSitemap_Index(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/sitemap-1.xml</loc></sitemap>
  <sitemap><loc>https://example.com/sitemap-2.xml.gz</loc></sitemap>
</sitemapindex>`)

	leafURLs, childSitemaps := ParseSitemap(data)

	assert.Empty(t, leafURLs)
	assert.Equal(t, []string{"https://example.com/sitemap-1.xml", "https://example.com/sitemap-2.xml.gz"}, childSitemaps)
}

func TestParseSitemap_MixedParents(t *testing.T) {
	// loc entries under unknown parents are ignored; url/sitemap parents are
	// classified independently, preserving document order.
	data := []byte(`<root>
  <url><loc>https://example.com/page</loc></url>
  <other><loc>https://example.com/ignored</loc></other>
  <sitemap><loc>https://example.com/child.xml</loc></sitemap>
  <loc>https://example.com/orphan</loc>
</root>`)

	leafURLs, childSitemaps := ParseSitemap(data)

	assert.Equal(t, []string{"https://example.com/page"}, leafURLs)
	assert.Equal(t, []string{"https://example.com/child.xml"}, childSitemaps)
}

func TestParseSitemap_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{"empty input", "", nil},
		{"not markup at all", "hello world", nil},
		{"binary garbage", "\x00\x01\x02\x03", nil},
		{
			// entries decoded before the syntax error are kept
			"truncated document",
			`<urlset><url><loc>https://example.com/a</loc></url><url><loc>https://exam`,
			[]string{"https://example.com/a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leafURLs, childSitemaps := ParseSitemap([]byte(tt.data))
			assert.Equal(t, tt.want, leafURLs)
			assert.Empty(t, childSitemaps)
		})
	}
}

func TestParseSitemap_OrderPreserved(t *testing.T) {
	data := []byte(`<urlset>
  <url><loc>https://example.com/3</loc></url>
  <url><loc>https://example.com/1</loc></url>
  <url><loc>https://example.com/2</loc></url>
</urlset>`)

	leafURLs, _ := ParseSitemap(data)

	assert.Equal(t, []string{"https://example.com/3", "https://example.com/1", "https://example.com/2"}, leafURLs)
}
