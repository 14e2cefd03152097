package fetch

import (
	"context"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
)

// IsLikelySitemapURL reports whether rawURL already points at a sitemap
// document rather than a site root.
func IsLikelySitemapURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	return strings.Contains(path, "sitemap") ||
		strings.HasSuffix(path, ".xml") ||
		strings.HasSuffix(path, ".xml.gz")
}

// DiscoverSitemaps resolves the sitemap entry points for a site root URL.
// It fetches the host's robots.txt and returns its Sitemap directives; when
// robots.txt is unreachable, unparsable, or declares none, it falls back to
// the conventional /sitemap.xml location.
func DiscoverSitemaps(ctx context.Context, fetcher SitemapFetcher, siteURL string, log *logrus.Entry) []string {
	u, err := url.Parse(siteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		log.WithField("url", siteURL).Warn("Cannot derive robots.txt location from site URL")
		return nil
	}
	base := u.Scheme + "://" + u.Host
	fallback := []string{base + "/sitemap.xml"}

	robotsURL := base + "/robots.txt"
	robotsLog := log.WithField("robots_url", robotsURL)

	data, err := fetcher.Fetch(ctx, robotsURL)
	if err != nil {
		robotsLog.Warnf("robots.txt fetch failed, falling back to /sitemap.xml: %v", err)
		return fallback
	}

	robots, err := robotstxt.FromBytes(data)
	if err != nil {
		robotsLog.Warnf("robots.txt parse failed, falling back to /sitemap.xml: %v", err)
		return fallback
	}
	if len(robots.Sitemaps) == 0 {
		robotsLog.Debug("robots.txt declares no sitemaps, falling back to /sitemap.xml")
		return fallback
	}

	robotsLog.Infof("Discovered %d sitemap(s) from robots.txt", len(robots.Sitemaps))
	return robots.Sitemaps
}
