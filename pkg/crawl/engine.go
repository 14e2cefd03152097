package crawl

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"sitemap-audit/pkg/fetch"
	"sitemap-audit/pkg/models"
	"sitemap-audit/pkg/parse"
	"sitemap-audit/pkg/utils"
)

// Engine walks a sitemap tree breadth-first, collecting a deduplicated,
// capped, provenance-tagged set of leaf URLs. Traversal is strictly
// sequential: one frontier, one fetch at a time.
type Engine struct {
	fetcher fetch.SitemapFetcher
	log     *logrus.Entry
}

// NewEngine creates a traversal engine on top of the given fetcher.
func NewEngine(fetcher fetch.SitemapFetcher, log *logrus.Logger) *Engine {
	return &Engine{
		fetcher: fetcher,
		log:     log.WithField("component", "crawl_engine"),
	}
}

// Traverse runs a breadth-first traversal seeded with a single sitemap URL.
// See TraverseAll for the traversal contract.
func (e *Engine) Traverse(ctx context.Context, seed string, maxURLs int) models.CrawlResult {
	return e.TraverseAll(ctx, []string{seed}, maxURLs)
}

// TraverseAll runs a breadth-first traversal over sitemap documents starting
// from the given seeds. Each document is fetched at most once (cycle safe);
// each leaf URL appears at most once, tagged with the sitemap it was first
// seen in; collection stops the moment maxURLs leaf URLs are held, and
// sitemaps still queued at that point are never fetched. A document that
// cannot be fetched contributes an entry to Errors and traversal continues.
// Cancelling ctx stops the loop before the next document; everything
// collected so far is returned.
func (e *Engine) TraverseAll(ctx context.Context, seeds []string, maxURLs int) models.CrawlResult {
	var result models.CrawlResult

	frontier := make([]string, 0, len(seeds))
	frontier = append(frontier, seeds...)
	visited := make(map[string]bool)
	seen := make(map[string]bool)

	for len(frontier) > 0 && len(result.LeafURLs) < maxURLs {
		if ctx.Err() != nil {
			e.log.Warnf("Traversal stopped early: %v", ctx.Err())
			break
		}

		current := frontier[0]
		frontier = frontier[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		result.ProcessedSitemaps = append(result.ProcessedSitemaps, current)

		smLog := e.log.WithField("sitemap_url", current)
		smLog.Info("Processing sitemap")

		data, err := e.fetcher.Fetch(ctx, current)
		if err != nil {
			smLog.WithField("error_category", utils.CategorizeError(err)).Warnf("Sitemap fetch failed: %v", err)
			result.Errors = append(result.Errors, fmt.Sprintf("error fetching %s: %v", current, err))
			continue
		}

		leafURLs, childSitemaps := parse.ParseSitemap(data)
		smLog.WithFields(logrus.Fields{
			"leaf_urls":      len(leafURLs),
			"child_sitemaps": len(childSitemaps),
		}).Debug("Parsed sitemap document")

		for _, u := range leafURLs {
			if seen[u] {
				continue
			}
			seen[u] = true
			result.LeafURLs = append(result.LeafURLs, models.LeafURLRecord{URL: u, SourceSitemap: current})
			if len(result.LeafURLs) >= maxURLs {
				smLog.Warnf("URL cap (%d) reached, discarding the rest of this document", maxURLs)
				break
			}
		}

		for _, child := range childSitemaps {
			if !visited[child] {
				frontier = append(frontier, child)
			}
		}
	}

	e.log.WithFields(logrus.Fields{
		"leaf_urls":          len(result.LeafURLs),
		"processed_sitemaps": len(result.ProcessedSitemaps),
		"errors":             len(result.Errors),
	}).Info("Traversal finished")
	return result
}

// ParseUploaded extracts leaf URLs from an already-downloaded sitemap
// document, tagging each with the caller-supplied provenance label. Gzip
// payloads are detected by magic number or a ".gz" label suffix, matching
// fetched documents. Duplicate URLs within the document are dropped.
func ParseUploaded(data []byte, label string) []models.LeafURLRecord {
	leafURLs, _ := parse.ParseSitemap(fetch.MaybeGunzip(data, label))

	seen := make(map[string]bool, len(leafURLs))
	records := make([]models.LeafURLRecord, 0, len(leafURLs))
	for _, u := range leafURLs {
		if seen[u] {
			continue
		}
		seen[u] = true
		records = append(records, models.LeafURLRecord{URL: u, SourceSitemap: label})
	}
	return records
}
