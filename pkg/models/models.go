package models

// LeafURLRecord is a single content-page URL discovered during sitemap
// traversal, tagged with the sitemap document it was first found in.
type LeafURLRecord struct {
	URL           string `json:"url"`
	SourceSitemap string `json:"source_sitemap"`
}

// CrawlResult is the outcome of one sitemap traversal.
// LeafURLs contains no duplicate URL values; ProcessedSitemaps lists every
// sitemap document fetched, in visit order; Errors holds one message per
// sitemap document that could not be fetched.
type CrawlResult struct {
	LeafURLs          []LeafURLRecord `json:"leaf_urls"`
	ProcessedSitemaps []string        `json:"processed_sitemaps"`
	Errors            []string        `json:"errors,omitempty"`
}

// SeoProbeResult holds the crawl signals extracted from one probed URL.
// FinalStatus is nil when no response was received. For redirect statuses
// only RedirectLocation is populated; the body is never read. A non-empty
// FetchError means every other field keeps its default, except FinalStatus
// if a response arrived before the failure.
type SeoProbeResult struct {
	URL              string        `json:"url"`
	FinalStatus      *int          `json:"final_status,omitempty"`
	RedirectLocation string        `json:"redirect_location,omitempty"`
	Canonical        string        `json:"canonical,omitempty"`
	CanonicalMatch   bool          `json:"canonical_match"`
	Noindex          bool          `json:"noindex"`
	NoindexSource    NoindexSource `json:"noindex_source,omitempty"`
	FetchError       string        `json:"fetch_error,omitempty"`
}

// IsRedirect reports whether FinalStatus is one of the redirect codes the
// prober short-circuits on.
func (r *SeoProbeResult) IsRedirect() bool {
	if r.FinalStatus == nil {
		return false
	}
	switch *r.FinalStatus {
	case 301, 302, 303, 307, 308:
		return true
	}
	return false
}
