package probe

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"sitemap-audit/pkg/config"
	"sitemap-audit/pkg/models"
	"sitemap-audit/pkg/utils"
)

// binaryContentTypes are response content types whose bodies are never
// parsed; only the X-Robots-Tag header is inspected for them.
var binaryContentTypes = []string{
	"image/",
	"video/",
	"audio/",
	"application/pdf",
	"application/zip",
	"application/gzip",
	"application/x-gzip",
	"application/x-tar",
	"application/x-rar",
	"application/x-7z-compressed",
	"application/octet-stream",
}

// Prober fetches a single URL with redirects suppressed and extracts SEO
// signals from its headers and a truncated HTML prefix. The client is shared
// read-only across all workers.
type Prober struct {
	client *http.Client
	cfg    *config.AppConfig
	log    *logrus.Entry
}

// NewProber creates a Prober. The client must not follow redirects
// (see fetch.NewProbeClient).
func NewProber(client *http.Client, cfg *config.AppConfig, log *logrus.Logger) *Prober {
	return &Prober{
		client: client,
		cfg:    cfg,
		log:    log.WithField("component", "prober"),
	}
}

// Probe issues one redirect-suppressed GET for pageURL and returns its SEO
// signal record. Redirect statuses short-circuit before the body is read;
// binary content types short-circuit after the X-Robots-Tag check; otherwise
// at most MaxBodyBytes of the body are parsed for robots meta and canonical
// link tags. CanonicalMatch is byte-exact equality with pageURL — no
// normalization.
func (p *Prober) Probe(ctx context.Context, pageURL string) models.SeoProbeResult {
	result := models.SeoProbeResult{URL: pageURL}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		result.FetchError = utils.ProbeErrorMessage(err)
		return result
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.WithFields(logrus.Fields{
			"url":            pageURL,
			"error_category": utils.CategorizeError(err),
		}).Debugf("Probe request failed: %v", err)
		result.FetchError = utils.ProbeErrorMessage(err)
		return result
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	status := resp.StatusCode
	result.FinalStatus = &status

	// Redirects are recorded, never followed; the body stays unread.
	if result.IsRedirect() {
		result.RedirectLocation = resp.Header.Get("Location")
		return result
	}

	if hasNoindexToken(resp.Header.Get("X-Robots-Tag")) {
		result.Noindex = true
		result.NoindexSource = models.NoindexSourceHeader
	}

	// Non-HTML payloads carry no meta/canonical tags worth parsing.
	if isBinaryContentType(resp.Header.Get("Content-Type")) {
		return result
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.cfg.MaxBodyBytes))
	if err != nil {
		result.FetchError = utils.ProbeErrorMessage(err)
		return result
	}

	// goquery's underlying parser tolerates the truncated, possibly invalid
	// markup; the error path only fires on reader failure.
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		result.FetchError = utils.ProbeErrorMessage(err)
		return result
	}

	if meta := doc.Find(`meta[name="robots"]`).First(); meta.Length() > 0 {
		if content, _ := meta.Attr("content"); hasNoindexToken(content) {
			result.Noindex = true
			if result.NoindexSource == models.NoindexSourceHeader {
				result.NoindexSource = models.NoindexSourceBoth
			} else {
				result.NoindexSource = models.NoindexSourceMeta
			}
		}
	}

	if link := doc.Find(`link[rel="canonical"]`).First(); link.Length() > 0 {
		if href, ok := link.Attr("href"); ok {
			result.Canonical = href
		}
	}
	if result.Canonical != "" {
		result.CanonicalMatch = result.Canonical == pageURL
	}

	return result
}

// hasNoindexToken reports whether a robots directive value contains a
// noindex or none token (case-insensitive substring match).
func hasNoindexToken(directive string) bool {
	d := strings.ToLower(directive)
	return strings.Contains(d, "noindex") || strings.Contains(d, "none")
}

func isBinaryContentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	for _, prefix := range binaryContentTypes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}
