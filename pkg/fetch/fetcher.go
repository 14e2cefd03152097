package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"sitemap-audit/pkg/config"
	"sitemap-audit/pkg/utils"
)

// SitemapFetcher retrieves the raw (decompressed) bytes of one sitemap document.
type SitemapFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Fetcher performs single HTTP GETs for sitemap documents using a shared
// http.Client, handling the crawler identity header and transparent gzip
// decompression.
type Fetcher struct {
	client *http.Client
	cfg    *config.AppConfig
	log    *logrus.Entry
}

// NewFetcher creates a new Fetcher instance
func NewFetcher(client *http.Client, cfg *config.AppConfig, log *logrus.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		cfg:    cfg,
		log:    log.WithField("component", "fetcher"),
	}
}

// Fetch performs a GET for rawURL under the configured sitemap timeout.
// A non-2xx status is an error carrying the status line. The returned bytes
// are decompressed when the payload carries the gzip magic number or the URL
// ends in ".gz"; decompression failure falls back to the raw bytes.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.SitemapFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrRequestCreation, err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	statusCode := resp.StatusCode
	if statusCode < 200 || statusCode >= 300 {
		var sentinel error
		switch {
		case statusCode >= 500:
			sentinel = utils.ErrServerHTTPError
		case statusCode >= 400:
			sentinel = utils.ErrClientHTTPError
		default:
			sentinel = utils.ErrOtherHTTPError
		}
		return nil, fmt.Errorf("%w: status %d %s", sentinel, statusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrResponseBodyRead, err)
	}

	f.log.WithFields(logrus.Fields{"url": rawURL, "bytes": len(body)}).Debug("Fetched sitemap document")
	return MaybeGunzip(body, rawURL), nil
}

// MaybeGunzip decompresses data when it starts with the gzip magic number or
// name ends in ".gz". Anything that fails to decompress is returned as-is.
func MaybeGunzip(data []byte, name string) []byte {
	if !IsGzip(data) && !strings.HasSuffix(name, ".gz") {
		return data
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return data
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return data
	}
	return out
}

// IsGzip reports whether data starts with the gzip magic number.
func IsGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}
