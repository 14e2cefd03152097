package config

import (
	"fmt"
	"time"

	"sitemap-audit/pkg/utils"
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// UserAgent
	if c.UserAgent == "" {
		warnings = append(warnings, "user_agent is empty, using the default crawler identity")
		c.UserAgent = DefaultUserAgent
	}

	// MaxURLs
	if c.MaxURLs <= 0 {
		warnings = append(warnings, "max_urls should be > 0, defaulting to 50000")
		c.MaxURLs = 50000
	}

	// ProbeConcurrency
	if c.ProbeConcurrency <= 0 {
		warnings = append(warnings, "probe_concurrency should be > 0, defaulting to 30")
		c.ProbeConcurrency = 30
	}

	// Timeouts
	if c.SitemapFetchTimeout <= 0 {
		warnings = append(warnings, "sitemap_fetch_timeout should be > 0, defaulting to 10s")
		c.SitemapFetchTimeout = 10 * time.Second
	}
	if c.ProbeTimeout <= 0 {
		warnings = append(warnings, "probe_timeout should be > 0, defaulting to 5s")
		c.ProbeTimeout = 5 * time.Second
	}

	// ProbeRetryDelay
	if c.ProbeRetryDelay < 0 {
		return warnings, fmt.Errorf("%w: probe_retry_delay cannot be negative", utils.ErrConfigValidation)
	}
	if c.ProbeRetryDelay == 0 {
		c.ProbeRetryDelay = 500 * time.Millisecond
	}

	// MaxBodyBytes
	if c.MaxBodyBytes <= 0 {
		warnings = append(warnings, "max_body_bytes should be > 0, defaulting to 250000")
		c.MaxBodyBytes = 250000
	}

	// HTTP client settings
	h := &c.HTTPClientSettings
	if h.MaxIdleConns < 0 || h.MaxIdleConnsPerHost < 0 {
		return warnings, fmt.Errorf("%w: http_client_settings connection limits cannot be negative", utils.ErrConfigValidation)
	}
	if h.MaxIdleConns == 0 {
		h.MaxIdleConns = 100
	}
	if h.MaxIdleConnsPerHost == 0 {
		h.MaxIdleConnsPerHost = 10
	}
	if h.IdleConnTimeout == 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout == 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.ExpectContinueTimeout == 0 {
		h.ExpectContinueTimeout = 1 * time.Second
	}
	if h.DialerTimeout == 0 {
		h.DialerTimeout = 15 * time.Second
	}
	if h.DialerKeepAlive == 0 {
		h.DialerKeepAlive = 30 * time.Second
	}

	return warnings, nil
}
