package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the global application configuration
type AppConfig struct {
	UserAgent           string           `yaml:"user_agent,omitempty"`            // Identity sent on every request
	MaxURLs             int              `yaml:"max_urls,omitempty"`              // Cap on discovered leaf URLs per traversal
	ProbeConcurrency    int              `yaml:"probe_concurrency,omitempty"`     // Max probes in flight system-wide
	SitemapFetchTimeout time.Duration    `yaml:"sitemap_fetch_timeout,omitempty"` // Per-sitemap-document request timeout
	ProbeTimeout        time.Duration    `yaml:"probe_timeout,omitempty"`         // Per-probe request timeout
	ProbeRetryDelay     time.Duration    `yaml:"probe_retry_delay,omitempty"`     // Backoff before the single probe retry
	MaxBodyBytes        int64            `yaml:"max_body_bytes,omitempty"`        // Cap on probe body bytes read
	HTTPClientSettings  HTTPClientConfig `yaml:"http_client_settings,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"` // Timeout for 100-continue
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"`     // Explicitly enable/disable HTTP/2 attempt (use pointer for tri-state: nil=default, true=force, false=disable)
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
}

// DefaultUserAgent identifies the auditor as a Googlebot-compatible crawler
// so sites that block generic clients still respond.
const DefaultUserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"

// Default returns an AppConfig populated with standard values.
func Default() *AppConfig {
	return &AppConfig{
		UserAgent:           DefaultUserAgent,
		MaxURLs:             50000,
		ProbeConcurrency:    30,
		SitemapFetchTimeout: 10 * time.Second,
		ProbeTimeout:        5 * time.Second,
		ProbeRetryDelay:     500 * time.Millisecond,
		MaxBodyBytes:        250000,
	}
}

// Load reads a YAML config file into an AppConfig, starting from defaults so
// omitted fields keep their standard values.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}
