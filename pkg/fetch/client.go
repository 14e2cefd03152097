package fetch

import (
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"sitemap-audit/pkg/config"
)

// NewClient creates the shared HTTP client used for sitemap fetches.
// Per-request timeouts come from contexts, so no overall client timeout is set.
func NewClient(cfg config.HTTPClientConfig, log *logrus.Logger) *http.Client {
	log.Debug("Initializing HTTP client...")

	// Create custom dialer with configured timeouts
	dialer := &net.Dialer{
		Timeout:   cfg.DialerTimeout,
		KeepAlive: cfg.DialerKeepAlive,
	}

	// Create custom transport using configured settings
	transport := &http.Transport{
		Proxy:                  http.ProxyFromEnvironment, // Use system proxy settings
		DialContext:            dialer.DialContext,
		ForceAttemptHTTP2:      true,
		MaxIdleConns:           cfg.MaxIdleConns,
		MaxIdleConnsPerHost:    cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:        cfg.IdleConnTimeout,
		TLSHandshakeTimeout:    cfg.TLSHandshakeTimeout,
		ExpectContinueTimeout:  cfg.ExpectContinueTimeout,
		MaxResponseHeaderBytes: 1 << 20, // 1MB max header size
	}
	// Handle explicit setting for ForceAttemptHTTP2 if provided
	if cfg.ForceAttemptHTTP2 != nil {
		transport.ForceAttemptHTTP2 = *cfg.ForceAttemptHTTP2
	}

	return &http.Client{Transport: transport}
}

// NewProbeClient creates the HTTP client shared by all probe workers.
// Redirects are never followed: the prober inspects the redirect response
// itself. The transport is built the same way as the sitemap client's.
func NewProbeClient(cfg config.HTTPClientConfig, timeout time.Duration, log *logrus.Logger) *http.Client {
	client := NewClient(cfg, log)
	client.Timeout = timeout
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return client
}
