// Package fetcher retrieves rendered channel pages through a text-extraction
// proxy.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultProxyPrefix routes fetches through the r.jina.ai text-extraction
// proxy; the target URL is appended verbatim.
const DefaultProxyPrefix = "https://r.jina.ai/"

// DefaultUserAgent is sent with every proxy request.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/123.0.0.0 Safari/537.36"

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 30 * time.Second

// maxResponseBodyBytes limits the size of fetched page responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// Config configures a Fetcher.
type Config struct {
	ProxyPrefix string
	UserAgent   string
	Timeout     time.Duration
}

// WithDefaults fills zero-valued fields with package defaults.
func (c Config) WithDefaults() Config {
	if c.ProxyPrefix == "" {
		c.ProxyPrefix = DefaultProxyPrefix
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Fetcher fetches pages as rendered text via the configured proxy.
type Fetcher struct {
	httpClient  *http.Client
	proxyPrefix string
	userAgent   string
}

// New creates a Fetcher from the given configuration.
func New(cfg Config) *Fetcher {
	cfg = cfg.WithDefaults()

	return &Fetcher{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		proxyPrefix: cfg.ProxyPrefix,
		userAgent:   cfg.UserAgent,
	}
}

// FetchPage retrieves the rendered text of pageURL through the proxy.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	target := f.proxyPrefix + pageURL

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http fetch: %w", err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxResponseBodyBytes)

	body, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("unexpected http status %d", resp.StatusCode)
	}

	return string(body), nil
}
