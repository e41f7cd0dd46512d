package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/entur/gibil-sub000/types"
)

// Connection pool settings for subscriber callbacks. Subscribers are few
// and long-lived, so a small warm pool per host is enough.
const (
	maxIdleConns        = 10
	maxConnsPerHost     = 5
	idleConnTimeout     = 90 * time.Second
	tlsHandshakeTimeout = 10 * time.Second

	defaultTimeout     = 10 * time.Second
	defaultContentType = "application/xml"
)

// HTTPPoster implements types.Poster over a pooled net/http client.
type HTTPPoster struct {
	client      *http.Client
	contentType string
}

// Compile-time assertion that HTTPPoster implements Poster.
var _ types.Poster = (*HTTPPoster)(nil)

// Option configures an HTTPPoster.
type Option func(*HTTPPoster)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *HTTPPoster) { p.client = client }
}

// WithTimeout sets the overall per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(p *HTTPPoster) { p.client.Timeout = timeout }
}

// WithContentType sets the Content-Type header sent with each POST.
func WithContentType(contentType string) Option {
	return func(p *HTTPPoster) { p.contentType = contentType }
}

// NewHTTP creates a poster with connection pooling and sane timeouts.
func NewHTTP(opts ...Option) *HTTPPoster {
	pooled := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxConnsPerHost:     maxConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
	}

	p := &HTTPPoster{
		client: &http.Client{
			Timeout:   defaultTimeout,
			Transport: pooled,
		},
		contentType: defaultContentType,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Post sends one POST and returns the response status code.
//
// The response body is drained and discarded so the connection can be
// reused. Classifying non-2xx codes as failures is the caller's concern.
func (p *HTTPPoster) Post(ctx context.Context, url string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", p.contentType)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
