package fetcher

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"resty.dev/v3"

	"largestbanks/internal/ratelimit"
)

const (
	// Default retry wait configuration, used when retries are enabled
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
)

// Options configures an HTTPPageFetcher. The zero value performs a single
// attempt with no timeout and no rate limiting.
type Options struct {
	Retries   int
	RetryWait time.Duration
	Timeout   time.Duration
	Limiter   *ratelimit.Limiter
}

// NewHTTPClient creates a new HTTP client with retry logic and exponential backoff
func NewHTTPClient(opts Options) *resty.Client {
	wait, maxWait := defaultRetryWaitTime, defaultRetryMaxWaitTime
	if opts.RetryWait > 0 {
		wait, maxWait = opts.RetryWait, opts.RetryWait
	}

	client := resty.New().
		SetHeader("Accept", "text/html").
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(maxWait).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook)

	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return client
}

// retryCondition determines whether a request should be retried based on the response and error
func retryCondition(r *resty.Response, err error) bool {
	// Retry on network errors
	if err != nil {
		return true
	}

	switch {
	case r.StatusCode() >= 500:
		return true
	case r.StatusCode() == 429, r.StatusCode() == 408:
		return true
	default:
		return false
	}
}

// retryHook logs retry attempts for observability
func retryHook(r *resty.Response, err error) {
	if err != nil {
		slog.Debug("retrying request due to error",
			"url", r.Request.URL,
			"attempt", r.Request.Attempt,
			"error", err.Error())
		return
	}

	slog.Debug("retrying request due to status code",
		"url", r.Request.URL,
		"attempt", r.Request.Attempt,
		"status_code", r.StatusCode())
}

// HTTPPageFetcher fetches a single page over HTTP
type HTTPPageFetcher struct {
	url     string
	host    string
	client  *resty.Client
	limiter *ratelimit.Limiter
}

// NewHTTPPageFetcher creates a fetcher for the given page address
func NewHTTPPageFetcher(pageURL string, opts Options) *HTTPPageFetcher {
	host := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		host = u.Host
	}

	return &HTTPPageFetcher{
		url:     pageURL,
		host:    host,
		client:  NewHTTPClient(opts),
		limiter: opts.Limiter,
	}
}

// URL returns the page address
func (f *HTTPPageFetcher) URL() string {
	return f.url
}

// Fetch retrieves the page body
func (f *HTTPPageFetcher) Fetch(ctx context.Context) (string, error) {
	if err := f.limiter.Wait(ctx, f.host); err != nil {
		return "", ClassifyTransportError(err)
	}

	slog.Debug("fetching page", "url", f.url)
	resp, err := f.client.R().
		SetContext(ctx).
		Get(f.url)
	if err != nil {
		return "", ClassifyTransportError(err)
	}

	if !resp.IsSuccess() {
		return "", ClassifyHTTPError(resp.StatusCode())
	}

	body := resp.String()
	slog.Debug("page fetched", "url", f.url, "status_code", resp.StatusCode(), "bytes", len(body))
	return body, nil
}

// Close releases the underlying client's resources
func (f *HTTPPageFetcher) Close() error {
	return f.client.Close()
}
