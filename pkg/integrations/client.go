// Package integrations provides the shared HTTP plumbing for the external
// APIs the pipeline talks to. It layers response caching, bounded
// retry-with-backoff, and rate-limit awareness over net/http so the GitHub
// client stays a thin mapping from endpoints to types.
package integrations

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/davepeck/bigtime-t-strings/pkg/cache"
	"github.com/davepeck/bigtime-t-strings/pkg/errors"
)

const httpTimeout = 30 * time.Second

// DefaultCacheTTL is how long API responses stay fresh. Discovery runs on
// a schedule measured in hours, so anything shorter just burns rate limit.
const DefaultCacheTTL = time.Hour

// Client provides shared HTTP functionality for API clients: caching,
// retry logic, and common request headers.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	cacheTTL time.Duration
	headers  map[string]string
}

// NewClient creates a Client over the given cache with default headers.
// Headers are applied to all requests. Pass a NullCache to disable caching.
func NewClient(c cache.Cache, ttl time.Duration, headers map[string]string) *Client {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Client{
		http:     &http.Client{Timeout: httpTimeout},
		cache:    c,
		cacheTTL: ttl,
		headers:  headers,
	}
}

// Cached retrieves a JSON value from cache or executes fetch (with retry)
// and caches the result. If refresh is true, the cache is bypassed and
// fetch always runs.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			if err := json.Unmarshal(data, v); err == nil {
				return nil
			}
			// Undecodable entry: fall through and refetch.
		}
	}
	if err := cache.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.cacheTTL)
	}
	return nil
}

// Get performs an HTTP GET and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", url))
	}

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// checkStatus maps HTTP statuses onto the pipeline's error taxonomy.
// Rate limits and 5xx responses are retryable; auth failures and missing
// resources are not.
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "resource not found")
	case code == http.StatusUnauthorized:
		return errors.New(errors.ErrCodeUnauthorized, "authentication failed (check GITHUB_TOKEN)")
	case code == http.StatusForbidden && rateLimited(resp):
		return &cache.RetryableError{
			Err:   errors.New(errors.ErrCodeRateLimited, "rate limited"),
			After: retryAfter(resp),
		}
	case code == http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "access forbidden")
	case code == http.StatusTooManyRequests:
		return &cache.RetryableError{
			Err:   errors.New(errors.ErrCodeRateLimited, "rate limited"),
			After: retryAfter(resp),
		}
	case code >= 500:
		return cache.Retryable(errors.New(errors.ErrCodeNetwork, "status %d", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "status %d", code)
	}
}

// rateLimited distinguishes GitHub's rate-limit 403 from a permission 403.
func rateLimited(resp *http.Response) bool {
	return resp.Header.Get("X-RateLimit-Remaining") == "0" ||
		resp.Header.Get("Retry-After") != ""
}

// retryAfter extracts the upstream wait hint, capped so a hostile header
// cannot park the run for hours.
func retryAfter(resp *http.Response) time.Duration {
	const maxWait = 2 * time.Minute

	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			return min(time.Duration(secs)*time.Second, maxWait)
		}
	}
	if s := resp.Header.Get("X-RateLimit-Reset"); s != "" {
		if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
			if wait := time.Until(time.Unix(unix, 0)); wait > 0 {
				return min(wait, maxWait)
			}
		}
	}
	return 0
}
