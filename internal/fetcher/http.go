package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kisanportal/mandi-cli/internal/resilience"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	// Headers are added to every request.
	Headers map[string]string
	// RateLimiters paces requests per host. Hosts without an entry are not limited.
	RateLimiters map[string]*rate.Limiter
}

// HTTPFetcher implements Fetcher using net/http. Requests are never retried;
// a failed download is reported to the caller as-is.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "mandi-cli/1.0"
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts: opts,
	}
}

func (f *HTTPFetcher) limiterFor(rawURL string) *rate.Limiter {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return f.opts.RateLimiters[u.Host]
}

// Download fetches the URL and returns the response body.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if lim := f.limiterFor(rawURL); lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "fetch: rate limiter wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	for k, v := range f.opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if resilience.IsTransient(err) {
			return nil, resilience.NewTransientError(eris.Wrap(err, "fetch: request"), 0)
		}
		return nil, eris.Wrap(err, "fetch: request")
	}

	zap.L().Debug("fetch: response",
		zap.String("host", req.URL.Host),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, resilience.StatusError("fetch: "+req.URL.Host, resp.StatusCode)
	}

	return resp.Body, nil
}
