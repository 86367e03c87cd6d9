package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/kisanportal/mandi-cli/internal/resilience"
)

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		UserAgent: "test-agent",
		Timeout:   5 * time.Second,
		Headers:   map[string]string{"Accept": "application/json"},
	})
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, err := newTestFetcher().Download(context.Background(), srv.URL+"/resource")
	require.NoError(t, err)
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
}

func TestDownload_ServerErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.True(t, resilience.IsTransient(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownload_ClientErrorIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}

func TestDownload_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Timeout: 20 * time.Millisecond})
	_, err := f.Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestDownload_RateLimiterCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	lim := rate.NewLimiter(rate.Every(time.Hour), 1)
	lim.Allow() // drain the only token
	f := NewHTTPFetcher(HTTPOptions{RateLimiters: map[string]*rate.Limiter{u.Host: lim}})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = f.Download(ctx, srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter wait")
}

func TestNewHTTPFetcher_Defaults(t *testing.T) {
	f := NewHTTPFetcher(HTTPOptions{})
	assert.Equal(t, 30*time.Second, f.opts.Timeout)
	assert.Equal(t, "mandi-cli/1.0", f.opts.UserAgent)
}
