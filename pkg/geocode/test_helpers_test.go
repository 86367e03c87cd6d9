package geocode

import (
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// newHostRedirectClient sends requests for endpoint's host to srvURL,
// keeping path and query intact. Other hosts pass through.
func newHostRedirectClient(srvURL, endpoint string) *http.Client {
	target, _ := url.Parse(srvURL)
	from, _ := url.Parse(endpoint)
	return &http.Client{Transport: hostRedirect{from: from.Host, to: target}}
}

type hostRedirect struct {
	from string
	to   *url.URL
}

func (h hostRedirect) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Host != h.from {
		return http.DefaultTransport.RoundTrip(req)
	}
	out := req.Clone(req.Context())
	out.URL.Scheme = h.to.Scheme
	out.URL.Host = h.to.Host
	out.Host = h.to.Host
	return http.DefaultTransport.RoundTrip(out)
}
