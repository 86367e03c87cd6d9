// Package datagov fetches daily mandi prices from the data.gov.in resource API.
package datagov

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kisanportal/mandi-cli/internal/fetcher"
	"github.com/kisanportal/mandi-cli/internal/model"
)

// DefaultBaseURL is the "current daily price of various commodities" resource.
const DefaultBaseURL = "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"

// Paging defaults applied when a query leaves them unset.
const (
	DefaultLimit  = 1000
	DefaultOffset = 0
)

// ErrNoData is returned when the upstream answers without a records array.
var ErrNoData = eris.New("No data received from API")

// Client fetches raw price records.
type Client interface {
	Prices(ctx context.Context, q Query) (*Response, error)
}

// Query holds the upstream filter and paging parameters.
type Query struct {
	State  string
	Limit  int
	Offset int
}

// Response is the upstream payload reduced to what callers use.
type Response struct {
	Records []model.RawRecord
	Total   int
}

type apiResponse struct {
	Records []model.RawRecord `json:"records"`
	Total   any               `json:"total"`
}

type client struct {
	fetcher fetcher.Fetcher
	baseURL string
	apiKey  string
}

// NewClient creates a Client that downloads through f.
func NewClient(f fetcher.Fetcher, baseURL, apiKey string) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &client{fetcher: f, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// Prices fetches one page of price records.
func (c *client) Prices(ctx context.Context, q Query) (*Response, error) {
	reqURL := c.buildURL(q)

	resp, err := fetcher.FetchJSON[apiResponse](ctx, c.fetcher, reqURL)
	if err != nil {
		return nil, eris.Wrap(err, "datagov: fetch prices")
	}
	if resp.Records == nil {
		return nil, ErrNoData
	}

	total := len(resp.Records)
	if t, ok := parseTotal(resp.Total); ok && t > 0 {
		total = t
	}

	zap.L().Debug("datagov: prices fetched",
		zap.String("state", q.State),
		zap.Int("records", len(resp.Records)),
		zap.Int("total", total),
	)

	return &Response{Records: resp.Records, Total: total}, nil
}

// buildURL renders the request URL. The state filter is only sent when set.
func (c *client) buildURL(q Query) string {
	limit, offset := q.Limit, q.Offset
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = DefaultOffset
	}

	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	if s := strings.TrimSpace(q.State); s != "" {
		params.Set("filters[state]", s)
	}
	return c.baseURL + "?" + params.Encode()
}

func parseTotal(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	case float64:
		return int(t), true
	}
	return 0, false
}
