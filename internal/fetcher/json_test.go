package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Records []map[string]any `json:"records"`
	Total   json.Number      `json:"total"`
}

func TestDecodeJSONObject_KeepsNumbers(t *testing.T) {
	p, err := DecodeJSONObject[payload](strings.NewReader(`{"records":[{"modal_price":1850}],"total":42}`))
	require.NoError(t, err)
	require.Len(t, p.Records, 1)
	assert.Equal(t, json.Number("1850"), p.Records[0]["modal_price"])
	assert.Equal(t, json.Number("42"), p.Total)
}

func TestDecodeJSONObject_Invalid(t *testing.T) {
	_, err := DecodeJSONObject[payload](strings.NewReader(`{"records":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json: decode object")
}

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"records":[{"market":"Azadpur"}],"total":"1"}`))
	}))
	defer srv.Close()

	p, err := FetchJSON[payload](context.Background(), newTestFetcher(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Azadpur", p.Records[0]["market"])
}

func TestFetchJSON_DownloadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := FetchJSON[payload](context.Background(), newTestFetcher(), srv.URL)
	require.Error(t, err)
}
