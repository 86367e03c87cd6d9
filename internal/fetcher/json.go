package fetcher

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// DecodeJSONObject decodes a single JSON value from a reader. Numbers are
// kept as json.Number so loosely typed upstream fields survive intact.
func DecodeJSONObject[T any](r io.Reader) (*T, error) {
	var obj T
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return nil, eris.Wrap(err, "json: decode object")
	}
	return &obj, nil
}

// FetchJSON downloads url with f and decodes the body into T.
func FetchJSON[T any](ctx context.Context, f Fetcher, url string) (*T, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	return DecodeJSONObject[T](body)
}
