package geocode

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Provider represents a single geocoding backend.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, query string) (*Result, error)
	Available() bool
}

// CascadeClient tries geocode providers in order until one matches.
type CascadeClient struct {
	providers []Provider
}

// NewCascadeClient creates a CascadeClient that tries providers in order.
func NewCascadeClient(providers []Provider) *CascadeClient {
	return &CascadeClient{providers: providers}
}

// Providers returns the provider names in cascade order.
func (c *CascadeClient) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Geocode implements Client. Provider errors are logged and skipped; if
// every provider misses or fails, the last error is returned only when no
// provider answered at all.
func (c *CascadeClient) Geocode(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return &Result{Matched: false, Source: "cascade"}, nil
	}

	var lastErr error
	answered := false
	for _, p := range c.providers {
		if !p.Available() {
			continue
		}
		result, err := p.Geocode(ctx, query)
		if err != nil {
			zap.L().Debug("geocode: provider error, trying next",
				zap.String("provider", p.Name()),
				zap.String("query", query),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		answered = true
		if result != nil && result.Matched {
			return result, nil
		}
	}

	if !answered && lastErr != nil {
		return nil, lastErr
	}
	return &Result{Matched: false, Source: "cascade"}, nil
}
