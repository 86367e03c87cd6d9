package geospatial

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kisanportal/mandi-cli/internal/resilience"
	"github.com/kisanportal/mandi-cli/pkg/geocode"
)

// fakeGeocoder answers from a map and records every query.
type fakeGeocoder struct {
	mu      sync.Mutex
	results map[string]*geocode.Result
	err     error
	queries []string
	onCall  func()
}

func (f *fakeGeocoder) Geocode(_ context.Context, query string) (*geocode.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.onCall != nil {
		f.onCall()
	}
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.results[query]; ok {
		return r, nil
	}
	return &geocode.Result{Matched: false}, nil
}

// countingPacer counts Wait calls without sleeping.
type countingPacer struct {
	waits int
	err   error
}

func (p *countingPacer) Wait(_ context.Context) error {
	p.waits++
	return p.err
}

func match(lat, lng float64) *geocode.Result {
	return &geocode.Result{Latitude: lat, Longitude: lng, Matched: true, Source: "fake"}
}

func tasks(queries ...string) []Task {
	out := make([]Task, len(queries))
	for i, q := range queries {
		out[i] = Task{Index: i, Query: q}
	}
	return out
}

func TestGeocodeQueue_ResolvesInOrder(t *testing.T) {
	g := &fakeGeocoder{results: map[string]*geocode.Result{
		"Azadpur, Delhi": match(28.71, 77.18),
		"Vashi, Mumbai":  match(19.07, 73.0),
	}}
	pacer := &countingPacer{}
	q := NewGeocodeQueue(g, QueueOptions{Pacer: pacer})

	out := q.Run(context.Background(), tasks("Azadpur, Delhi", "Nowhere", "Vashi, Mumbai"))
	require.Len(t, out, 3)

	assert.True(t, out[0].OK)
	assert.InDelta(t, 28.71, out[0].Coord.Lat, 1e-9)
	assert.Equal(t, "fake", out[0].Source)
	assert.False(t, out[1].OK)
	assert.Equal(t, 1, out[1].Index)
	assert.True(t, out[2].OK)

	assert.Equal(t, []string{"Azadpur, Delhi", "Nowhere", "Vashi, Mumbai"}, g.queries)
	assert.Equal(t, 2, pacer.waits, "pacing happens between lookups only")
}

func TestGeocodeQueue_StopsAtMaxLookups(t *testing.T) {
	g := &fakeGeocoder{}
	q := NewGeocodeQueue(g, QueueOptions{Pacer: &countingPacer{}, MaxLookups: 2})

	out := q.Run(context.Background(), tasks("a", "b", "c", "d"))
	assert.Len(t, out, 2)
	assert.Len(t, g.queries, 2)
	assert.Equal(t, 2, q.MaxLookups())
}

func TestGeocodeQueue_DefaultMaxLookups(t *testing.T) {
	q := NewGeocodeQueue(&fakeGeocoder{}, QueueOptions{})
	assert.Equal(t, DefaultMaxLookups, q.MaxLookups())
}

func TestGeocodeQueue_ErrorsBecomeMisses(t *testing.T) {
	g := &fakeGeocoder{err: errors.New("nominatim down")}
	q := NewGeocodeQueue(g, QueueOptions{Pacer: &countingPacer{}})

	out := q.Run(context.Background(), tasks("a", "b"))
	require.Len(t, out, 2)
	assert.False(t, out[0].OK)
	assert.False(t, out[1].OK)
}

func TestGeocodeQueue_InvalidCoordinateIsMiss(t *testing.T) {
	g := &fakeGeocoder{results: map[string]*geocode.Result{"zero": match(0, 0)}}
	q := NewGeocodeQueue(g, QueueOptions{Pacer: &countingPacer{}})

	out := q.Run(context.Background(), tasks("zero"))
	require.Len(t, out, 1)
	assert.False(t, out[0].OK)
}

func TestGeocodeQueue_CancellationStopsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := &fakeGeocoder{results: map[string]*geocode.Result{"a": match(20, 78)}}
	g.onCall = cancel
	q := NewGeocodeQueue(g, QueueOptions{Pacer: &countingPacer{}})

	out := q.Run(ctx, tasks("a", "b", "c"))
	require.Len(t, out, 1)
	assert.True(t, out[0].OK)
	assert.Len(t, g.queries, 1)
}

func TestGeocodeQueue_PacerErrorStops(t *testing.T) {
	g := &fakeGeocoder{}
	q := NewGeocodeQueue(g, QueueOptions{Pacer: &countingPacer{err: context.Canceled}})

	out := q.Run(context.Background(), tasks("a", "b", "c"))
	assert.Len(t, out, 1)
}

func TestGeocodeQueue_BreakerFastFails(t *testing.T) {
	g := &fakeGeocoder{err: resilience.NewTransientError(errors.New("503"), 503)}
	br := resilience.NewBreaker(resilience.BreakerConfig{Name: "test", Threshold: 2, CoolDown: time.Hour})
	pacer := &countingPacer{}
	q := NewGeocodeQueue(g, QueueOptions{Pacer: pacer, Breaker: br})

	out := q.Run(context.Background(), tasks("a", "b", "c", "d"))
	require.Len(t, out, 4)
	for _, o := range out {
		assert.False(t, o.OK)
	}
	assert.Len(t, g.queries, 2, "breaker opens after two transient failures")
	assert.Equal(t, 1, pacer.waits)
	assert.Equal(t, resilience.StateOpen, br.State())
}

func TestNewFixedPacer(t *testing.T) {
	p := NewFixedPacer(0)
	require.NoError(t, p.Wait(context.Background()))
	require.NoError(t, p.Wait(context.Background()))

	p = NewFixedPacer(time.Hour)
	require.NoError(t, p.Wait(context.Background()), "first token is immediate")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, p.Wait(ctx))
}
