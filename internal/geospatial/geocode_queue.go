// Package geospatial resolves market locations through a paced geocoding
// queue and renders ranked markets as GeoJSON.
package geospatial

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kisanportal/mandi-cli/internal/model"
	"github.com/kisanportal/mandi-cli/internal/resilience"
	"github.com/kisanportal/mandi-cli/pkg/geocode"
)

// DefaultMaxLookups caps the number of geocoder calls per run.
const DefaultMaxLookups = 50

// Pacer spaces successive lookups. *rate.Limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewFixedPacer returns a Pacer allowing one lookup per interval.
func NewFixedPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Task is one free-text location to resolve. Index identifies the caller's
// record and is echoed back in the Outcome.
type Task struct {
	Index int
	Query string
}

// Outcome is the result of one attempted lookup.
type Outcome struct {
	Index  int
	Coord  model.Coordinate
	OK     bool
	Source string
}

// QueueOptions configures a GeocodeQueue.
type QueueOptions struct {
	Pacer      Pacer
	MaxLookups int
	// Breaker, when set, fast-fails the remaining lookups once the geocoder
	// keeps failing.
	Breaker *resilience.Breaker
}

// GeocodeQueue resolves tasks strictly one at a time.
type GeocodeQueue struct {
	geocoder   geocode.Client
	pacer      Pacer
	maxLookups int
	breaker    *resilience.Breaker
}

// NewGeocodeQueue creates a GeocodeQueue over geocoder.
func NewGeocodeQueue(geocoder geocode.Client, opts QueueOptions) *GeocodeQueue {
	if opts.MaxLookups <= 0 {
		opts.MaxLookups = DefaultMaxLookups
	}
	if opts.Pacer == nil {
		opts.Pacer = NewFixedPacer(time.Second)
	}
	return &GeocodeQueue{
		geocoder:   geocoder,
		pacer:      opts.Pacer,
		maxLookups: opts.MaxLookups,
		breaker:    opts.Breaker,
	}
}

// MaxLookups returns the per-run lookup cap.
func (q *GeocodeQueue) MaxLookups() int { return q.maxLookups }

// Run geocodes tasks in order and returns one Outcome per attempted task.
// Tasks past the lookup cap are not attempted. Geocoder errors and misses
// become OK=false outcomes. If ctx is canceled, Run returns the outcomes
// gathered so far.
func (q *GeocodeQueue) Run(ctx context.Context, tasks []Task) []Outcome {
	n := min(len(tasks), q.maxLookups)
	if len(tasks) > n {
		zap.L().Debug("geocode queue: lookup cap reached",
			zap.Int("tasks", len(tasks)),
			zap.Int("max_lookups", q.maxLookups),
		)
	}

	outcomes := make([]Outcome, 0, n)
	called := false
	for _, task := range tasks[:n] {
		if ctx.Err() != nil {
			break
		}

		if q.breaker != nil && q.breaker.State() == resilience.StateOpen {
			outcomes = append(outcomes, Outcome{Index: task.Index})
			continue
		}

		if called {
			if err := q.pacer.Wait(ctx); err != nil {
				break
			}
		}
		called = true

		outcomes = append(outcomes, q.lookup(ctx, task))
	}

	resolved := 0
	for _, o := range outcomes {
		if o.OK {
			resolved++
		}
	}
	zap.L().Debug("geocode queue: run complete",
		zap.Int("attempted", len(outcomes)),
		zap.Int("resolved", resolved),
	)
	return outcomes
}

func (q *GeocodeQueue) lookup(ctx context.Context, task Task) Outcome {
	out := Outcome{Index: task.Index}

	result, err := resilience.Do(ctx, q.breaker, func(ctx context.Context) (*geocode.Result, error) {
		return q.geocoder.Geocode(ctx, task.Query)
	})
	if err != nil {
		zap.L().Warn("geocode queue: lookup failed",
			zap.Int("index", task.Index),
			zap.String("query", task.Query),
			zap.Error(err),
		)
		return out
	}

	coord, ok := result.Coordinate()
	if !ok {
		zap.L().Debug("geocode queue: no match", zap.String("query", task.Query))
		return out
	}
	out.Coord = coord
	out.OK = true
	out.Source = result.Source
	return out
}
